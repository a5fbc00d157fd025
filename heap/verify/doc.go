// Package verify provides validation functions for heap arena structures.
//
// # Overview
//
// The validators walk an arena physically and cross-check what they find
// against the allocator's lists and statistics. They never trust a header
// before bounds-checking it, so they are safe to run on a corrupted arena.
// They are used by tests, by heapctl check/stress, and in debugging sessions.
//
// Validation categories:
//   - Partition: blocks tile the arena exactly, sizes are aligned
//   - Coalesced: no two free blocks are physical neighbours
//   - BoundaryTag: every free block's tag names its own header
//   - AboveFree: the flag mirrors the predecessor's kind
//   - FreeList / UsedList: kinds, back links, address order, membership
//   - Cursor: the next-fit cursor names a free block
//   - Conservation: statistics match the arena and sum to capacity
//   - Peaks: no peak below its current value
//
// # Quick Start
//
// Validate all invariants in one call:
//
//	if err := verify.AllInvariants(al); err != nil {
//	    fmt.Printf("Validation failed: %v\n", err)
//	}
//
// Validate specific aspects:
//
//	blocks, err := verify.Partition(al.Arena().Bytes())
//	if err == nil {
//	    err = verify.FreeList(al.FreeHead(), blocks)
//	}
//
// # Error Handling
//
// Validators return *ValidationError, which carries the violation type, the
// offending block offset (-1 when not tied to a block) and optional details:
//
//	var ve *verify.ValidationError
//	if errors.As(err, &ve) {
//	    fmt.Printf("%s at 0x%X: %s\n", ve.Type, ve.Offset, ve.Message)
//	}
package verify
