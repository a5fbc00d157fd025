// Package alloc implements a malloc/free pair inside one fixed arena using
// an explicit free list, next-fit search, splitting and boundary-tag
// coalescing.
//
// # Overview
//
// Every block in the arena, free or used, starts with the same 16-byte
// header (see internal/format). A block changes state by re-stamping its
// header in place; payload bytes never move. Free blocks also carry a
// boundary tag in their last 8 bytes naming their own header, so a block
// being freed can find a free block physically above it in O(1).
//
//	+--------+------------------------+-----+
//	| header | payload (size bytes)   | tag |
//	+--------+------------------------+-----+
//	  16 B                              8 B
//
// Two intrusive lists thread through the headers:
//
//   - Free list: address-ordered, doubly linked. Address order keeps
//     coalescing well defined.
//   - Used list: LIFO, doubly linked, bookkeeping only.
//
// # Allocation
//
// Malloc rounds the request up to 8 bytes and runs next-fit: the search
// resumes at the cursor left by the previous allocation, wraps to the list
// head and gives up after one full circle. A block with room for the request
// plus another header is split, the free remainder keeping the split block's
// list position; otherwise the whole block is handed out.
//
//	al := alloc.New(a, nil)
//	al.Initialize()
//
//	p, err := al.Malloc(200)
//	if err != nil {
//	    return err // alloc.ErrNoSpace: the arena never grows
//	}
//	copy(al.Bytes(p), payload)
//
// # Deallocation
//
// Free merges the block with a free successor (found by header arithmetic)
// and with a free predecessor (found through the aboveFree flag and the
// predecessor's boundary tag), then links the result into the free list if
// no merge already did.
//
//	al.Free(p)
//
// # Statistics
//
// The arena's Stats record is updated on every transition and satisfies
//
//	CurrFreeMem + CurrUsedMem + HeaderOverhead*blocks == Capacity
//
// # Misuse
//
// Double frees, foreign pointers and interior pointers are undefined
// behaviour and are not detected. Building with -tags heapdebug enables
// assertions that panic on the cheap-to-detect cases.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally.
package alloc
