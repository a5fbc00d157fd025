package verify

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// Heap is the read-only view of an allocator the validators need.
// *alloc.Allocator satisfies it.
type Heap interface {
	Arena() *arena.Arena
	FreeHead() uint32
	UsedHead() uint32
	Cursor() uint32
	Stats() arena.Stats
}

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Block is one decoded header plus its position in the arena.
type Block struct {
	Offset int
	format.Header
}

func (b Block) end() int { return b.Offset + int(b.Footprint()) }

// AllInvariants validates all heap invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(h Heap) error {
	data := h.Arena().Bytes()
	blocks, err := Partition(data)
	if err != nil {
		return err
	}
	checks := []func() error{
		func() error { return Coalesced(blocks) },
		func() error { return BoundaryTags(data, blocks) },
		func() error { return AboveFreeFlags(blocks) },
		func() error { return FreeList(h.FreeHead(), blocks) },
		func() error { return UsedList(h.UsedHead(), blocks) },
		func() error { return Cursor(h.FreeHead(), h.Cursor(), blocks) },
		func() error { return Conservation(h.Stats(), blocks) },
		func() error { return Peaks(h.Stats()) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// Partition walks the arena physically and checks that the blocks tile it
// exactly: every header decodes, every footprint stays in bounds, and the
// last block ends at the arena end. It returns the decoded blocks.
func Partition(data []byte) ([]Block, error) {
	var blocks []Block
	off := 0
	for off < len(data) {
		h, err := format.DecodeHeader(data, off)
		if err != nil {
			return nil, &ValidationError{
				Type:    "Partition",
				Message: err.Error(),
				Offset:  off,
			}
		}
		end, err := buf.CheckRange(len(data), off, int(h.Size)+format.HeaderOverhead)
		if err != nil {
			return nil, &ValidationError{
				Type:    "Partition",
				Message: fmt.Sprintf("block of size %d overruns arena: %v", h.Size, err),
				Offset:  off,
				Details: map[string]interface{}{"size": h.Size, "arena": len(data)},
			}
		}
		if h.Size%format.Alignment != 0 {
			return nil, &ValidationError{
				Type:    "Partition",
				Message: fmt.Sprintf("block size %d not 8-byte aligned", h.Size),
				Offset:  off,
			}
		}
		blocks = append(blocks, Block{Offset: off, Header: h})
		off = end
	}
	if len(blocks) == 0 {
		return nil, &ValidationError{Type: "Partition", Message: "arena holds no blocks", Offset: -1}
	}
	return blocks, nil
}

// Coalesced checks that no two free blocks are physical neighbours.
func Coalesced(blocks []Block) error {
	for i := 1; i < len(blocks); i++ {
		if blocks[i].Kind == format.KindFree && blocks[i-1].Kind == format.KindFree {
			return &ValidationError{
				Type:    "Coalesced",
				Message: fmt.Sprintf("free block follows free block at 0x%X", blocks[i-1].Offset),
				Offset:  blocks[i].Offset,
			}
		}
	}
	return nil
}

// BoundaryTags checks that every free block's tag names its own header.
func BoundaryTags(data []byte, blocks []Block) error {
	for _, b := range blocks {
		if b.Kind != format.KindFree {
			continue
		}
		tag, err := format.ReadTag(data, b.end())
		if err != nil {
			return &ValidationError{Type: "BoundaryTag", Message: err.Error(), Offset: b.Offset}
		}
		if int(tag) != b.Offset {
			return &ValidationError{
				Type:    "BoundaryTag",
				Message: fmt.Sprintf("tag names 0x%X", tag),
				Offset:  b.Offset,
				Details: map[string]interface{}{"tag": tag},
			}
		}
	}
	return nil
}

// AboveFreeFlags checks the aboveFree truth table: a block's flag is set
// exactly when the block physically preceding it is free.
func AboveFreeFlags(blocks []Block) error {
	for i, b := range blocks {
		want := i > 0 && blocks[i-1].Kind == format.KindFree
		if b.AboveFree != want {
			return &ValidationError{
				Type:    "AboveFree",
				Message: fmt.Sprintf("flag is %v, predecessor free is %v", b.AboveFree, want),
				Offset:  b.Offset,
			}
		}
	}
	return nil
}

// FreeList checks the free list: members are free, strictly address
// ordered, back links agree, and the members are exactly the free blocks.
func FreeList(head uint32, blocks []Block) error {
	return checkList("FreeList", head, format.KindFree, true, blocks)
}

// UsedList checks the used list: members are used, back links agree, and
// the members are exactly the used blocks.
func UsedList(head uint32, blocks []Block) error {
	return checkList("UsedList", head, format.KindUsed, false, blocks)
}

func checkList(typ string, head uint32, kind format.Kind, ordered bool, blocks []Block) error {
	byOff := make(map[int]Block, len(blocks))
	want := 0
	for _, b := range blocks {
		byOff[b.Offset] = b
		if b.Kind == kind {
			want++
		}
	}

	seen := 0
	prev := uint32(format.InvalidOffset)
	for cur := head; cur != format.InvalidOffset; {
		b, ok := byOff[int(cur)]
		if !ok {
			return &ValidationError{
				Type:    typ,
				Message: fmt.Sprintf("link 0x%X does not name a block header", cur),
				Offset:  linkSource(prev),
			}
		}
		if b.Kind != kind {
			return &ValidationError{
				Type:    typ,
				Message: fmt.Sprintf("member is %v", b.Kind),
				Offset:  b.Offset,
			}
		}
		if b.Prev != prev {
			return &ValidationError{
				Type:    typ,
				Message: fmt.Sprintf("prev link 0x%X, expected 0x%X", b.Prev, prev),
				Offset:  b.Offset,
			}
		}
		if ordered && prev != format.InvalidOffset && cur <= prev {
			return &ValidationError{
				Type:    typ,
				Message: fmt.Sprintf("address order broken after 0x%X", prev),
				Offset:  b.Offset,
			}
		}
		seen++
		if seen > want {
			return &ValidationError{
				Type:    typ,
				Message: fmt.Sprintf("more than %d members (cycle or stray block)", want),
				Offset:  b.Offset,
			}
		}
		prev, cur = cur, b.Next
	}
	if seen != want {
		return &ValidationError{
			Type:    typ,
			Message: fmt.Sprintf("list has %d members, arena has %d %v blocks", seen, want, kind),
			Offset:  -1,
		}
	}
	return nil
}

// linkSource maps the block holding a bad link to a ValidationError offset;
// -1 stands for the list head.
func linkSource(prev uint32) int {
	if prev == format.InvalidOffset {
		return -1
	}
	return int(prev)
}

// Cursor checks that the next-fit cursor names a free-list member, or is
// absent exactly when the free list is empty.
func Cursor(head, cursor uint32, blocks []Block) error {
	if head == format.InvalidOffset {
		if cursor != format.InvalidOffset {
			return &ValidationError{
				Type:    "Cursor",
				Message: "cursor set while free list is empty",
				Offset:  int(cursor),
			}
		}
		return nil
	}
	for _, b := range blocks {
		if uint32(b.Offset) == cursor {
			if b.Kind != format.KindFree {
				return &ValidationError{Type: "Cursor", Message: "cursor names a used block", Offset: b.Offset}
			}
			return nil
		}
	}
	return &ValidationError{
		Type:    "Cursor",
		Message: fmt.Sprintf("cursor 0x%X does not name a block header", cursor),
		Offset:  -1,
	}
}

// Conservation checks the statistics against the arena contents and the
// capacity equation.
func Conservation(s arena.Stats, blocks []Block) error {
	var freeMem, usedMem uint64
	var numFree, numUsed uint32
	for _, b := range blocks {
		if b.Kind == format.KindFree {
			freeMem += uint64(b.Size)
			numFree++
		} else {
			usedMem += uint64(b.Size)
			numUsed++
		}
	}
	details := map[string]interface{}{
		"freeMem": freeMem, "usedMem": usedMem,
		"numFree": numFree, "numUsed": numUsed,
		"stats": s,
	}
	if freeMem != s.CurrFreeMem || usedMem != s.CurrUsedMem ||
		numFree != s.CurrNumFreeBlocks || numUsed != s.CurrNumUsedBlocks {
		return &ValidationError{
			Type: "Conservation",
			Message: fmt.Sprintf("stats free=%d/%d used=%d/%d, arena free=%d/%d used=%d/%d",
				s.CurrFreeMem, s.CurrNumFreeBlocks, s.CurrUsedMem, s.CurrNumUsedBlocks,
				freeMem, numFree, usedMem, numUsed),
			Offset:  -1,
			Details: details,
		}
	}
	if s.Accounted() != s.Capacity {
		return &ValidationError{
			Type:    "Conservation",
			Message: fmt.Sprintf("free+used+overhead=%d, capacity=%d", s.Accounted(), s.Capacity),
			Offset:  -1,
			Details: details,
		}
	}
	return nil
}

// Peaks checks that every peak is at least its current value.
func Peaks(s arena.Stats) error {
	switch {
	case s.PeakUsedMem < s.CurrUsedMem:
		return &ValidationError{Type: "Peaks", Message: "PeakUsedMem below CurrUsedMem", Offset: -1}
	case s.PeakNumUsed < s.CurrNumUsedBlocks:
		return &ValidationError{Type: "Peaks", Message: "PeakNumUsed below CurrNumUsedBlocks", Offset: -1}
	case s.PeakFreeMem < s.CurrFreeMem:
		return &ValidationError{Type: "Peaks", Message: "PeakFreeMem below CurrFreeMem", Offset: -1}
	case s.PeakNumFree < s.CurrNumFreeBlocks:
		return &ValidationError{Type: "Peaks", Message: "PeakNumFree below CurrNumFreeBlocks", Offset: -1}
	}
	return nil
}
