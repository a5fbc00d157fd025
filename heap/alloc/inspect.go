package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// Arena returns the arena this allocator manages.
func (al *Allocator) Arena() *arena.Arena { return al.arena }

// Stats returns a copy of the arena statistics.
func (al *Allocator) Stats() arena.Stats { return *al.stats }

// Counters returns current operation counters (test and instrumentation use).
func (al *Allocator) Counters() Counters { return al.counters }

// Initialized reports whether Initialize has run.
func (al *Allocator) Initialized() bool { return al.initialized }

// FreeHead returns the header offset of the lowest free block, or
// format.InvalidOffset when the free list is empty.
func (al *Allocator) FreeHead() uint32 { return al.free.head }

// UsedHead returns the header offset of the most recently allocated block.
func (al *Allocator) UsedHead() uint32 { return al.used.head }

// Cursor returns the header offset where the next search starts.
func (al *Allocator) Cursor() uint32 { return al.cursor }

// Bytes returns the payload of the used block behind p. The slice aliases
// arena memory and is valid until p is freed.
func (al *Allocator) Bytes(p Ptr) []byte {
	if p == Nil || al.released() {
		return nil
	}
	off := uint32(p) - format.HeaderSize
	size := al.r.size(off)
	return al.r[p : uint32(p)+size : uint32(p)+size]
}

// BlockOf returns the header view of the block behind p.
func (al *Allocator) BlockOf(p Ptr) Block {
	off := uint32(p) - format.HeaderSize
	if al.released() {
		return Block{Offset: off}
	}
	return al.r.block(off)
}

// FreeBlocks returns the free list in list (address) order.
func (al *Allocator) FreeBlocks() []Block {
	if al.released() {
		return nil
	}
	out := make([]Block, 0, al.stats.CurrNumFreeBlocks)
	al.free.each(al.maxBlocks, func(off uint32) bool {
		out = append(out, al.r.block(off))
		return true
	})
	return out
}

// UsedBlocks returns the used list, most recent allocation first.
func (al *Allocator) UsedBlocks() []Block {
	if al.released() {
		return nil
	}
	out := make([]Block, 0, al.stats.CurrNumUsedBlocks)
	al.used.each(al.maxBlocks, func(off uint32) bool {
		out = append(out, al.r.block(off))
		return true
	})
	return out
}

// LargestFree returns the payload size of the largest free block, which is
// the largest request Malloc can currently satisfy.
func (al *Allocator) LargestFree() uint32 {
	var largest uint32
	if al.released() {
		return 0
	}
	al.free.each(al.maxBlocks, func(off uint32) bool {
		largest = max(largest, al.r.size(off))
		return true
	})
	return largest
}

// Walk visits every block in address order, decoding headers with bounds
// and kind checks. It stops early when fn returns false and returns an
// error if the physical chain is broken.
func (al *Allocator) Walk(fn func(Block) bool) error {
	if !al.initialized {
		return ErrNotInitialized
	}
	if al.released() {
		return ErrReleased
	}
	data := al.arena.Bytes()
	off := uint32(0)
	for off < al.end {
		h, err := format.DecodeHeader(data, int(off))
		if err != nil {
			return fmt.Errorf("alloc: walk: %w", err)
		}
		b := Block{
			Offset:    off,
			Kind:      h.Kind,
			Size:      h.Size,
			AboveFree: h.AboveFree,
			Next:      h.Next,
			Prev:      h.Prev,
		}
		if !buf.Has(data, int(off), int(h.Size)+format.HeaderOverhead) {
			return fmt.Errorf("alloc: walk: block at 0x%X runs past arena end 0x%X", off, al.end)
		}
		end := uint64(off) + uint64(h.Size) + format.HeaderOverhead
		if !fn(b) {
			return nil
		}
		off = uint32(end)
	}
	return nil
}
