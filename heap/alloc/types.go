package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// Ptr is the arena offset of the first payload byte of a used block.
type Ptr uint32

// Nil is the failure sentinel returned by Malloc and the absent link in
// both block lists.
const Nil = Ptr(format.InvalidOffset)

// nilOff is Nil in header-offset space.
const nilOff = uint32(format.InvalidOffset)

func (p Ptr) String() string {
	if p == Nil {
		return "nil"
	}
	return fmt.Sprintf("0x%X", uint32(p))
}

// Block is a read-only view of one block header, for reporting.
type Block struct {
	Offset    uint32 // header offset
	Kind      format.Kind
	Size      uint32 // payload bytes
	AboveFree bool
	Next      uint32 // list link, format.InvalidOffset when absent
	Prev      uint32
}

// Ptr returns the payload pointer of the block.
func (b Block) Ptr() Ptr { return Ptr(b.Offset + format.HeaderSize) }

// End returns the offset one past the block's footprint, i.e. the header
// offset of the physically following block.
func (b Block) End() uint32 { return b.Offset + format.HeaderOverhead + b.Size }

// Counters holds operation counts for testing and instrumentation.
type Counters struct {
	AllocCalls    int // Total Malloc() calls
	AllocFailures int // Malloc() calls that returned ErrNoSpace or ErrBadSize
	ExactFits     int // Allocations that consumed a block of exactly the requested size
	Absorbed      int // Allocations that took a whole block too small to split
	Splits        int // Allocations that carved a remainder out of a larger block
	SearchSteps   int // Free-list nodes examined by next-fit searches
	FreeCalls     int // Total Free() calls
	CoalesceDown  int // Merges with the physically following block
	CoalesceUp    int // Merges with the physically preceding block
}
