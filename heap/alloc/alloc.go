package alloc

import (
	"log/slog"

	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/internal/format"
)

// Options configures an Allocator.
type Options struct {
	// Logger receives debug records when tracing is on. Nil uses the
	// package logger from internal/logger.
	Logger *slog.Logger

	// Trace logs every split, coalesce and failure at debug level, like
	// setting HEAP_LOG_ALLOC for this allocator only.
	Trace bool
}

// Allocator is an explicit-free-list, next-fit allocator over one arena.
//
// All block metadata lives inside the arena. The allocator itself only
// holds the list heads, the next-fit cursor and a pointer to the arena's
// statistics record.
//
// Allocator instances are not thread-safe. Callers must serialize Malloc and
// Free externally.
type Allocator struct {
	arena *arena.Arena
	r     region
	end   uint32
	stats *arena.Stats

	free   freeList
	used   usedList
	cursor uint32 // next-fit resume point, a free-list member or nilOff

	// maxBlocks bounds list walks used for reporting.
	maxBlocks int

	initialized bool
	counters    Counters
	opts        Options
}

// New creates an allocator for a. Call Initialize before the first Malloc.
// Once a is released the allocator stops touching arena memory: Malloc and
// Walk return ErrReleased and Free does nothing.
func New(a *arena.Arena, opts *Options) *Allocator {
	if opts == nil {
		opts = &Options{}
	}
	r := region(a.Bytes())
	return &Allocator{
		arena:     a,
		r:         r,
		end:       a.End(),
		stats:     a.Stats(),
		free:      freeList{r: r, head: nilOff},
		used:      usedList{r: r, head: nilOff},
		cursor:    nilOff,
		maxBlocks: a.Capacity()/format.HeaderOverhead + 1,
		opts:      *opts,
	}
}

// Initialize lays out a single free block spanning the whole arena and
// resets the statistics. Calling it again discards every allocation.
func (al *Allocator) Initialize() {
	if al.released() {
		return
	}
	size := al.end - format.HeaderOverhead

	al.r.stamp(0, format.KindFree, size)
	al.r.putTag(0)

	al.free.head = 0
	al.used.head = nilOff
	al.cursor = 0

	al.stats.Reset()
	al.stats.CurrFreeMem = uint64(size)
	al.stats.CurrNumFreeBlocks = 1
	al.stats.ObservePeaks()

	al.counters = Counters{}
	al.initialized = true

	al.debugLog("initialize", "capacity", al.end, "free", size)
}

// Malloc returns a pointer to at least size bytes of payload. Sizes are
// rounded up to the 8-byte header alignment. When no free block is large
// enough it returns Nil and ErrNoSpace without changing the heap.
func (al *Allocator) Malloc(size int) (Ptr, error) {
	al.counters.AllocCalls++

	if size <= 0 {
		al.counters.AllocFailures++
		return Nil, ErrBadSize
	}
	if !al.initialized {
		al.counters.AllocFailures++
		return Nil, ErrNotInitialized
	}
	if al.released() {
		al.counters.AllocFailures++
		return Nil, ErrReleased
	}
	if uint64(size) > uint64(al.end) {
		al.counters.AllocFailures++
		al.debugLog("malloc failed", "size", size, "reason", "larger than arena")
		return Nil, ErrNoSpace
	}
	need := format.Align8U32(uint32(size))

	off := al.search(need)
	if off == nilOff {
		al.counters.AllocFailures++
		al.debugLog("malloc failed", "size", size, "need", need, "free", al.stats.CurrFreeMem)
		return Nil, ErrNoSpace
	}

	bsize := al.r.size(off)
	switch {
	case uint64(bsize) >= uint64(need)+format.HeaderOverhead:
		off = al.split(off, need)
	default:
		// Exact fit, or too small a surplus to hold another header: hand
		// out the whole block.
		if bsize == need {
			al.counters.ExactFits++
		} else {
			al.counters.Absorbed++
		}
		succ := al.r.next(off)
		al.free.remove(off)
		if succ != nilOff {
			al.cursor = succ
		} else {
			al.cursor = al.free.head
		}
	}

	al.allocateBlock(off)
	return Ptr(off + format.HeaderSize), nil
}

// search runs next-fit: start at the cursor, walk forward, wrap to the
// head, and stop after one full circle. It does not modify the heap.
func (al *Allocator) search(need uint32) uint32 {
	start := al.cursor
	if start == nilOff {
		return nilOff
	}
	cur := start
	for {
		al.counters.SearchSteps++
		if al.r.size(cur) >= need {
			return cur
		}
		cur = al.r.next(cur)
		if cur == nilOff {
			cur = al.free.head
		}
		if cur == start {
			return nilOff
		}
	}
}

// allocateBlock converts the unlinked free block at off into a used block:
// re-stamps its kind, pushes it on the used list, clears the above-free flag
// of its physical successor, and moves its bytes from free to used.
func (al *Allocator) allocateBlock(off uint32) {
	size := al.r.size(off)

	al.r.setKind(off, format.KindUsed)
	al.used.pushFront(off)

	if following := al.r.end(off); following < al.end {
		al.r.setAboveFree(following, false)
	}

	al.removeFreeAdjustStats(size)
	al.addUsedAdjustStats(size)
}

// released reports whether the arena memory is gone. The region slice the
// allocator holds must not be read after that.
func (al *Allocator) released() bool {
	return al.arena.Released()
}
