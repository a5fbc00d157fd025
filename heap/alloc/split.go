package alloc

import "github.com/joshuapare/heapkit/internal/format"

// split carves a need-byte block off the low end of the free block at off.
// The remainder becomes a free block at off+HeaderOverhead+need, takes over
// off's free-list position (and the head role if off had it), and becomes
// the next-fit cursor. Returns off, now unlinked and sized to need.
//
// The caller guarantees size(off) >= need+HeaderOverhead, so the remainder
// may be an empty (zero-payload) free block but never a negative one.
func (al *Allocator) split(off, need uint32) uint32 {
	total := al.r.size(off)
	rem := off + format.HeaderOverhead + need
	remSize := total - need - format.HeaderOverhead

	if debugChecks {
		assertf(al.r.kind(off) == format.KindFree, "split of non-free block at 0x%X", off)
		assertf(total >= need+format.HeaderOverhead, "split of 0x%X: %d < %d+overhead", off, total, need)
	}

	// The remainder header does not overlap off's header, so off's links
	// are still readable when replace runs.
	al.r.stamp(rem, format.KindFree, remSize)
	al.free.replace(off, rem)
	al.r.putTag(rem)

	al.r.setSize(off, need)
	al.r.setNext(off, nilOff)
	al.r.setPrev(off, nilOff)

	al.cursor = rem

	al.splitAdjustStats()
	al.counters.Splits++

	al.debugLog("split", "off", off, "need", need, "rem", rem, "remSize", remSize)
	return off
}
