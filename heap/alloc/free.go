package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Free returns the block behind p to the free list, coalescing it with any
// free physical neighbour. p must come from Malloc on this allocator and
// must not have been freed already; misuse is not detected (build with
// -tags heapdebug for assertions). Free(Nil) is a no-op, as is any Free
// after the arena was released.
func (al *Allocator) Free(p Ptr) {
	if p == Nil {
		return
	}
	if al.released() {
		al.debugLog("free after release", "ptr", p)
		return
	}
	off := uint32(p) - format.HeaderSize

	if debugChecks {
		assertf(uint32(p) >= format.HeaderSize && off < al.end, "free of pointer %v outside arena", p)
		assertf(al.r.kind(off) == format.KindUsed, "free of %v: block is %v", p, al.r.kind(off))
	}

	al.counters.FreeCalls++

	// Read before the header changes state: it says whether the block
	// physically above is free and can absorb this one.
	aboveFree := al.r.aboveFree(off)

	al.used.remove(off)
	al.r.setKind(off, format.KindFree)
	al.removeUsedAdjustStats(al.r.size(off))

	linked := false

	if next := al.r.end(off); next < al.end && al.r.kind(next) == format.KindFree {
		al.mergeBlocks(off, next, false, true)
		al.counters.CoalesceDown++
		linked = true
	}

	if aboveFree {
		prev := al.r.tagBefore(off)
		if debugChecks {
			assertf(prev < off && al.r.kind(prev) == format.KindFree && al.r.end(prev) == off,
				"boundary tag before 0x%X names 0x%X, not a free neighbour", off, prev)
		}
		al.mergeBlocks(prev, off, true, linked)
		al.counters.CoalesceUp++
		off = prev
		linked = true
	}

	if !linked {
		al.free.insert(off)
	}

	al.r.setAboveFree(off, false)
	al.r.putTag(off)

	if following := al.r.end(off); following < al.end {
		al.r.setAboveFree(following, true)
	}

	if al.cursor == nilOff {
		al.cursor = off
	}

	al.stats.ObservePeaks()

	al.debugLog("free", "ptr", p, "block", off, "size", al.r.size(off))
}

// mergeBlocks coalesces two physically adjacent free blocks into one block
// at low. lowLinked and highLinked say which of them is already a free-list
// member; the survivor ends up linked exactly once at the position that
// keeps address order:
//
//   - both linked: they are consecutive members, so high is unlinked.
//   - only high linked: low takes over high's position.
//   - only low linked: low already sits where the merged block belongs.
//
// Head and interior positions are handled identically.
func (al *Allocator) mergeBlocks(low, high uint32, lowLinked, highLinked bool) {
	if debugChecks {
		assertf(al.r.end(low) == high, "merge of non-adjacent blocks 0x%X and 0x%X", low, high)
	}

	switch {
	case lowLinked && highLinked:
		al.free.remove(high)
	case highLinked:
		al.free.replace(high, low)
	}

	al.r.setSize(low, al.r.size(low)+al.r.size(high)+format.HeaderOverhead)

	if al.cursor == high {
		al.cursor = low
	}

	al.mergeAdjustStats()
	al.debugLog("coalesce", "low", low, "high", high, "size", al.r.size(low))
}
