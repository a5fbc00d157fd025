package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Statistics bookkeeping. Each helper describes one transition; together
// they keep free + used + overhead*blocks equal to the arena capacity.
// Peaks are folded in once per public operation, after the last transition,
// so intermediate states of a split or coalesce never register.

// removeFreeAdjustStats accounts for a free block of size bytes leaving the
// free list.
func (al *Allocator) removeFreeAdjustStats(size uint32) {
	al.stats.CurrFreeMem -= uint64(size)
	al.stats.CurrNumFreeBlocks--
}

// addUsedAdjustStats accounts for a new used block and updates the peaks.
func (al *Allocator) addUsedAdjustStats(size uint32) {
	al.stats.CurrUsedMem += uint64(size)
	al.stats.CurrNumUsedBlocks++
	al.stats.ObservePeaks()
}

// removeUsedAdjustStats moves a freed block's bytes from used to free.
func (al *Allocator) removeUsedAdjustStats(size uint32) {
	al.stats.CurrUsedMem -= uint64(size)
	al.stats.CurrNumUsedBlocks--
	al.stats.CurrFreeMem += uint64(size)
	al.stats.CurrNumFreeBlocks++
}

// splitAdjustStats accounts for one free block becoming two: a header's
// worth of free bytes turns into metadata.
func (al *Allocator) splitAdjustStats() {
	al.stats.CurrFreeMem -= format.HeaderOverhead
	al.stats.CurrNumFreeBlocks++
}

// mergeAdjustStats accounts for two free blocks becoming one: the absorbed
// header becomes payload.
func (al *Allocator) mergeAdjustStats() {
	al.stats.CurrFreeMem += format.HeaderOverhead
	al.stats.CurrNumFreeBlocks--
}
