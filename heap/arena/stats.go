package arena

// Stats describes how an arena's bytes are split between free memory, used
// memory and block metadata.
//
// Conservation holds at every observation point:
//
//	CurrFreeMem + CurrUsedMem + HeaderOverhead*(CurrNumFreeBlocks+CurrNumUsedBlocks) == Capacity
type Stats struct {
	HeapStart      uint32 // offset of the first usable byte
	HeapEnd        uint32 // offset one past the last usable byte
	Capacity       uint64 // HeapEnd - HeapStart
	HeaderOverhead uint64 // metadata bytes per block

	CurrFreeMem       uint64
	CurrUsedMem       uint64
	CurrNumFreeBlocks uint32
	CurrNumUsedBlocks uint32

	PeakFreeMem uint64
	PeakUsedMem uint64
	PeakNumFree uint32
	PeakNumUsed uint32
}

// NumBlocks returns the total number of blocks in the arena.
func (s Stats) NumBlocks() uint32 {
	return s.CurrNumFreeBlocks + s.CurrNumUsedBlocks
}

// Overhead returns the bytes currently spent on block metadata.
func (s Stats) Overhead() uint64 {
	return s.HeaderOverhead * uint64(s.NumBlocks())
}

// Accounted returns free + used + overhead bytes. It equals Capacity on a
// consistent, initialized arena.
func (s Stats) Accounted() uint64 {
	return s.CurrFreeMem + s.CurrUsedMem + s.Overhead()
}

// Utilization returns the fraction of capacity handed out as payload.
func (s Stats) Utilization() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.CurrUsedMem) / float64(s.Capacity)
}

// ObservePeaks folds the current values into the running maxima.
func (s *Stats) ObservePeaks() {
	s.PeakFreeMem = max(s.PeakFreeMem, s.CurrFreeMem)
	s.PeakUsedMem = max(s.PeakUsedMem, s.CurrUsedMem)
	s.PeakNumFree = max(s.PeakNumFree, s.CurrNumFreeBlocks)
	s.PeakNumUsed = max(s.PeakNumUsed, s.CurrNumUsedBlocks)
}

// Reset clears usage counters and peaks, keeping the arena extent.
func (s *Stats) Reset() {
	*s = Stats{
		HeapStart:      s.HeapStart,
		HeapEnd:        s.HeapEnd,
		Capacity:       s.Capacity,
		HeaderOverhead: s.HeaderOverhead,
	}
}
