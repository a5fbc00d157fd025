package arena

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

func TestNew_Extent(t *testing.T) {
	a, err := New(DefaultSize)
	require.NoError(t, err)

	require.Equal(t, uint32(0), a.Start())
	require.Equal(t, uint32(DefaultSize), a.End())
	require.Equal(t, DefaultSize, a.Capacity())
	require.Len(t, a.Bytes(), DefaultSize)
	require.False(t, a.Mapped())

	st := a.Stats()
	require.Equal(t, uint64(DefaultSize), st.Capacity)
	require.Equal(t, uint32(DefaultSize), st.HeapEnd)
	require.Equal(t, uint64(format.HeaderOverhead), st.HeaderOverhead)
}

func TestFromBytes_TruncatesToAlignment(t *testing.T) {
	a, err := FromBytes(make([]byte, 1027))
	require.NoError(t, err)
	require.Equal(t, 1024, a.Capacity())
	require.Equal(t, 1024, cap(a.Bytes()), "capacity must not extend past the usable extent")
}

func TestNew_TooSmall(t *testing.T) {
	tests := []int{0, 1, format.HeaderOverhead - 1, format.HeaderOverhead + 7 - 8}
	for _, size := range tests {
		_, err := New(size)
		require.ErrorIs(t, err, ErrTooSmall, "size %d", size)
	}

	a, err := New(format.HeaderOverhead)
	require.NoError(t, err, "one empty block must fit")
	require.Equal(t, format.HeaderOverhead, a.Capacity())
}

func TestFromBytes_TooLarge(t *testing.T) {
	require.ErrorIs(t, checkSize(format.MaxArenaSize+8), ErrTooLarge)
	require.NoError(t, checkSize(format.MaxArenaSize))
}

func TestNewMapped(t *testing.T) {
	a, err := NewMapped(1 << 20)
	require.NoError(t, err)
	require.Equal(t, 1<<20, a.Capacity())

	b := a.Bytes()
	b[0], b[len(b)-1] = 0xAA, 0xBB
	require.Equal(t, byte(0xAA), a.Bytes()[0])

	require.False(t, a.Released())
	require.NoError(t, a.Release())
	require.True(t, a.Released())
	require.ErrorIs(t, a.Release(), ErrReleased)
	require.Nil(t, a.Bytes())
}

func TestStats_Accounting(t *testing.T) {
	s := Stats{
		Capacity:          1024,
		HeaderOverhead:    format.HeaderOverhead,
		CurrFreeMem:       600,
		CurrUsedMem:       1024 - 600 - 3*format.HeaderOverhead,
		CurrNumFreeBlocks: 1,
		CurrNumUsedBlocks: 2,
	}
	require.Equal(t, uint32(3), s.NumBlocks())
	require.Equal(t, uint64(3*format.HeaderOverhead), s.Overhead())
	require.Equal(t, s.Capacity, s.Accounted())
	require.InDelta(t, float64(s.CurrUsedMem)/1024, s.Utilization(), 1e-9)
	require.Zero(t, Stats{}.Utilization())
}

func TestStats_PeaksAndReset(t *testing.T) {
	s := Stats{HeapEnd: 512, Capacity: 512, HeaderOverhead: format.HeaderOverhead}

	s.CurrUsedMem, s.CurrNumUsedBlocks = 100, 3
	s.ObservePeaks()
	s.CurrUsedMem, s.CurrNumUsedBlocks = 40, 1
	s.ObservePeaks()

	require.Equal(t, uint64(100), s.PeakUsedMem)
	require.Equal(t, uint32(3), s.PeakNumUsed)

	s.Reset()
	require.Zero(t, s.PeakUsedMem)
	require.Zero(t, s.CurrUsedMem)
	require.Equal(t, uint64(512), s.Capacity)
	require.Equal(t, uint32(512), s.HeapEnd)
}
