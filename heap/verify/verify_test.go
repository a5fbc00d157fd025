package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/internal/format"
)

// newFragmentedHeap returns an allocator holding used and free blocks in
// alternation: used a, free b, used c, free remainder.
func newFragmentedHeap(t *testing.T) (*alloc.Allocator, []alloc.Ptr) {
	t.Helper()
	a, err := arena.New(1024)
	require.NoError(t, err)
	al := alloc.New(a, nil)
	al.Initialize()

	var ptrs []alloc.Ptr
	for range 3 {
		p, err := al.Malloc(64)
		require.NoError(t, err)
		ptrs = append(ptrs, p)
	}
	al.Free(ptrs[1])
	return al, ptrs
}

func hdr(p alloc.Ptr) int { return int(p) - format.HeaderSize }

// requireViolation asserts err is a *ValidationError of the given type.
func requireViolation(t *testing.T, err error, typ string) *ValidationError {
	t.Helper()
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %T", err)
	require.Equal(t, typ, ve.Type, "unexpected violation: %v", err)
	return ve
}

// tamperedHeap overrides parts of an allocator's view.
type tamperedHeap struct {
	*alloc.Allocator
	cursor *uint32
	stats  *arena.Stats
}

func (h tamperedHeap) Cursor() uint32 {
	if h.cursor != nil {
		return *h.cursor
	}
	return h.Allocator.Cursor()
}

func (h tamperedHeap) Stats() arena.Stats {
	if h.stats != nil {
		return *h.stats
	}
	return h.Allocator.Stats()
}

// TestAllInvariants_Valid tests that a healthy heap passes every check.
func TestAllInvariants_Valid(t *testing.T) {
	al, _ := newFragmentedHeap(t)
	require.NoError(t, AllInvariants(al), "Healthy heap should pass validation")
}

// TestPartition_Overrun tests detection of a size running past the arena.
func TestPartition_Overrun(t *testing.T) {
	al, ptrs := newFragmentedHeap(t)
	format.PutU32(al.Arena().Bytes(), hdr(ptrs[2])+format.SizeOffset, 2048)

	ve := requireViolation(t, AllInvariants(al), "Partition")
	require.Equal(t, hdr(ptrs[2]), ve.Offset)
	require.Contains(t, ve.Error(), "overruns arena")
}

// TestPartition_Unaligned tests detection of a misaligned block size.
func TestPartition_Unaligned(t *testing.T) {
	al, ptrs := newFragmentedHeap(t)
	format.PutU32(al.Arena().Bytes(), hdr(ptrs[0])+format.SizeOffset, 60)

	requireViolation(t, AllInvariants(al), "Partition")
}

// TestPartition_BadKind tests detection of a corrupted kind byte.
func TestPartition_BadKind(t *testing.T) {
	al, ptrs := newFragmentedHeap(t)
	al.Arena().Bytes()[hdr(ptrs[2])] = 0xEE

	ve := requireViolation(t, AllInvariants(al), "Partition")
	require.Contains(t, ve.Message, "unknown block kind")
}

// TestBoundaryTag_Wrong tests detection of a stale boundary tag.
func TestBoundaryTag_Wrong(t *testing.T) {
	al, ptrs := newFragmentedHeap(t)
	b := al.BlockOf(ptrs[1])
	format.PutU32(al.Arena().Bytes(), format.TagOffset(int(b.Offset), b.Size), 0x10)

	ve := requireViolation(t, AllInvariants(al), "BoundaryTag")
	require.Equal(t, int(b.Offset), ve.Offset)
}

// TestAboveFree_Mismatch tests detection of a wrong aboveFree flag.
func TestAboveFree_Mismatch(t *testing.T) {
	al, ptrs := newFragmentedHeap(t)
	al.Arena().Bytes()[hdr(ptrs[2])+format.AboveFreeOffset] = 0

	ve := requireViolation(t, AllInvariants(al), "AboveFree")
	require.Equal(t, hdr(ptrs[2]), ve.Offset)
}

// TestCoalesced_AdjacentFree tests detection of two neighbouring free blocks.
func TestCoalesced_AdjacentFree(t *testing.T) {
	al, ptrs := newFragmentedHeap(t)
	data := al.Arena().Bytes()
	data[hdr(ptrs[2])+format.KindOffset] = byte(format.KindFree)

	requireViolation(t, AllInvariants(al), "Coalesced")
}

// TestFreeList_Unlinked tests detection of a free block missing from the list.
func TestFreeList_Unlinked(t *testing.T) {
	a, err := arena.New(1024)
	require.NoError(t, err)
	al := alloc.New(a, nil)
	al.Initialize()
	p, err := al.Malloc(64)
	require.NoError(t, err)
	q, err := al.Malloc(64)
	require.NoError(t, err)

	// Turn p into a free block by hand without linking it.
	data := a.Bytes()
	data[hdr(p)+format.KindOffset] = byte(format.KindFree)
	format.PutTag(data, hdr(p), 64)
	data[hdr(q)+format.AboveFreeOffset] = 1

	blocks, err := Partition(data)
	require.NoError(t, err)
	requireViolation(t, FreeList(al.FreeHead(), blocks), "FreeList")
}

// TestFreeList_Cycle tests that a cyclic list is reported rather than
// walked forever.
func TestFreeList_Cycle(t *testing.T) {
	al, ptrs := newFragmentedHeap(t)
	data := al.Arena().Bytes()
	b := al.BlockOf(ptrs[1])
	rem := b.Next
	format.PutU32(data, int(rem)+format.NextOffset, b.Offset)

	blocks, err := Partition(data)
	require.NoError(t, err)
	requireViolation(t, FreeList(al.FreeHead(), blocks), "FreeList")
}

// TestFreeList_BrokenPrev tests detection of an inconsistent back link.
func TestFreeList_BrokenPrev(t *testing.T) {
	al, ptrs := newFragmentedHeap(t)
	data := al.Arena().Bytes()
	rem := al.BlockOf(ptrs[1]).Next
	format.PutU32(data, int(rem)+format.PrevOffset, format.InvalidOffset)

	ve := requireViolation(t, AllInvariants(al), "FreeList")
	require.Contains(t, ve.Message, "prev link")
}

// TestUsedList_Mismatch tests detection of a used block missing from the
// used list.
func TestUsedList_Mismatch(t *testing.T) {
	al, ptrs := newFragmentedHeap(t)
	data := al.Arena().Bytes()

	// ptrs[2] is the used-list head; skip it.
	format.PutU32(data, hdr(ptrs[0])+format.PrevOffset, format.InvalidOffset)
	blocks, err := Partition(data)
	require.NoError(t, err)
	requireViolation(t, UsedList(uint32(hdr(ptrs[0])), blocks), "UsedList")
}

// TestCursor tests cursor validation.
func TestCursor(t *testing.T) {
	al, ptrs := newFragmentedHeap(t)

	used := uint32(hdr(ptrs[0]))
	requireViolation(t, AllInvariants(tamperedHeap{Allocator: al, cursor: &used}), "Cursor")

	interior := uint32(hdr(ptrs[0]) + 8)
	requireViolation(t, AllInvariants(tamperedHeap{Allocator: al, cursor: &interior}), "Cursor")
}

// TestCursor_EmptyFreeList tests that the cursor must be absent with no
// free blocks.
func TestCursor_EmptyFreeList(t *testing.T) {
	a, err := arena.New(1024)
	require.NoError(t, err)
	al := alloc.New(a, nil)
	al.Initialize()
	_, err = al.Malloc(1000)
	require.NoError(t, err)
	require.NoError(t, AllInvariants(al))

	zero := uint32(0)
	requireViolation(t, AllInvariants(tamperedHeap{Allocator: al, cursor: &zero}), "Cursor")
}

// TestConservation tests detection of statistics drift.
func TestConservation(t *testing.T) {
	al, _ := newFragmentedHeap(t)

	s := al.Stats()
	s.CurrUsedMem += 8
	ve := requireViolation(t, AllInvariants(tamperedHeap{Allocator: al, stats: &s}), "Conservation")
	require.NotNil(t, ve.Details)

	s = al.Stats()
	s.Capacity -= 8
	requireViolation(t, AllInvariants(tamperedHeap{Allocator: al, stats: &s}), "Conservation")
}

// TestPeaks tests detection of a peak below its current value.
func TestPeaks(t *testing.T) {
	al, _ := newFragmentedHeap(t)

	s := al.Stats()
	s.PeakNumFree = s.CurrNumFreeBlocks - 1
	requireViolation(t, AllInvariants(tamperedHeap{Allocator: al, stats: &s}), "Peaks")

	require.NoError(t, Peaks(al.Stats()))
}

// TestValidationError_Format tests the error text with and without offsets.
func TestValidationError_Format(t *testing.T) {
	e := &ValidationError{Type: "Cursor", Message: "bad", Offset: 0x58}
	require.Equal(t, "Cursor at offset 0x58: bad", e.Error())

	e = &ValidationError{Type: "Peaks", Message: "bad", Offset: -1}
	require.Equal(t, "Peaks: bad", e.Error())
}
