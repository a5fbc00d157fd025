package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Test_NextFit_ResumesAtCursor tests that the search starts at the cursor
// rather than at the list head.
func Test_NextFit_ResumesAtCursor(t *testing.T) {
	al := newTestAllocator(t, 1024)
	a := mustMalloc(t, al, blk64)
	mustMalloc(t, al, blk64)
	c := mustMalloc(t, al, blk64)
	mustMalloc(t, al, blk64)

	al.Free(a)
	al.Free(c)
	rem := uint32(4 * footprint)
	require.Equal(t, []uint32{0, 2 * footprint, rem}, freeOffsets(al))
	require.Equal(t, rem, al.Cursor(), "Free must not move a valid cursor")

	// First-fit would return a; next-fit carves the remainder.
	p := mustMalloc(t, al, blk64)
	require.Equal(t, rem, headerOf(p))
	requireValid(t, al)
}

// Test_NextFit_Wraps tests the wrap from the list tail back to the head and
// the cursor moving to the list successor after a whole-block allocation.
func Test_NextFit_Wraps(t *testing.T) {
	al := newTestAllocator(t, 1024)
	a := mustMalloc(t, al, blk64)
	mustMalloc(t, al, blk64)
	c := mustMalloc(t, al, blk64)
	mustMalloc(t, al, blk64)
	al.Free(a)
	al.Free(c)

	// Shrink the remainder (648 bytes at 352) to an empty block.
	mustMalloc(t, al, 624)
	tail := uint32(4*footprint + 624 + footprint - blk64)
	require.Equal(t, tail, al.Cursor())
	require.Equal(t, uint32(0), al.r.size(tail))

	steps := al.Counters().SearchSteps
	p := mustMalloc(t, al, blk64)
	require.Equal(t, a, p, "search wraps from the tail to the head")
	require.Equal(t, steps+2, al.Counters().SearchSteps)
	require.Equal(t, uint32(2*footprint), al.Cursor(), "cursor moves to the list successor")

	q := mustMalloc(t, al, blk64)
	require.Equal(t, c, q)
	require.Equal(t, tail, al.Cursor())
	requireValid(t, al)
}

// Test_NextFit_CursorFallsBackToHead tests the cursor after allocating the
// last list member whole.
func Test_NextFit_CursorFallsBackToHead(t *testing.T) {
	al := newTestAllocator(t, 1024)
	a := mustMalloc(t, al, blk64)
	mustMalloc(t, al, blk64)
	c := mustMalloc(t, al, 810) // absorbs the remaining 824 bytes
	require.Equal(t, uint32(824), al.BlockOf(c).Size)
	require.Equal(t, nilOff, al.Cursor())

	al.Free(c)
	al.Free(a)
	require.Equal(t, []uint32{0, 2 * footprint}, freeOffsets(al))
	require.Equal(t, uint32(2*footprint), al.Cursor())

	// The tail member is handed out whole; the cursor wraps to the head.
	mustMalloc(t, al, 820)
	require.Equal(t, uint32(0), al.Cursor())
	requireValid(t, al)
}

// Test_NextFit_FullCircleFailure tests that a search visits every free
// block exactly once before giving up.
func Test_NextFit_FullCircleFailure(t *testing.T) {
	al := newTestAllocator(t, 2048)
	var ptrs []Ptr
	for range 10 {
		ptrs = append(ptrs, mustMalloc(t, al, blk64))
	}
	for i := 0; i < len(ptrs); i += 2 {
		al.Free(ptrs[i])
	}
	numFree := int(al.Stats().CurrNumFreeBlocks)
	cursor := al.Cursor()

	steps := al.Counters().SearchSteps
	_, err := al.Malloc(int(al.LargestFree()) + 8)
	require.ErrorIs(t, err, ErrNoSpace)
	require.Equal(t, steps+numFree, al.Counters().SearchSteps)
	require.Equal(t, cursor, al.Cursor())
	require.Equal(t, 1, al.Counters().AllocFailures)
}

// Test_NextFit_SplitKeepsListPosition tests that a split remainder takes the
// split block's place between its list neighbours.
func Test_NextFit_SplitKeepsListPosition(t *testing.T) {
	al := newTestAllocator(t, 2048)
	a := mustMalloc(t, al, 256)
	mustMalloc(t, al, blk64)
	c := mustMalloc(t, al, 256)
	mustMalloc(t, al, blk64)
	al.Free(a)
	al.Free(c)

	// Take the tail block whole; the cursor wraps to a.
	tailOff := al.Cursor()
	mustMalloc(t, al, int(al.r.size(tailOff)))

	p := mustMalloc(t, al, blk64)
	require.Equal(t, a, p)

	remA := uint32(footprint)
	require.Equal(t, remA, al.Cursor())
	require.Equal(t, []uint32{remA, headerOf(c)}, freeOffsets(al))
	require.Equal(t, uint32(256-footprint), al.r.size(remA))
	requireValid(t, al)
}
