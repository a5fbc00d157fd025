package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/format"
)

// newTestAllocator creates and initializes an allocator over a heap-backed
// arena of size bytes.
func newTestAllocator(t testing.TB, size int) *Allocator {
	t.Helper()
	a, err := arena.New(size)
	require.NoError(t, err)
	al := New(a, nil)
	al.Initialize()
	return al
}

// requireValid runs every heap validator against al.
func requireValid(t testing.TB, al *Allocator) {
	t.Helper()
	require.NoError(t, verify.AllInvariants(al))
}

// mustMalloc allocates size bytes or fails the test.
func mustMalloc(t testing.TB, al *Allocator, size int) Ptr {
	t.Helper()
	p, err := al.Malloc(size)
	require.NoError(t, err, "Malloc(%d)", size)
	require.NotEqual(t, Nil, p)
	return p
}

// headerOf returns the header offset of the block behind p.
func headerOf(p Ptr) uint32 {
	return uint32(p) - format.HeaderSize
}

// freeOffsets returns the free list as header offsets.
func freeOffsets(al *Allocator) []uint32 {
	var out []uint32
	for _, b := range al.FreeBlocks() {
		out = append(out, b.Offset)
	}
	return out
}
