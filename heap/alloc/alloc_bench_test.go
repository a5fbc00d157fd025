package alloc

import (
	"math/rand"
	"testing"

	"github.com/joshuapare/heapkit/heap/arena"
)

func newBenchAllocator(b *testing.B, size int) *Allocator {
	b.Helper()
	a, err := arena.New(size)
	if err != nil {
		b.Fatal(err)
	}
	al := New(a, nil)
	al.Initialize()
	return al
}

// Benchmark_MallocFree_Pair benchmarks a single allocation freed right away,
// which always splits and then coalesces back.
func Benchmark_MallocFree_Pair(b *testing.B) {
	al := newBenchAllocator(b, arena.DefaultSize)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		p, err := al.Malloc(128)
		if err != nil {
			b.Fatal(err)
		}
		al.Free(p)
	}
}

// Benchmark_Fragmented benchmarks random churn over a fragmented heap.
func Benchmark_Fragmented(b *testing.B) {
	al := newBenchAllocator(b, 1<<20)
	rng := rand.New(rand.NewSource(42))

	live := make([]Ptr, 0, 4096)
	for range 2048 {
		p, err := al.Malloc(16 + rng.Intn(240))
		if err != nil {
			break
		}
		live = append(live, p)
	}
	for i := 0; i < len(live); i += 2 {
		al.Free(live[i])
		live[i] = Nil
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := range b.N {
		idx := i % len(live)
		if live[idx] != Nil {
			al.Free(live[idx])
			live[idx] = Nil
			continue
		}
		if p, err := al.Malloc(16 + rng.Intn(240)); err == nil {
			live[idx] = p
		}
	}
}
