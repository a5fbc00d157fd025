// Package arena supplies the fixed-size memory region a heap allocator
// manages, together with the statistics record describing its use.
//
// An arena never grows. Its usable extent is the supplied length rounded
// down to the 8-byte block alignment, addressed by uint32 offsets from 0.
//
//	a, err := arena.New(arena.DefaultSize)
//	if err != nil {
//	    return err
//	}
//	al := alloc.New(a, nil)
//	al.Initialize()
//
// NewMapped reserves the region with an anonymous mmap so large arenas stay
// invisible to the garbage collector:
//
//	a, err := arena.NewMapped(64 << 20)
//	if err != nil {
//	    return err
//	}
//	defer a.Release()
package arena
