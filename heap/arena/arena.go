package arena

import (
	"errors"
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/mmfile"
)

var (
	// ErrTooSmall indicates the region cannot hold even a single empty block.
	ErrTooSmall = errors.New("arena: region smaller than one block overhead")

	// ErrTooLarge indicates the region exceeds the uint32 offset space.
	ErrTooLarge = errors.New("arena: region exceeds maximum arena size")

	// ErrReleased indicates the arena's memory was already given back.
	ErrReleased = errors.New("arena: released")
)

// DefaultSize matches the classic 50 KiB teaching heap.
const DefaultSize = 50 * 1024

// Arena is a fixed-extent byte region plus the statistics record describing
// how the allocator currently uses it. The extent never changes once the
// arena is created.
type Arena struct {
	buf     []byte
	release func() error
	mapped  bool
	stats   Stats
}

// New creates an arena backed by an ordinary Go byte slice.
func New(size int) (*Arena, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	return FromBytes(make([]byte, size))
}

// NewMapped creates an arena backed by anonymous memory mapped outside the
// Go heap. Call Release when done with it.
func NewMapped(size int) (*Arena, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	data, cleanup, err := mmfile.MapAnon(size)
	if err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}
	a, err := FromBytes(data)
	if err != nil {
		_ = cleanup()
		return nil, err
	}
	a.release = cleanup
	a.mapped = true
	return a, nil
}

// FromBytes wraps a caller-supplied buffer. Trailing bytes beyond the last
// 8-byte boundary are not used. The caller must not touch b afterwards.
func FromBytes(b []byte) (*Arena, error) {
	if err := checkSize(len(b)); err != nil {
		return nil, err
	}
	capacity := format.AlignDown8(len(b))
	a := &Arena{buf: b[:capacity:capacity]}
	a.stats.HeapStart = 0
	a.stats.HeapEnd = uint32(capacity)
	a.stats.Capacity = uint64(capacity)
	a.stats.HeaderOverhead = format.HeaderOverhead
	return a, nil
}

func checkSize(size int) error {
	if format.AlignDown8(size) < format.HeaderOverhead {
		return fmt.Errorf("%w: %d bytes", ErrTooSmall, size)
	}
	if uint64(size) > format.MaxArenaSize {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	return nil
}

// Bytes returns the usable region. The slice aliases arena memory.
func (a *Arena) Bytes() []byte { return a.buf }

// Start returns the offset of the first usable byte.
func (a *Arena) Start() uint32 { return 0 }

// End returns the offset one past the last usable byte.
func (a *Arena) End() uint32 { return uint32(len(a.buf)) }

// Capacity returns the number of usable bytes.
func (a *Arena) Capacity() int { return len(a.buf) }

// Released reports whether Release has run.
func (a *Arena) Released() bool { return a.buf == nil }

// Mapped reports whether the arena lives in an anonymous mapping.
func (a *Arena) Mapped() bool { return a.mapped }

// Stats returns the arena's live statistics record. The allocator owns all
// writes to it; everyone else should treat it as read-only.
func (a *Arena) Stats() *Stats { return &a.stats }

// Release gives mapped memory back to the OS. The arena must not be used
// afterwards. Releasing a heap-backed arena only drops the reference.
func (a *Arena) Release() error {
	if a.buf == nil {
		return ErrReleased
	}
	a.buf = nil
	if a.release != nil {
		return a.release()
	}
	return nil
}
