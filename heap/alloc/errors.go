package alloc

import (
	"errors"

	"github.com/joshuapare/heapkit/heap/arena"
)

var (
	// ErrNoSpace indicates that no free block large enough was found. The
	// arena never grows, so the caller must free memory or give up.
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrBadSize indicates a request for zero or a negative number of bytes.
	ErrBadSize = errors.New("alloc: size must be positive")

	// ErrNotInitialized indicates Malloc was called before Initialize.
	ErrNotInitialized = errors.New("alloc: allocator not initialized")

	// ErrReleased indicates the arena behind the allocator was released.
	ErrReleased = arena.ErrReleased
)
