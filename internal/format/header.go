package format

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
)

// Kind discriminates a free block from a used one.
type Kind uint8

const (
	KindFree Kind = 0x01
	KindUsed Kind = 0x02
)

func (k Kind) String() string {
	switch k {
	case KindFree:
		return "free"
	case KindUsed:
		return "used"
	default:
		return fmt.Sprintf("kind(0x%02x)", uint8(k))
	}
}

// Header is the decoded form of a block header.
type Header struct {
	Kind      Kind
	AboveFree bool
	Size      uint32 // payload bytes
	Next      uint32
	Prev      uint32
}

// Footprint returns the number of arena bytes the block occupies.
func (h Header) Footprint() uint32 {
	return h.Size + HeaderOverhead
}

// DecodeHeader decodes the header stored at off. Unlike the allocator's hot
// path it validates bounds and the kind byte, so it is safe to use on
// arenas that may be corrupted.
func DecodeHeader(b []byte, off int) (Header, error) {
	raw, ok := buf.Slice(b, off, HeaderSize)
	if !ok {
		return Header{}, fmt.Errorf("header at 0x%X: %w", off, ErrTruncated)
	}
	h := Header{
		Kind:      Kind(raw[KindOffset]),
		AboveFree: raw[AboveFreeOffset] != 0,
		Size:      ReadU32(raw, SizeOffset),
		Next:      ReadU32(raw, NextOffset),
		Prev:      ReadU32(raw, PrevOffset),
	}
	if h.Kind != KindFree && h.Kind != KindUsed {
		return h, fmt.Errorf("header at 0x%X: %w", off, ErrBadKind)
	}
	return h, nil
}

// EncodeHeader writes h at off. The caller must ensure the header fits.
func EncodeHeader(b []byte, off int, h Header) {
	b[off+KindOffset] = byte(h.Kind)
	if h.AboveFree {
		b[off+AboveFreeOffset] = 1
	} else {
		b[off+AboveFreeOffset] = 0
	}
	PutU16(b, off+2, 0)
	PutU32(b, off+SizeOffset, h.Size)
	PutU32(b, off+NextOffset, h.Next)
	PutU32(b, off+PrevOffset, h.Prev)
}

// TagOffset returns where the boundary tag of a block at off with the given
// payload size lives.
func TagOffset(off int, size uint32) int {
	return off + HeaderSize + int(size)
}

// PutTag stamps the boundary tag of the block at off.
func PutTag(b []byte, off int, size uint32) {
	t := TagOffset(off, size)
	PutU32(b, t, uint32(off))
	PutU32(b, t+4, 0)
}

// ReadTag returns the header offset recorded in the tag that ends right
// before end, i.e. the tag of the block physically preceding end.
func ReadTag(b []byte, end int) (uint32, error) {
	raw, ok := buf.Slice(b, end-TagSize, TagSize)
	if !ok {
		return InvalidOffset, fmt.Errorf("tag before 0x%X: %w", end, ErrTruncated)
	}
	return ReadU32(raw, 0), nil
}
