// Package format describes the in-arena byte layout of heap blocks. Every
// block, free or used, starts with the same fixed header so a block can
// change state by re-stamping the header in place. Free blocks additionally
// carry a boundary tag in the last bytes of their footprint.
package format

// Block header layout (little-endian):
//
//	Offset  Size  Description
//	0x00    1     Kind (KindFree or KindUsed)
//	0x01    1     AboveFree flag: 1 when the physically preceding block is free
//	0x02    2     Padding
//	0x04    4     Payload size in bytes (header and tag excluded)
//	0x08    4     Next link (free list or used list, depending on kind)
//	0x0C    4     Prev link
//
// Boundary tag layout (last TagSize bytes of the block footprint):
//
//	Offset  Size  Description
//	0x00    4     Offset of the block's own header
//	0x04    4     Padding
const (
	KindOffset      = 0x00
	AboveFreeOffset = 0x01
	SizeOffset      = 0x04
	NextOffset      = 0x08
	PrevOffset      = 0x0C

	// HeaderSize is the size of the block header preceding every payload.
	HeaderSize = 0x10

	// TagSize is the footprint reserved at the tail of every block for the
	// boundary tag. Used blocks leave it unwritten.
	TagSize = 0x08

	// HeaderOverhead is the number of bytes of a block that are never
	// available as payload.
	HeaderOverhead = HeaderSize + TagSize

	// Alignment is the natural alignment of a block header. Payload sizes are
	// rounded up to it so that every header starts aligned.
	Alignment     = 8
	AlignmentMask = Alignment - 1

	// InvalidOffset marks an absent link and doubles as the null pointer.
	InvalidOffset = 0xFFFFFFFF

	// MaxArenaSize is the largest arena whose offsets (including the
	// sentinel) fit in a uint32.
	MaxArenaSize = 0xFFFFFFF8
)
