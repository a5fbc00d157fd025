package alloc

import "github.com/joshuapare/heapkit/internal/format"

// region is the arena viewed as a sequence of block headers. Every raw read
// and write of block metadata on the allocation path goes through it. These
// accessors do not bounds-check beyond what the slice does; callers hand in
// offsets they obtained from the lists or from block arithmetic.
type region []byte

func (r region) kind(off uint32) format.Kind {
	return format.Kind(r[off+format.KindOffset])
}

func (r region) setKind(off uint32, k format.Kind) {
	r[off+format.KindOffset] = byte(k)
}

func (r region) aboveFree(off uint32) bool {
	return r[off+format.AboveFreeOffset] != 0
}

func (r region) setAboveFree(off uint32, v bool) {
	if v {
		r[off+format.AboveFreeOffset] = 1
	} else {
		r[off+format.AboveFreeOffset] = 0
	}
}

func (r region) size(off uint32) uint32 {
	return format.ReadU32(r, int(off)+format.SizeOffset)
}

func (r region) setSize(off, size uint32) {
	format.PutU32(r, int(off)+format.SizeOffset, size)
}

func (r region) next(off uint32) uint32 {
	return format.ReadU32(r, int(off)+format.NextOffset)
}

func (r region) setNext(off, v uint32) {
	format.PutU32(r, int(off)+format.NextOffset, v)
}

func (r region) prev(off uint32) uint32 {
	return format.ReadU32(r, int(off)+format.PrevOffset)
}

func (r region) setPrev(off, v uint32) {
	format.PutU32(r, int(off)+format.PrevOffset, v)
}

// stamp writes a complete header with unlinked list fields. Only used where
// a header comes into existence: arena initialization and split remainders.
func (r region) stamp(off uint32, k format.Kind, size uint32) {
	format.EncodeHeader(r, int(off), format.Header{
		Kind: k,
		Size: size,
		Next: nilOff,
		Prev: nilOff,
	})
}

// end returns the header offset of the block physically following off.
func (r region) end(off uint32) uint32 {
	return off + format.HeaderOverhead + r.size(off)
}

// putTag stamps the boundary tag of the free block at off.
func (r region) putTag(off uint32) {
	format.PutTag(r, int(off), r.size(off))
}

// tagBefore reads the boundary tag ending at off, which names the header of
// the physically preceding block when that block is free.
func (r region) tagBefore(off uint32) uint32 {
	return format.ReadU32(r, int(off)-format.TagSize)
}

func (r region) block(off uint32) Block {
	return Block{
		Offset:    off,
		Kind:      r.kind(off),
		Size:      r.size(off),
		AboveFree: r.aboveFree(off),
		Next:      r.next(off),
		Prev:      r.prev(off),
	}
}
