package format

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// AlignDown8 returns n truncated to the previous 8-byte boundary.
func AlignDown8(n int) int {
	return n & ^AlignmentMask
}

// Align8U32 returns n aligned up to the next 8-byte boundary.
// uint32 version for allocator code working on arena offsets.
func Align8U32(n uint32) uint32 {
	return (n + AlignmentMask) & ^uint32(AlignmentMask)
}
