// Package mmfile provides platform-specific helpers for reserving arena memory.
//
// On unix systems arenas are backed by private anonymous mappings so the
// allocator's bytes live outside the Go heap and are never scanned by the
// garbage collector. Other platforms fall back to an ordinary byte slice.
package mmfile
