//go:build !unix

package mmfile

// MapAnon allocates a plain Go slice when anonymous mmap is not available.
func MapAnon(size int) ([]byte, func() error, error) {
	if size < 0 {
		size = 0
	}
	return make([]byte, size), func() error { return nil }, nil
}
