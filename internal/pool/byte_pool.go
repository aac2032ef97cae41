package pool

import "sync"

// scratchMaxRetained caps the capacity of slices returned to the pool so a
// single 64MiB block does not pin memory forever.
const scratchMaxRetained = 64 * 1024 * 1024

var byteSlicePool = sync.Pool{
	New: func() any { return &[]byte{} },
}

// GetByteSlice retrieves a byte slice of exactly size bytes from the pool.
//
// The contents are unspecified; callers must overwrite every byte they read.
// The returned cleanup function must be called (typically with defer) once
// the slice is no longer referenced.
//
// Example:
//
//	scratch, release := pool.GetByteSlice(blockSize)
//	defer release()
func GetByteSlice(size int) ([]byte, func()) {
	ptr, _ := byteSlicePool.Get().(*[]byte)
	slice := *ptr

	if cap(slice) < size {
		slice = make([]byte, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() {
		if cap(*ptr) > scratchMaxRetained {
			return
		}
		byteSlicePool.Put(ptr)
	}
}
