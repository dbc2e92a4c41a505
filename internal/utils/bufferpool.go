// Package utils provides helpers shared by the converter packages.
package utils

import "sync"

// DefaultBufferSize is the capacity of freshly pooled buffers.
const DefaultBufferSize = 64 * 1024

var bufferPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 0, DefaultBufferSize)
	},
}

// GetBuffer returns a byte slice of length size from the pool.
func GetBuffer(size int) []byte {
	buf := bufferPool.Get().([]byte)
	if cap(buf) < size {
		bufferPool.Put(buf[:0]) //nolint:staticcheck // SA6002: slice header copy is fine for sync.Pool
		return make([]byte, size)
	}
	return buf[:size]
}

// ReleaseBuffer returns a buffer to the pool.
func ReleaseBuffer(buf []byte) {
	if buf == nil {
		return
	}
	//nolint:staticcheck // SA6002: slice descriptor copy is acceptable for sync.Pool
	bufferPool.Put(buf[:0])
}
