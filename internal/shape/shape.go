// Package shape implements row-major extent arithmetic and rectangular
// block copies over flat element slices.
package shape

import (
	"fmt"

	"github.com/mammefen/bp2h5/internal/utils"
)

// Count returns the number of elements described by dims. A scalar (no
// dims) has one element.
func Count(dims []uint64) (uint64, error) {
	return utils.ElementCount(dims)
}

// Linear returns the row-major linear index of coords within dims.
// The last dimension varies fastest.
func Linear(coords, dims []uint64) uint64 {
	offset := uint64(0)
	stride := uint64(1)

	for i := len(coords) - 1; i >= 0; i-- {
		offset += coords[i] * stride
		stride *= dims[i]
	}

	return offset
}

// Equal reports whether a and b describe the same extents.
func Equal(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Max returns the element-wise maximum of two extent vectors of equal rank.
func Max(a, b []uint64) []uint64 {
	out := make([]uint64, len(a))
	for i := range a {
		out[i] = a[i]
		if b[i] > out[i] {
			out[i] = b[i]
		}
	}
	return out
}

// Min returns the element-wise minimum of two extent vectors of equal rank.
func Min(a, b []uint64) []uint64 {
	out := make([]uint64, len(a))
	for i := range a {
		out[i] = a[i]
		if b[i] < out[i] {
			out[i] = b[i]
		}
	}
	return out
}

// Region describes count elements starting at off inside an array of
// extents dims.
type Region struct {
	Dims []uint64
	Off  []uint64
}

// Copy copies a count-shaped rectangle from src (laid out as srcReg.Dims,
// starting at srcReg.Off) into dst (laid out as dstReg.Dims, starting at
// dstReg.Off). Both slices are flat and row-major.
func Copy[T any](dst []T, dstReg Region, src []T, srcReg Region, count []uint64) error {
	rank := len(count)
	if len(dstReg.Dims) != rank || len(dstReg.Off) != rank ||
		len(srcReg.Dims) != rank || len(srcReg.Off) != rank {
		return fmt.Errorf("rank mismatch: count %d, dst %d/%d, src %d/%d",
			rank, len(dstReg.Dims), len(dstReg.Off), len(srcReg.Dims), len(srcReg.Off))
	}
	for i := 0; i < rank; i++ {
		if dstReg.Off[i]+count[i] > dstReg.Dims[i] {
			return fmt.Errorf("dimension %d: block [%d, %d) exceeds destination extent %d",
				i, dstReg.Off[i], dstReg.Off[i]+count[i], dstReg.Dims[i])
		}
		if srcReg.Off[i]+count[i] > srcReg.Dims[i] {
			return fmt.Errorf("dimension %d: block [%d, %d) exceeds source extent %d",
				i, srcReg.Off[i], srcReg.Off[i]+count[i], srcReg.Dims[i])
		}
	}

	n, err := Count(count)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if rank == 0 {
		dst[0] = src[0]
		return nil
	}

	run := count[rank-1]
	idx := make([]uint64, rank)
	dc := make([]uint64, rank)
	sc := make([]uint64, rank)

	for done := uint64(0); done < n; done += run {
		for i := 0; i < rank; i++ {
			dc[i] = dstReg.Off[i] + idx[i]
			sc[i] = srcReg.Off[i] + idx[i]
		}
		d := Linear(dc, dstReg.Dims)
		s := Linear(sc, srcReg.Dims)
		copy(dst[d:d+run], src[s:s+run])

		// Advance the odometer over all but the last dimension.
		for i := rank - 2; i >= 0; i-- {
			idx[i]++
			if idx[i] < count[i] {
				break
			}
			idx[i] = 0
		}
	}
	return nil
}

// Resize returns a slice laid out as newDims holding the elements of src
// (laid out as oldDims) that fall inside both shapes. Elements outside the
// old shape are zero.
func Resize[T any](src []T, oldDims, newDims []uint64) ([]T, error) {
	if len(oldDims) != len(newDims) {
		return nil, fmt.Errorf("cannot resize rank %d to rank %d", len(oldDims), len(newDims))
	}
	n, err := Count(newDims)
	if err != nil {
		return nil, err
	}
	dst := make([]T, n)
	zero := make([]uint64, len(newDims))
	err = Copy(dst, Region{Dims: newDims, Off: zero}, src, Region{Dims: oldDims, Off: zero}, Min(oldDims, newDims))
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// Zeros returns a rank-sized zero offset vector.
func Zeros(rank int) []uint64 {
	return make([]uint64, rank)
}
