package seed

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/yyyoichi/kmeans2d/internal/points"
)

var (
	ErrInvalidK      = errors.New("k must satisfy 1 <= k <= n")
	ErrSeedCount     = errors.New("seed index count does not match k")
	ErrSeedRange     = errors.New("seed index out of range")
	ErrSeedDuplicate = errors.New("duplicate seed index")
)

// Indices returns k distinct point indices in [0, n).
//
// When external is non-nil it is validated and returned as a copy.
// Otherwise the indices are drawn uniformly without replacement with a
// partial Fisher-Yates shuffle of the implicit permutation [0, n). Only the
// displaced positions of the permutation are stored.
func Indices(n, k int, external []int, rd *rand.Rand) ([]int, error) {
	if err := CheckK(n, k); err != nil {
		return nil, err
	}
	if external != nil {
		if err := validate(n, k, external); err != nil {
			return nil, err
		}
		return append([]int(nil), external...), nil
	}

	out := make([]int, k)
	displaced := make(map[int]int, k)
	at := func(i int) int {
		if v, ok := displaced[i]; ok {
			return v
		}
		return i
	}
	for i := range k {
		j := i + rd.Intn(n-i)
		out[i] = at(j)
		displaced[j] = at(i)
	}
	return out, nil
}

func CheckK(n, k int) error {
	if k <= 0 || k > n {
		return fmt.Errorf("%w: k=%d n=%d", ErrInvalidK, k, n)
	}
	return nil
}

func validate(n, k int, idx []int) error {
	if len(idx) != k {
		return fmt.Errorf("%w: got %d, k=%d", ErrSeedCount, len(idx), k)
	}
	seen := roaring.New()
	for _, i := range idx {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: %d not in [0, %d)", ErrSeedRange, i, n)
		}
		if !seen.CheckedAdd(uint32(i)) {
			return fmt.Errorf("%w: %d", ErrSeedDuplicate, i)
		}
	}
	return nil
}

// Centroids copies the points at idx into a new centroid slice.
func Centroids(store *points.Store, idx []int) []points.Point {
	centroids := make([]points.Point, len(idx))
	for c, i := range idx {
		centroids[c] = store.At(i)
	}
	return centroids
}
