package kmeans

import "slices"

// SeedProvider supplies the point indices used as initial centroids.
//
// SeedIndices returns either nil, meaning "draw the seeds at random", or
// exactly k distinct indices in [0, n). Anything else fails the run with
// ErrConfig.
type SeedProvider interface {
	SeedIndices(n, k int) ([]int, error)
}

// SeedProviderFunc adapts a function to SeedProvider.
type SeedProviderFunc func(n, k int) ([]int, error)

func (f SeedProviderFunc) SeedIndices(n, k int) ([]int, error) { return f(n, k) }

// FixedSeeds always returns the same indices.
type FixedSeeds []int

func (s FixedSeeds) SeedIndices(int, int) ([]int, error) {
	if s == nil {
		return nil, nil
	}
	return slices.Clone(s), nil
}
