package kmeans

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
)

var ErrInvalidOption = errors.New("invalid option")

type Option func(*Clusterer) error

// WithMaxRounds caps the number of assignment/update rounds of a run.
// The default is DefaultMaxRounds. A run that hits the cap ends in the
// Capped state with its latest assignment.
func WithMaxRounds(n int) Option {
	return func(c *Clusterer) error {
		if n <= 0 {
			return fmt.Errorf("%w: max rounds must be positive, got %d", ErrInvalidOption, n)
		}
		c.maxRounds = n
		return nil
	}
}

// WithRand sets the random source used to draw initial centroids when no
// seed indices are given. The Clusterer takes ownership of rd.
func WithRand(rd *rand.Rand) Option {
	return func(c *Clusterer) error {
		if rd == nil {
			return fmt.Errorf("%w: nil random source", ErrInvalidOption)
		}
		c.rd = rd
		return nil
	}
}

// WithRandSeed makes random seeding reproducible.
// Without it the random source is seeded from the wall clock.
func WithRandSeed(seed int64) Option {
	return func(c *Clusterer) error {
		c.rd = rand.New(rand.NewSource(seed))
		return nil
	}
}

// WithSeedIndices uses the points at idx as initial centroids.
// idx must hold exactly k distinct indices in [0, n); this is checked when
// Cluster runs.
func WithSeedIndices(idx ...int) Option {
	return WithSeedProvider(FixedSeeds(idx))
}

// WithSeedProvider asks p for the initial centroid indices of every run.
func WithSeedProvider(p SeedProvider) Option {
	return func(c *Clusterer) error {
		c.seeds = p
		return nil
	}
}

// WithWorkspace reuses w for the per-cluster accumulators of every run.
// w is resized when k changes. A Clusterer holding a shared Workspace must
// not run concurrently with another user of w.
func WithWorkspace(w *Workspace) Option {
	return func(c *Clusterer) error {
		c.workspace = w
		return nil
	}
}

// WithLogger sets the logger. Rounds are logged at debug level and the end
// of a run at info level. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *Clusterer) error {
		c.logger = l
		return nil
	}
}
