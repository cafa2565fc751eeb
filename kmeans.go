package kmeans

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"github.com/yyyoichi/kmeans2d/internal/kmeans"
	"github.com/yyyoichi/kmeans2d/internal/seed"
	"github.com/yyyoichi/kmeans2d/storage"
)

var (
	// ErrInput reports a point source that cannot be opened or read.
	ErrInput = errors.New("input error")
	// ErrConfig reports an invalid k or invalid seed indices.
	ErrConfig = errors.New("config error")
	// ErrResource reports a result destination that cannot be written.
	ErrResource = errors.New("resource error")
)

// Seed index validation errors, reachable with errors.Is through ErrConfig.
var (
	ErrInvalidK      = seed.ErrInvalidK
	ErrSeedCount     = seed.ErrSeedCount
	ErrSeedRange     = seed.ErrSeedRange
	ErrSeedDuplicate = seed.ErrSeedDuplicate
)

// DefaultMaxRounds is the round cap used when WithMaxRounds is not given.
const DefaultMaxRounds = kmeans.DefaultMaxRounds

// Cluster partitions pts into k clusters with the specified options.
// This is a convenience function that creates a Clusterer and calls its
// Cluster method.
func Cluster(pts *Points, k int, opts ...Option) (*Result, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return c.Cluster(pts, k)
}

type Clusterer struct {
	maxRounds int
	rd        *rand.Rand
	seeds     SeedProvider
	workspace *kmeans.Workspace
	logger    *slog.Logger
}

// New initializes a Clusterer. For default values, refer to the init
// function.
func New(opts ...Option) (*Clusterer, error) {
	c := new(Clusterer)
	if err := c.init(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// Cluster runs Lloyd's algorithm on pts.
//
// Process:
//  1. Checks 1 <= k <= len(pts).
//  2. Picks k distinct points as initial centroids, either from the seed
//     provider or uniformly at random.
//  3. Repeats assignment and update rounds until no point changes cluster
//     or the round cap is reached.
//
// Reaching the round cap is not an error; Result.Report.State tells the two
// endings apart. Invalid k or seed indices fail with ErrConfig, nil pts with
// ErrInput.
func (c *Clusterer) Cluster(pts *Points, k int) (*Result, error) {
	if pts == nil {
		return nil, fmt.Errorf("%w: nil points", ErrInput)
	}
	log := c.logger.With("k", k, "n", pts.Len())

	ctrl := kmeans.Controller{
		MaxRounds: c.maxRounds,
		Workspace: c.workspace,
		Observe: func(round, changed int) {
			log.Debug("round completed", "round", round, "changed", changed)
		},
	}
	err := ctrl.Run(pts, func() ([]Point, error) {
		return c.seed(pts, k)
	})
	if err != nil {
		log.Error("seeding failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	res := &Result{
		Centroids:  slices.Clone(ctrl.Centroids()),
		Assignment: slices.Clone(ctrl.Assignment()),
		Report: Report{
			State:   ctrl.State(),
			Rounds:  ctrl.Rounds(),
			Changes: slices.Clone(ctrl.Changes()),
		},
		points: pts,
	}
	res.Report.Inertia = kmeans.Inertia(pts, res.Centroids, res.Assignment)
	log.Info("clustering finished",
		"state", res.Report.State,
		"rounds", res.Report.Rounds,
		"inertia", res.Report.Inertia,
	)
	return res, nil
}

func (c *Clusterer) seed(pts *Points, k int) ([]Point, error) {
	n := pts.Len()
	if err := seed.CheckK(n, k); err != nil {
		return nil, err
	}
	var external []int
	if c.seeds != nil {
		idx, err := c.seeds.SeedIndices(n, k)
		if err != nil {
			return nil, err
		}
		external = idx
	}
	idx, err := seed.Indices(n, k, external, c.rd)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("centroids seeded", "indices", idx, "external", external != nil)
	return seed.Centroids(pts, idx), nil
}

// ClusterURI loads the points stored at uri and clusters them.
func (c *Clusterer) ClusterURI(ctx context.Context, st *storage.Storage, uri string, k int) (*Result, error) {
	pts, err := OpenPoints(ctx, st, uri)
	if err != nil {
		c.logger.Error("loading points failed", "uri", uri, "error", err)
		return nil, err
	}
	c.logger.Debug("points loaded", "uri", uri, "n", pts.Len())
	return c.Cluster(pts, k)
}

func (c *Clusterer) init(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	if c.maxRounds == 0 {
		c.maxRounds = DefaultMaxRounds
	}
	if c.rd == nil {
		c.rd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return nil
}
