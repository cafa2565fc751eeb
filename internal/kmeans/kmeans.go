package kmeans

import (
	"math"

	"github.com/yyyoichi/kmeans2d/internal/points"
)

const (
	DefaultMaxRounds = 300
	// unassigned differs from every cluster id, so the first pass reports
	// every point as changed.
	unassigned = -1
)

type State int

const (
	Seeding State = iota
	Iterating
	Converged
	Capped
	Failed
)

func (s State) String() string {
	switch s {
	case Seeding:
		return "seeding"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case Capped:
		return "capped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Assign moves every point to its nearest centroid and returns how many
// points changed cluster.
//
// Distances are squared Euclidean. On a tie the lowest centroid index wins.
func Assign(store *points.Store, centroids []points.Point, assignment []int) int {
	var changed int
	for i := range store.Len() {
		p := store.At(i)
		best, bestDist := 0, math.Inf(1)
		for c, centroid := range centroids {
			if d := points.SqDist(p, centroid); d < bestDist {
				best, bestDist = c, d
			}
		}
		if assignment[i] != best {
			assignment[i] = best
			changed++
		}
	}
	return changed
}

// Update recomputes every centroid as the mean of its assigned points.
// A centroid without points keeps its position.
func (w *Workspace) Update(store *points.Store, assignment []int, centroids []points.Point) {
	w.Resize(len(centroids))
	for i, c := range assignment {
		w.stats[c].Add(store.At(i))
	}
	for c := range centroids {
		if w.stats[c].Count > 0 {
			centroids[c] = w.stats[c].Mean()
		}
	}
}

// Inertia is the sum of squared distances from each point to its centroid.
func Inertia(store *points.Store, centroids []points.Point, assignment []int) float64 {
	var sum float64
	for i, c := range assignment {
		sum += points.SqDist(store.At(i), centroids[c])
	}
	return sum
}

// Controller runs Lloyd's iteration over one point set. It owns the centroid
// and assignment slices of the run; callers must copy them before starting
// another run with the same Controller.
type Controller struct {
	// MaxRounds caps the number of assign/update rounds. Zero means
	// DefaultMaxRounds.
	MaxRounds int
	// Workspace is reused when set, and allocated on first use otherwise.
	Workspace *Workspace
	// Observe, if set, is called after every round.
	Observe func(round, changed int)

	state      State
	rounds     int
	changes    []int
	centroids  []points.Point
	assignment []int
}

// Run seeds the centroids and iterates until no point changes cluster or
// MaxRounds is reached. A seeding error leaves the controller Failed and is
// returned as is.
func (c *Controller) Run(store *points.Store, seeder func() ([]points.Point, error)) error {
	c.state, c.rounds, c.changes = Seeding, 0, nil
	c.centroids, c.assignment = nil, nil

	centroids, err := seeder()
	if err != nil {
		c.state = Failed
		return err
	}
	if c.Workspace == nil {
		c.Workspace = NewWorkspace(len(centroids))
	}
	maxRounds := c.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	c.centroids = centroids
	c.assignment = make([]int, store.Len())
	for i := range c.assignment {
		c.assignment[i] = unassigned
	}

	c.state = Iterating
	for c.state == Iterating {
		changed := Assign(store, c.centroids, c.assignment)
		c.Workspace.Update(store, c.assignment, c.centroids)
		c.rounds++
		c.changes = append(c.changes, changed)
		if c.Observe != nil {
			c.Observe(c.rounds, changed)
		}
		switch {
		case changed == 0:
			c.state = Converged
		case c.rounds >= maxRounds:
			c.state = Capped
		}
	}
	return nil
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Rounds() int { return c.rounds }

// Changes returns the number of changed assignments of every round.
func (c *Controller) Changes() []int { return c.changes }

func (c *Controller) Centroids() []points.Point { return c.centroids }

func (c *Controller) Assignment() []int { return c.assignment }
