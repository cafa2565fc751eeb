package kmeans

import (
	"context"
	"fmt"
	"io"

	"github.com/yyyoichi/kmeans2d/internal/kmeans"
	"github.com/yyyoichi/kmeans2d/internal/points"
	"github.com/yyyoichi/kmeans2d/storage"
)

type (
	// Point is an (x, y) pair.
	Point = points.Point

	// Points is the immutable point sequence of one run.
	Points = points.Store

	// State is the state of a clustering run.
	State = kmeans.State

	// Workspace holds per-cluster scratch buffers that can be shared by
	// successive runs, see WithWorkspace.
	Workspace = kmeans.Workspace
)

const (
	Seeding   = kmeans.Seeding
	Iterating = kmeans.Iterating
	Converged = kmeans.Converged
	Capped    = kmeans.Capped
	Failed    = kmeans.Failed
)

// NewPoints copies pts into a Points sequence.
func NewPoints(pts []Point) *Points {
	return points.New(pts)
}

// NewWorkspace returns a Workspace sized for k clusters.
func NewWorkspace(k int) *Workspace {
	return kmeans.NewWorkspace(k)
}

// LoadPoints reads whitespace-separated "x y" lines from r. Reading stops at
// the first malformed line; the lines before it are kept.
func LoadPoints(r io.Reader) (*Points, error) {
	pts, err := points.Load(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	return pts, nil
}

// OpenPoints loads the points stored at uri.
func OpenPoints(ctx context.Context, st *storage.Storage, uri string) (pts *Points, err error) {
	rc, err := st.Open(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil && err == nil {
			pts, err = nil, fmt.Errorf("%w: %w", ErrInput, cerr)
		}
	}()
	return LoadPoints(rc)
}
