package kmeans

import (
	"context"
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/yyyoichi/kmeans2d/internal/points"
	"github.com/yyyoichi/kmeans2d/labels"
	"github.com/yyyoichi/kmeans2d/output"
	"github.com/yyyoichi/kmeans2d/storage"
	"gonum.org/v1/gonum/stat"
)

// Report describes how a run ended.
type Report struct {
	State  State
	Rounds int
	// Changes holds the number of points that changed cluster in every
	// round. The first round counts every point.
	Changes []int
	// Inertia is the sum of squared distances of the points to their
	// centroids.
	Inertia float64
}

// Result is the outcome of a clustering run. It is owned by the caller.
type Result struct {
	Centroids  []Point
	Assignment []int
	Report     Report

	points *Points
}

func (r *Result) K() int { return len(r.Centroids) }

// Members returns the indices of the points assigned to cluster c.
func (r *Result) Members(c int) *roaring.Bitmap {
	bm := roaring.New()
	for i, a := range r.Assignment {
		if a == c {
			bm.Add(uint32(i))
		}
	}
	return bm
}

type ClusterSummary struct {
	ID       int
	Size     int
	Centroid Point
	// MeanSqDist is the mean squared distance of the members to the
	// centroid.
	MeanSqDist float64
	// StdDevX and StdDevY are population standard deviations.
	StdDevX, StdDevY float64
}

// Summary returns one entry per cluster. Empty clusters have Size 0 and zero
// statistics.
func (r *Result) Summary() []ClusterSummary {
	xs := make([][]float64, r.K())
	ys := make([][]float64, r.K())
	d2 := make([][]float64, r.K())
	for i, c := range r.Assignment {
		p := r.points.At(i)
		xs[c] = append(xs[c], p.X)
		ys[c] = append(ys[c], p.Y)
		d2[c] = append(d2[c], points.SqDist(p, r.Centroids[c]))
	}

	summary := make([]ClusterSummary, r.K())
	for c := range summary {
		s := ClusterSummary{ID: c, Size: len(xs[c]), Centroid: r.Centroids[c]}
		if s.Size > 0 {
			_, s.StdDevX = stat.PopMeanStdDev(xs[c], nil)
			_, s.StdDevY = stat.PopMeanStdDev(ys[c], nil)
			s.MeanSqDist = stat.Mean(d2[c], nil)
		}
		summary[c] = s
	}
	return summary
}

// WriteText writes the "x y clusterId" rows of the result to w, grouped by
// cluster.
func (r *Result) WriteText(w io.Writer) error {
	if err := output.WriteText(w, r.points, r.Assignment); err != nil {
		return fmt.Errorf("%w: %w", ErrResource, err)
	}
	return nil
}

// Save writes the text rows to uri. An empty uri means output.DefaultPath.
func (r *Result) Save(ctx context.Context, st *storage.Storage, uri string) error {
	if uri == "" {
		uri = output.DefaultPath
	}
	return create(ctx, st, uri, r.WriteText)
}

// SaveLabels writes the bit-packed assignment to uri.
func (r *Result) SaveLabels(ctx context.Context, st *storage.Storage, uri string, opts ...labels.Option) error {
	packed, err := labels.Encode(r.Assignment, r.K(), opts...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResource, err)
	}
	return create(ctx, st, uri, func(w io.Writer) error {
		if _, err := w.Write(packed.Bytes()); err != nil {
			return fmt.Errorf("%w: %w", ErrResource, err)
		}
		return nil
	})
}

func create(ctx context.Context, st *storage.Storage, uri string, write func(io.Writer) error) (err error) {
	wc, err := st.Create(ctx, uri)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResource, err)
	}
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrResource, cerr)
		}
	}()
	return write(wc)
}
