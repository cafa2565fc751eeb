package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/yyyoichi/kmeans2d/internal/bucket"
	"github.com/yyyoichi/kmeans2d/internal/points"
)

// DefaultPath is the file written when no destination is given.
const DefaultPath = "kmeans-output.txt"

var (
	ErrLengthMismatch = errors.New("point count and assignment length differ")
	ErrNegativeID     = errors.New("negative cluster id")
)

// Points is the indexed point sequence rows are read from.
type Points interface {
	Len() int
	At(i int) points.Point
}

// WriteText writes one "x y clusterId" row per point, grouped by ascending
// cluster id and in load order inside each cluster.
//
// The row order is computed before anything is written, so a failing
// destination never receives a partially ordered file.
func WriteText(w io.Writer, pts Points, assignment []int) error {
	if pts.Len() != len(assignment) {
		return fmt.Errorf("%w: %d points, %d labels", ErrLengthMismatch, pts.Len(), len(assignment))
	}
	for i, c := range assignment {
		if c < 0 {
			return fmt.Errorf("%w: point %d has cluster %d", ErrNegativeID, i, c)
		}
	}
	order := bucket.Order(assignment)

	bw := bufio.NewWriter(w)
	for _, i := range order {
		p := pts.At(i)
		if _, err := fmt.Fprintf(bw, "%.6f %.6f %d\n", p.X, p.Y, assignment[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
