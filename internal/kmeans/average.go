package kmeans

import "github.com/yyyoichi/kmeans2d/internal/points"

// ClusterStats accumulates the coordinates of the points assigned to one
// cluster during an update pass.
type ClusterStats struct {
	SumX, SumY float64
	Count      int
}

func (s *ClusterStats) Add(p points.Point) {
	s.SumX += p.X
	s.SumY += p.Y
	s.Count += 1
}

func (s *ClusterStats) Mean() points.Point {
	n := float64(s.Count)
	return points.Point{X: s.SumX / n, Y: s.SumY / n}
}

func (s *ClusterStats) Reset() { *s = ClusterStats{} }

// Workspace holds the per-cluster scratch buffers of the update step.
// It is resized only when k changes and may be reused across runs, but must
// not be shared by runs executing at the same time.
type Workspace struct {
	stats []ClusterStats
}

func NewWorkspace(k int) *Workspace {
	w := new(Workspace)
	w.Resize(k)
	return w
}

// Resize makes room for k clusters and zeroes every accumulator.
func (w *Workspace) Resize(k int) {
	if cap(w.stats) < k {
		w.stats = make([]ClusterStats, k)
		return
	}
	w.stats = w.stats[:k]
	for i := range w.stats {
		w.stats[i].Reset()
	}
}

func (w *Workspace) K() int { return len(w.stats) }

// Counts returns the cluster sizes seen by the last Update.
func (w *Workspace) Counts() []int {
	counts := make([]int, len(w.stats))
	for i := range w.stats {
		counts[i] = w.stats[i].Count
	}
	return counts
}
