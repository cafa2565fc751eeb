package kmeans

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/kmeans2d/storage"
)

func squarePoints() *Points {
	return NewPoints([]Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 10, Y: 0}, {X: 10, Y: 1}})
}

func TestCluster_Scenario(t *testing.T) {
	res, err := Cluster(squarePoints(), 2, WithSeedIndices(0, 2))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 1, 1}, res.Assignment)
	assert.Equal(t, []Point{{X: 0, Y: 0.5}, {X: 10, Y: 0.5}}, res.Centroids)
	assert.Equal(t, Converged, res.Report.State)
	assert.Equal(t, 2, res.Report.Rounds)
	assert.Equal(t, []int{4, 0}, res.Report.Changes)
	assert.Equal(t, 1.0, res.Report.Inertia)

	var buf bytes.Buffer
	require.NoError(t, res.WriteText(&buf))
	assert.Equal(t, "0.000000 0.000000 0\n0.000000 1.000000 0\n10.000000 0.000000 1\n10.000000 1.000000 1\n", buf.String())
}

func TestCluster_SingleCluster(t *testing.T) {
	pts := NewPoints([]Point{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 0}, {X: -1, Y: -2}, {X: 2, Y: 1}})
	res, err := Cluster(pts, 1, WithRandSeed(1))
	require.NoError(t, err)

	assert.Equal(t, Converged, res.Report.State)
	// one round moves the points, the next one observes the fixed point
	assert.Equal(t, []int{5, 0}, res.Report.Changes)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, res.Assignment)
	assert.InDelta(t, 2.0, res.Centroids[0].X, 1e-12)
	assert.InDelta(t, 1.0, res.Centroids[0].Y, 1e-12)
}

func TestCluster_KEqualsN(t *testing.T) {
	pts := squarePoints()
	res, err := Cluster(pts, pts.Len(), WithRandSeed(9))
	require.NoError(t, err)

	assert.Equal(t, Converged, res.Report.State)
	assert.ElementsMatch(t, pts.All(), res.Centroids)
	for c := range res.K() {
		assert.Equal(t, uint64(1), res.Members(c).GetCardinality())
	}
}

func TestCluster_ConfigErrors(t *testing.T) {
	test := []struct {
		name string
		pts  *Points
		k    int
		opts []Option
		err  error
	}{
		{"k_zero", squarePoints(), 0, nil, ErrInvalidK},
		{"k_negative", squarePoints(), -3, nil, ErrInvalidK},
		{"k_too_large", squarePoints(), 5, nil, ErrInvalidK},
		{"no_points", NewPoints(nil), 1, nil, ErrInvalidK},
		{"seed_count", squarePoints(), 2, []Option{WithSeedIndices(0)}, ErrSeedCount},
		{"seed_range", squarePoints(), 2, []Option{WithSeedIndices(0, 4)}, ErrSeedRange},
		{"seed_duplicate", squarePoints(), 2, []Option{WithSeedIndices(3, 3)}, ErrSeedDuplicate},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Cluster(tt.pts, tt.k, tt.opts...)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrConfig)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCluster_NilPoints(t *testing.T) {
	res, err := Cluster(nil, 2)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInput)
}

func TestCluster_SeedProvider(t *testing.T) {
	var asked [][2]int
	provider := SeedProviderFunc(func(n, k int) ([]int, error) {
		asked = append(asked, [2]int{n, k})
		return []int{3, 1}, nil
	})
	res, err := Cluster(squarePoints(), 2, WithSeedProvider(provider))
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{4, 2}}, asked)
	// cluster 0 grows from (10, 1), cluster 1 from (0, 1)
	assert.Equal(t, []int{1, 1, 0, 0}, res.Assignment)

	// nil means random seeding
	res, err = Cluster(squarePoints(), 2, WithSeedProvider(FixedSeeds(nil)), WithRandSeed(3))
	require.NoError(t, err)
	assert.Len(t, res.Centroids, 2)

	cause := errors.New("prompt closed")
	_, err = Cluster(squarePoints(), 2, WithSeedProvider(SeedProviderFunc(func(int, int) ([]int, error) {
		return nil, cause
	})))
	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, cause)

	// k is checked before the provider is asked
	asked = nil
	_, err = Cluster(squarePoints(), 9, WithSeedProvider(provider))
	assert.ErrorIs(t, err, ErrInvalidK)
	assert.Empty(t, asked)
}

func TestCluster_Reproducible(t *testing.T) {
	rd := rand.New(rand.NewSource(1))
	raw := make([]Point, 400)
	for i := range raw {
		raw[i] = Point{X: rd.Float64() * 100, Y: rd.Float64() * 100}
	}
	pts := NewPoints(raw)

	a, err := Cluster(pts, 6, WithRandSeed(77))
	require.NoError(t, err)
	b, err := Cluster(pts, 6, WithRand(rand.New(rand.NewSource(77))))
	require.NoError(t, err)
	assert.Equal(t, a.Assignment, b.Assignment)
	assert.Equal(t, a.Centroids, b.Centroids)
}

func TestCluster_Capped(t *testing.T) {
	rd := rand.New(rand.NewSource(2))
	raw := make([]Point, 300)
	for i := range raw {
		raw[i] = Point{X: rd.NormFloat64(), Y: rd.NormFloat64()}
	}
	res, err := Cluster(NewPoints(raw), 4, WithRandSeed(5), WithMaxRounds(1))
	require.NoError(t, err)
	assert.Equal(t, Capped, res.Report.State)
	assert.Equal(t, 1, res.Report.Rounds)
	assert.Len(t, res.Assignment, 300)
}

func TestCluster_SharedWorkspace(t *testing.T) {
	ws := NewWorkspace(1)
	c, err := New(WithWorkspace(ws), WithRandSeed(4))
	require.NoError(t, err)

	for _, k := range []int{2, 4, 3} {
		res, err := c.Cluster(squarePoints(), k)
		require.NoError(t, err)
		assert.Len(t, res.Centroids, k)
		assert.Equal(t, k, ws.K())
	}
}

func TestCluster_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := Cluster(squarePoints(), 2, WithSeedIndices(0, 2), WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "round completed")
	assert.Contains(t, out, "clustering finished")
	assert.Contains(t, out, "state=converged")
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(WithMaxRounds(0))
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = New(WithRand(nil))
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestLoadPoints(t *testing.T) {
	pts, err := LoadPoints(strings.NewReader("0 0\n1 1\nend\n2 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, pts.Len())
}

func TestClusterURI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "points.txt")
	require.NoError(t, os.WriteFile(path, []byte("0 0\n0 1\n10 0\n10 1\n"), 0o644))

	ctx := context.Background()
	st := storage.New(storage.Config{})
	c, err := New(WithSeedIndices(0, 2))
	require.NoError(t, err)

	res, err := c.ClusterURI(ctx, st, path, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 1}, res.Assignment)

	_, err = c.ClusterURI(ctx, st, filepath.Join(dir, "missing.txt"), 2)
	assert.ErrorIs(t, err, ErrInput)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
