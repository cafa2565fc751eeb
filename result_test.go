package kmeans

import (
	"bufio"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/kmeans2d/labels"
	"github.com/yyyoichi/kmeans2d/output"
	"github.com/yyyoichi/kmeans2d/storage"
)

func TestResult_Members(t *testing.T) {
	res, err := Cluster(squarePoints(), 2, WithSeedIndices(2, 0))
	require.NoError(t, err)
	assert.Equal(t, []uint32{2, 3}, res.Members(0).ToArray())
	assert.Equal(t, []uint32{0, 1}, res.Members(1).ToArray())
	assert.True(t, res.Members(5).IsEmpty())
}

func TestResult_Summary(t *testing.T) {
	res, err := Cluster(squarePoints(), 2, WithSeedIndices(0, 2))
	require.NoError(t, err)

	summary := res.Summary()
	require.Len(t, summary, 2)
	for c, s := range summary {
		assert.Equal(t, c, s.ID)
		assert.Equal(t, 2, s.Size)
		assert.Equal(t, res.Centroids[c], s.Centroid)
		assert.InDelta(t, 0.25, s.MeanSqDist, 1e-12)
		assert.InDelta(t, 0.0, s.StdDevX, 1e-12)
		assert.InDelta(t, 0.5, s.StdDevY, 1e-12)
	}
}

func TestResult_SummaryEmptyCluster(t *testing.T) {
	pts := squarePoints()
	res := &Result{
		Centroids:  []Point{{X: 0, Y: 0.5}, {X: 10, Y: 0.5}, {X: 100, Y: 100}},
		Assignment: []int{0, 0, 1, 1},
		points:     pts,
	}
	s := res.Summary()[2]
	assert.Equal(t, 0, s.Size)
	assert.False(t, math.IsNaN(s.StdDevX))
	assert.Equal(t, 0.0, s.MeanSqDist)
}

func TestResult_Save(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st := storage.New(storage.Config{})
	res, err := Cluster(squarePoints(), 2, WithSeedIndices(0, 2))
	require.NoError(t, err)

	for _, name := range []string{"out.txt", "out.txt.zst", "out.txt.lz4"} {
		t.Run(name, func(t *testing.T) {
			uri := filepath.Join(dir, name)
			require.NoError(t, res.Save(ctx, st, uri))

			rc, err := st.Open(ctx, uri)
			require.NoError(t, err)
			defer rc.Close()
			var lines []string
			sc := bufio.NewScanner(rc)
			for sc.Scan() {
				lines = append(lines, sc.Text())
			}
			require.NoError(t, sc.Err())
			assert.Equal(t, []string{
				"0.000000 0.000000 0",
				"0.000000 1.000000 0",
				"10.000000 0.000000 1",
				"10.000000 1.000000 1",
			}, lines)
		})
	}
}

func TestResult_SaveDefaultPath(t *testing.T) {
	t.Chdir(t.TempDir())
	res, err := Cluster(squarePoints(), 1, WithRandSeed(1))
	require.NoError(t, err)
	require.NoError(t, res.Save(context.Background(), storage.New(storage.Config{}), ""))

	data, err := os.ReadFile(output.DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(data), "\n"))
}

func TestResult_SaveErrors(t *testing.T) {
	ctx := context.Background()
	st := storage.New(storage.Config{})
	res, err := Cluster(squarePoints(), 2, WithSeedIndices(0, 2))
	require.NoError(t, err)

	err = res.Save(ctx, st, filepath.Join(t.TempDir(), "missing", "out.txt"))
	assert.ErrorIs(t, err, ErrResource)
	err = res.Save(ctx, st, "gopher://host/out.txt")
	assert.ErrorIs(t, err, ErrResource)
	assert.ErrorIs(t, err, storage.ErrUnsupportedScheme)
}

func TestResult_SaveLabels(t *testing.T) {
	ctx := context.Background()
	st := storage.New(storage.Config{})
	mem := storage.NewMemory()
	st.Register("mem", mem)

	res, err := Cluster(squarePoints(), 2, WithSeedIndices(0, 2))
	require.NoError(t, err)

	for _, opt := range []labels.Option{labels.WithoutECC(), labels.WithGolay(labels.DefaultShuffleSeed)} {
		require.NoError(t, res.SaveLabels(ctx, st, "mem://labels.bin", opt))
		data, ok := mem.Get(storage.Location{Key: "labels.bin"})
		require.True(t, ok)

		got, err := labels.Decode(data, len(res.Assignment), res.K(), opt)
		require.NoError(t, err)
		assert.Equal(t, res.Assignment, got)
	}
}
