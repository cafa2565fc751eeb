// Command kmeans clusters the 2-D points of a file and writes them grouped by
// cluster.
//
//	kmeans [options] <data-file> <k>
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	kmeans "github.com/yyyoichi/kmeans2d"
	"github.com/yyyoichi/kmeans2d/labels"
	"github.com/yyyoichi/kmeans2d/output"
	"github.com/yyyoichi/kmeans2d/storage"

	"github.com/urfave/cli/v2"
)

var errUsage = errors.New("usage: kmeans [options] <data-file> <k>")

func main() {
	app := newApp()
	if err := app.RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error! %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:        "kmeans",
		Usage:       "partition 2-D points into k clusters",
		UsageText:   "kmeans [options] <data-file> <k>",
		HideVersion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   output.DefaultPath,
				Usage:   "destination of the \"x y cluster\" rows (path, file://, s3://, minio://; .zst and .lz4 are compressed)",
			},
			&cli.StringFlag{
				Name:    "seeds",
				Aliases: []string{"s"},
				Usage:   "comma separated point indices used as initial centroids, e.g. \"0,2\"",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "ask for the initial centroid indices on stdin",
			},
			&cli.Int64Flag{
				Name:  "rand-seed",
				Usage: "seed of the random centroid selection (default: wall clock)",
			},
			&cli.IntFlag{
				Name:  "max-rounds",
				Value: kmeans.DefaultMaxRounds,
				Usage: "maximum number of assignment/update rounds",
			},
			&cli.StringFlag{
				Name:  "labels",
				Usage: "also write the bit-packed cluster ids to this destination",
			},
			&cli.BoolFlag{
				Name:  "golay",
				Usage: "protect the packed cluster ids with a Golay(24,12) code",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "minio-endpoint",
				Usage: "host:port of the MinIO server used by minio:// destinations",
			},
			&cli.StringFlag{
				Name:  "minio-access-key",
				Usage: "MinIO access key",
			},
			&cli.StringFlag{
				Name:  "minio-secret-key",
				Usage: "MinIO secret key",
			},
			&cli.BoolFlag{
				Name:  "minio-ssl",
				Usage: "connect to MinIO over TLS",
			},
		},
		Action: runAction,
	}
}

// runAction corresponds to the only command of the tool.
func runAction(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return errUsage
	}
	src := ctx.Args().Get(0)
	k, err := strconv.Atoi(ctx.Args().Get(1))
	if err != nil {
		return fmt.Errorf("%w: k: %w", kmeans.ErrConfig, err)
	}

	logger, err := newLogger(ctx.App.ErrWriter, ctx.String("log-level"))
	if err != nil {
		return err
	}

	opts := []kmeans.Option{
		kmeans.WithLogger(logger),
		kmeans.WithMaxRounds(ctx.Int("max-rounds")),
	}
	if ctx.IsSet("rand-seed") {
		opts = append(opts, kmeans.WithRandSeed(ctx.Int64("rand-seed")))
	}
	switch {
	case ctx.IsSet("seeds") && ctx.Bool("interactive"):
		return fmt.Errorf("%w: --seeds and --interactive are exclusive", kmeans.ErrConfig)
	case ctx.IsSet("seeds"):
		idx, err := parseSeeds(ctx.String("seeds"))
		if err != nil {
			return err
		}
		opts = append(opts, kmeans.WithSeedIndices(idx...))
	case ctx.Bool("interactive"):
		opts = append(opts, kmeans.WithSeedProvider(newPrompt(ctx.App.Reader, ctx.App.Writer)))
	}

	c, err := kmeans.New(opts...)
	if err != nil {
		return err
	}

	st := storage.New(storage.Config{
		MinioEndpoint:  ctx.String("minio-endpoint"),
		MinioAccessKey: ctx.String("minio-access-key"),
		MinioSecretKey: ctx.String("minio-secret-key"),
		MinioSecure:    ctx.Bool("minio-ssl"),
	})

	res, err := c.ClusterURI(ctx.Context, st, src, k)
	if err != nil {
		return err
	}
	if err := res.Save(ctx.Context, st, ctx.String("output")); err != nil {
		return err
	}
	if dst := ctx.String("labels"); dst != "" {
		opt := labels.WithoutECC()
		if ctx.Bool("golay") {
			opt = labels.WithGolay(labels.DefaultShuffleSeed)
		}
		if err := res.SaveLabels(ctx.Context, st, dst, opt); err != nil {
			return err
		}
	}

	printReport(ctx.App.Writer, res)
	return nil
}

func printReport(w io.Writer, res *kmeans.Result) {
	fmt.Fprintf(w, "%s after %d rounds, inertia %.6f\n", res.Report.State, res.Report.Rounds, res.Report.Inertia)
	for _, s := range res.Summary() {
		fmt.Fprintf(w, "  cluster %d: %d points, centroid (%.6f, %.6f)\n", s.ID, s.Size, s.Centroid.X, s.Centroid.Y)
	}
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv})), nil
}
