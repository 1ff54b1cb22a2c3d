package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jengzang/geotag-backend-go/internal/config"
	"github.com/jengzang/geotag-backend-go/internal/database"
	"github.com/jengzang/geotag-backend-go/internal/logging"
	"github.com/jengzang/geotag-backend-go/internal/observability"
	"github.com/jengzang/geotag-backend-go/internal/repository"
	"github.com/jengzang/geotag-backend-go/internal/service"
	"github.com/jengzang/geotag-backend-go/internal/spatial"
	"github.com/jengzang/geotag-backend-go/internal/track"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "geotag:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("geotag", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: geotag [flags] <track.gpx>")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "YAML config file applied over the environment")
	file := fs.String("file", "", "single photo to geotag")
	dir := fs.String("dir", "", "directory of photos to geotag; wins over -file")
	offset := fs.Int("offset", 0, "seconds added to every track timestamp")
	workers := fs.Int("workers", 1, "photos processed concurrently")
	keepGoing := fs.Bool("keep-going", false, "attempt every photo and report failures at the end")
	dryRun := fs.Bool("dry-run", false, "resolve positions without rewriting photos")
	journal := fs.String("journal", "", "SQLite file recording one row per photo")
	metricsFile := fs.String("metrics-file", "", "write run metrics in Prometheus text format to this file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one track file")
	}
	if *file == "" && *dir == "" {
		fs.Usage()
		return errors.New("one of -file or -dir is required")
	}

	cfg := config.Load()
	if *configPath != "" {
		if err := config.LoadFile(*configPath, cfg); err != nil {
			return err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "offset":
			cfg.OffsetSeconds = *offset
		case "workers":
			cfg.Workers = *workers
		case "keep-going":
			cfg.FailFast = !*keepGoing
		case "dry-run":
			cfg.DryRun = *dryRun
		case "journal":
			cfg.JournalPath = *journal
		}
	})

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: stderr})

	trackPath := fs.Arg(0)
	t, err := track.LoadGPX(trackPath, time.Duration(cfg.OffsetSeconds)*time.Second)
	if err != nil {
		return err
	}
	summary := t.Summary(trackPath)
	logger.Info(ctx, "track loaded",
		logging.String("track", trackPath),
		logging.Int("samples", summary.Samples),
		logging.Float("lengthMeters", spatial.PathLength(t.Samples())),
		logging.String("start", summary.Start.Format(time.DateTime)),
		logging.String("end", summary.End.Format(time.DateTime)),
	)

	var sink service.Journal
	if cfg.JournalPath != "" {
		var conn *sql.DB
		conn, err = database.Open(database.Config{Path: cfg.JournalPath})
		if err != nil {
			return err
		}
		defer conn.Close()
		sink = repository.NewGeotagRepository(conn)
	}

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewGeotagCollector(reg)
	if err != nil {
		return err
	}

	svc := service.NewGeotagService(t, service.Options{
		Workers:  cfg.Workers,
		FailFast: cfg.FailFast,
		DryRun:   cfg.DryRun,
	}, sink, metrics, logger)

	paths := []string{*file}
	if *dir != "" {
		paths, err = service.DiscoverPhotos(*dir)
		if err != nil {
			return err
		}
	}

	batch, err := svc.TagFiles(ctx, paths)
	fmt.Fprintf(stdout, "run %s: %d photos, %d matched, %d before start, %d after end, %d skipped, %d failed\n",
		batch.RunID, batch.Total, batch.Matched, batch.BeforeStart, batch.AfterEnd, batch.NoMatch, batch.Failed)

	if *metricsFile != "" {
		if werr := prometheus.WriteToTextfile(*metricsFile, reg); werr != nil {
			return errors.Join(err, fmt.Errorf("failed to write metrics: %w", werr))
		}
	}
	return err
}
