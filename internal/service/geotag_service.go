package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jengzang/geotag-backend-go/internal/correlate"
	"github.com/jengzang/geotag-backend-go/internal/exifcodec"
	"github.com/jengzang/geotag-backend-go/internal/logging"
	"github.com/jengzang/geotag-backend-go/internal/metadata"
	"github.com/jengzang/geotag-backend-go/internal/models"
	"github.com/jengzang/geotag-backend-go/internal/observability"
	"github.com/jengzang/geotag-backend-go/internal/spatial"
	"github.com/jengzang/geotag-backend-go/internal/track"
)

// Journal stores one record per processed photo
type Journal interface {
	Insert(ctx context.Context, rec *models.GeotagRecord) error
}

// Options controls a geotagging run
type Options struct {
	RunID    string
	Workers  int
	FailFast bool
	DryRun   bool
}

// GeotagService correlates photos against a track and writes positions back
type GeotagService struct {
	track   *track.Track
	opts    Options
	journal Journal
	metrics *observability.GeotagCollector
	logger  logging.Logger
}

// NewGeotagService creates a new geotag service. A nil journal, collector or
// logger disables that concern.
func NewGeotagService(t *track.Track, opts Options, journal Journal, metrics *observability.GeotagCollector, logger logging.Logger) *GeotagService {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = logging.Noop()
	}
	metrics.SetTrackSamples(t.Len())
	return &GeotagService{
		track:   t,
		opts:    opts,
		journal: journal,
		metrics: metrics,
		logger:  logger.With(logging.String("run", opts.RunID)),
	}
}

// RunID identifies the journal rows written by this service
func (s *GeotagService) RunID() string {
	return s.opts.RunID
}

// TagFile resolves one photo against the track and, unless the run is a dry
// run, rewrites it in place with the resolved position. A photo with no
// matching sample is left untouched and reported with MatchKind no_match.
func (s *GeotagService) TagFile(ctx context.Context, path string) (*models.GeotagRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	rec, err := s.tag(path)
	if err != nil {
		s.metrics.ObserveFailure()
		s.logger.Error(ctx, "geotag failed", logging.Photo(path), logging.Err(err))
		return nil, err
	}
	s.metrics.ObservePhoto(rec.MatchKind, time.Since(start))

	// The photo is already rewritten; a lost journal row does not undo that.
	if s.journal != nil {
		if err := s.journal.Insert(ctx, rec); err != nil {
			s.logger.Error(ctx, "journal insert failed", logging.Photo(path), logging.Bool("written", rec.Written), logging.Err(err))
		}
	}

	s.report(ctx, rec)
	return rec, nil
}

func (s *GeotagService) tag(path string) (*models.GeotagRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}

	block, err := readBlock(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	capture, err := block.CaptureTime()
	if errors.Is(err, metadata.ErrMissingCaptureTime) {
		return nil, &metadata.MissingCaptureTimeError{File: path}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	res := correlate.Resolve(s.track, capture)
	rec := &models.GeotagRecord{
		RunID:       s.opts.RunID,
		PhotoPath:   path,
		CaptureTime: track.WallClock(capture),
		MatchKind:   res.Kind.String(),
		DryRun:      s.opts.DryRun,
	}
	if !res.Found() {
		return rec, nil
	}

	fix := res.Fix()
	sampleTime := res.Sample.Time
	rec.Fix = &fix
	rec.SampleTime = &sampleTime

	if res.Kind.Boundary() {
		if existing, ok := block.Position(); ok {
			d := spatial.DistanceFromFix(existing, fix)
			rec.DistanceFromExisting = &d
		}
	}

	tiff, err := exifcodec.Encode(metadata.WriteFix(block, fix))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode metadata: %w", path, err)
	}
	out, err := exifcodec.ReplaceTIFF(data, tiff)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if s.opts.DryRun {
		return rec, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat photo: %w", err)
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("failed to write photo: %w", err)
	}
	rec.Written = true
	return rec, nil
}

// readBlock decodes the EXIF data of a JPEG. A JPEG without EXIF yields an
// empty block.
func readBlock(data []byte) (*metadata.Block, error) {
	tiff, err := exifcodec.ExtractTIFF(data)
	if errors.Is(err, exifcodec.ErrNoExif) {
		return metadata.NewBlock(nil), nil
	}
	if err != nil {
		return nil, err
	}
	return exifcodec.Decode(tiff)
}

func (s *GeotagService) report(ctx context.Context, rec *models.GeotagRecord) {
	fields := []logging.Field{
		logging.Photo(rec.PhotoPath),
		logging.String("match", rec.MatchKind),
		logging.String("captureTime", rec.CaptureTime.Format(metadata.CaptureTimeLayout)),
	}
	if rec.Fix == nil {
		s.logger.Info(ctx, "no matching track sample, photo skipped", fields...)
		return
	}

	fields = append(fields,
		logging.Float("lat", rec.Fix.Latitude),
		logging.Float("lon", rec.Fix.Longitude),
		logging.Float("ele", rec.Fix.Elevation),
		logging.Bool("written", rec.Written),
	)
	if rec.MatchKind == correlate.Matched.String() {
		s.logger.Info(ctx, "photo geotagged", fields...)
		return
	}
	if rec.DistanceFromExisting != nil {
		fields = append(fields, logging.Float("distanceFromExistingMeters", *rec.DistanceFromExisting))
	}
	s.logger.Warn(ctx, "photo outside track span, used boundary sample", fields...)
}

// TagFiles processes paths with up to Workers photos in flight. With FailFast
// the first failure cancels the remaining photos and is returned. Otherwise
// every photo is attempted and failures are returned joined, in path order.
// Cancelling ctx stops launching photos; photos not attempted are not counted.
func (s *GeotagService) TagFiles(ctx context.Context, paths []string) (*models.BatchSummary, error) {
	summary := &models.BatchSummary{RunID: s.opts.RunID, Total: len(paths)}
	var mu sync.Mutex
	count := func(rec *models.GeotagRecord, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			summary.Failed++
			return
		}
		switch rec.MatchKind {
		case correlate.Matched.String():
			summary.Matched++
		case correlate.BeforeStart.String():
			summary.BeforeStart++
		case correlate.AfterEnd.String():
			summary.AfterEnd++
		default:
			summary.NoMatch++
		}
	}

	if s.opts.FailFast {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.opts.Workers)
		for _, path := range paths {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				rec, err := s.TagFile(gctx, path)
				count(rec, err)
				return err
			})
		}
		err := g.Wait()
		if err == nil {
			err = ctx.Err()
		}
		return summary, err
	}

	errs := make([]error, len(paths))
	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			rec, err := s.TagFile(ctx, path)
			if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return nil
			}
			count(rec, err)
			errs[i] = err
			return nil
		})
	}
	g.Wait()
	return summary, errors.Join(append(errs, ctx.Err())...)
}
