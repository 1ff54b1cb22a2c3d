package service

import (
	"context"

	"github.com/jengzang/geotag-backend-go/internal/correlate"
	"github.com/jengzang/geotag-backend-go/internal/models"
	"github.com/jengzang/geotag-backend-go/internal/repository"
)

// JournalService exposes the run journal
type JournalService struct {
	repo *repository.GeotagRepository
}

// NewJournalService creates a new journal service
func NewJournalService(repo *repository.GeotagRepository) *JournalService {
	return &JournalService{repo: repo}
}

// List retrieves journal rows with filtering and pagination
func (s *JournalService) List(ctx context.Context, filter models.GeotagRecordFilter) (*models.GeotagRecordsResponse, error) {
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}
	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	return &models.GeotagRecordsResponse{
		Data:       records,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Summary counts the outcomes journaled for one run
func (s *JournalService) Summary(ctx context.Context, runID string) (*models.BatchSummary, error) {
	counts, err := s.repo.CountByKind(ctx, runID)
	if err != nil {
		return nil, err
	}
	summary := &models.BatchSummary{
		RunID:       runID,
		Matched:     counts[correlate.Matched.String()],
		BeforeStart: counts[correlate.BeforeStart.String()],
		AfterEnd:    counts[correlate.AfterEnd.String()],
		NoMatch:     counts[correlate.NoMatch.String()],
	}
	summary.Total = summary.Matched + summary.BeforeStart + summary.AfterEnd + summary.NoMatch
	return summary, nil
}
