package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dutyops/duty-roster-api/internal/dto"
	"github.com/dutyops/duty-roster-api/internal/models"
	"github.com/dutyops/duty-roster-api/internal/repository"
	"github.com/dutyops/duty-roster-api/internal/rota"
	"github.com/dutyops/duty-roster-api/pkg/config"
)

// StatsService aggregates per-person duty counts over the resolved
// timeline.
type StatsService struct {
	people   PersonStore
	records  RecordStore
	settings SettingsStore
	cache    Cache
	logger   *zap.Logger

	cacheTTL         time.Duration
	defaultStartDate string
}

// NewStatsService constructs the stats service.
func NewStatsService(people PersonStore, records RecordStore, settings SettingsStore, cache Cache, cfg *config.Config, logger *zap.Logger) *StatsService {
	return &StatsService{
		people:           people,
		records:          records,
		settings:         settings,
		cache:            cache,
		logger:           logger,
		cacheTTL:         cfg.Cache.TTL,
		defaultStartDate: cfg.Roster.DefaultStartDate,
	}
}

// Stats computes duty statistics as of today. Past counts are resolved
// against the current roster and records, so edits rewrite history.
func (s *StatsService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	asOf := rota.FormatDay(time.Now())

	key := cacheKeyStatsPrefix + asOf
	var cached dto.StatsResponse
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	state, err := loadState(ctx, s.people, s.records, s.settings, s.defaultStartDate)
	if err != nil {
		return nil, err
	}
	perPerson, err := rota.ComputeStats(state.people, state.records, state.startDate, asOf)
	if err != nil {
		return nil, err
	}
	total, err := s.records.Count(ctx)
	if err != nil {
		return nil, err
	}
	lastUpdated, err := s.settings.Get(ctx, repository.ConfigKeyLastUpdated)
	if err != nil {
		return nil, err
	}

	summary := models.SystemStats{
		TotalPeople:  len(state.people),
		ActivePeople: len(state.roster),
		TotalRecords: total,
	}
	if lastUpdated != "" {
		summary.LastUpdated = &lastUpdated
	}

	resp := &dto.StatsResponse{AsOf: asOf, People: perPerson, Summary: summary}
	if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
		s.logger.Warn("cache stats", zap.Error(err))
	}
	return resp, nil
}
