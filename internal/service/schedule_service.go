package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dutyops/duty-roster-api/internal/dto"
	"github.com/dutyops/duty-roster-api/internal/models"
	"github.com/dutyops/duty-roster-api/internal/repository"
	"github.com/dutyops/duty-roster-api/internal/rota"
	"github.com/dutyops/duty-roster-api/pkg/config"
	appErrors "github.com/dutyops/duty-roster-api/pkg/errors"
)

// ScheduleService serves the read side of the roster: snapshot, resolved
// calendar, today view and settings.
type ScheduleService struct {
	people   PersonStore
	records  RecordStore
	settings SettingsStore
	cache    Cache
	notifier ChangeNotifier
	validate *validator.Validate
	logger   *zap.Logger

	cacheTTL         time.Duration
	defaultStartDate string
	calendarDays     int
}

// NewScheduleService constructs the schedule service.
func NewScheduleService(
	people PersonStore,
	records RecordStore,
	settings SettingsStore,
	cache Cache,
	notifier ChangeNotifier,
	cfg *config.Config,
	validate *validator.Validate,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		people:           people,
		records:          records,
		settings:         settings,
		cache:            cache,
		notifier:         notifier,
		validate:         validate,
		logger:           logger,
		cacheTTL:         cfg.Cache.TTL,
		defaultStartDate: cfg.Roster.DefaultStartDate,
		calendarDays:     cfg.Roster.CalendarDays,
	}
}

// StartDate loads the rotation anchor date, seeding it from configuration
// (or today) on first use.
func (s *ScheduleService) StartDate(ctx context.Context) (string, error) {
	return ensureStartDate(ctx, s.settings, s.defaultStartDate)
}

// Snapshot returns the full client-facing state in one payload.
func (s *ScheduleService) Snapshot(ctx context.Context) (*dto.ScheduleSnapshot, error) {
	var cached dto.ScheduleSnapshot
	if err := s.cache.Get(ctx, cacheKeySnapshot, &cached); err == nil {
		return &cached, nil
	}

	startDate, err := s.StartDate(ctx)
	if err != nil {
		return nil, err
	}
	people, err := s.people.List(ctx, models.PersonFilter{})
	if err != nil {
		return nil, err
	}
	records, err := s.records.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := s.settings.GetRules(ctx)
	if err != nil {
		return nil, err
	}
	updatedAt, err := s.settings.Get(ctx, repository.ConfigKeyLastUpdated)
	if err != nil {
		return nil, err
	}

	snapshot := &dto.ScheduleSnapshot{
		StartDate: startDate,
		People:    people,
		Records:   records,
		Rules:     rules,
		UpdatedAt: updatedAt,
	}
	if err := s.cache.Set(ctx, cacheKeySnapshot, snapshot, s.cacheTTL); err != nil {
		s.logger.Warn("cache snapshot", zap.Error(err))
	}
	return snapshot, nil
}

// Calendar resolves every day in [from, to]. Empty bounds default to a
// window of the configured length starting today.
func (s *ScheduleService) Calendar(ctx context.Context, req dto.CalendarRequest) (*dto.CalendarResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar range")
	}
	from := req.From
	if from == "" {
		from = rota.FormatDay(time.Now())
	}
	to := req.To
	if to == "" {
		var err error
		if to, err = rota.AddDays(from, s.calendarDays-1); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid calendar range")
		}
	}
	if to < from {
		from, to = to, from
	}

	key := fmt.Sprintf("%s%s:%s", cacheKeyCalendarPrefix, from, to)
	var cached dto.CalendarResponse
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	days, err := s.resolveDays(ctx, from, to)
	if err != nil {
		return nil, err
	}
	resp := &dto.CalendarResponse{From: from, To: to, Days: days}
	if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
		s.logger.Warn("cache calendar", zap.Error(err))
	}
	return resp, nil
}

// Today resolves the current date plus a one-week lookahead.
func (s *ScheduleService) Today(ctx context.Context) (*dto.TodayResponse, error) {
	today := rota.FormatDay(time.Now())
	end, err := rota.AddDays(today, 7)
	if err != nil {
		return nil, err
	}
	days, err := s.resolveDays(ctx, today, end)
	if err != nil {
		return nil, err
	}
	return &dto.TodayResponse{Today: days[0], Upcoming: days[1:]}, nil
}

// GetConfig returns the active schedule settings.
func (s *ScheduleService) GetConfig(ctx context.Context) (*dto.ConfigResponse, error) {
	startDate, err := s.StartDate(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := s.settings.GetRules(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ConfigResponse{StartDate: startDate, Rules: rules}, nil
}

// UpdateConfig edits the start date and/or the advisory rules. Moving the
// start date re-anchors the whole rotation.
func (s *ScheduleService) UpdateConfig(ctx context.Context, req dto.UpdateConfigRequest) (*dto.ConfigResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings")
	}
	if req.StartDate == nil && req.Rules == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nothing to update")
	}
	if req.StartDate != nil {
		if err := s.settings.Set(ctx, repository.ConfigKeyStartDate, *req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.Rules != nil {
		if err := s.settings.SetRules(ctx, *req.Rules); err != nil {
			return nil, err
		}
	}
	if err := s.touch(ctx); err != nil {
		return nil, err
	}
	s.notifier.ScheduleUpdated(ctx)
	return s.GetConfig(ctx)
}

// Invalidate drops every cached read-path entry. The write-side services
// call it after each mutation.
func (s *ScheduleService) Invalidate(ctx context.Context) {
	for _, pattern := range []string{cacheKeySnapshot, cacheKeyCalendarPrefix + "*", cacheKeyStatsPrefix + "*"} {
		if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
			s.logger.Warn("invalidate cache", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}

func (s *ScheduleService) touch(ctx context.Context) error {
	s.Invalidate(ctx)
	return s.settings.Set(ctx, repository.ConfigKeyLastUpdated, time.Now().UTC().Format(time.RFC3339))
}

func (s *ScheduleService) resolveDays(ctx context.Context, from, to string) ([]dto.DayView, error) {
	startDate, err := s.StartDate(ctx)
	if err != nil {
		return nil, err
	}
	people, err := s.people.List(ctx, models.PersonFilter{})
	if err != nil {
		return nil, err
	}
	records, err := s.records.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	roster := rota.ActiveRoster(people)
	set := rota.NewRecordSet(records)
	count, err := rota.DaysBetween(from, to)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid calendar range")
	}
	resolved, err := rota.ResolveRange(startDate, from, count+1, roster, set)
	if err != nil {
		return nil, err
	}

	days := make([]dto.DayView, 0, len(resolved))
	for _, day := range resolved {
		days = append(days, toDayView(day, set))
	}
	return days, nil
}

func toDayView(day rota.DayAssignment, set rota.RecordSet) dto.DayView {
	view := dto.DayView{Date: day.Date}
	if rec := set.ByDate(day.Date); rec != nil {
		view.HasRecord = true
		view.Reason = rec.Reason
		view.Suspended = rec.Suspended()
	}
	if day.Assignment != nil {
		kind := day.Assignment.Kind
		view.PersonID = &day.Assignment.PersonID
		view.PersonName = &day.Assignment.PersonName
		view.Kind = &kind
	}
	return view
}
