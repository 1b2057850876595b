package service

import (
	"context"
	"time"

	"github.com/dutyops/duty-roster-api/internal/models"
	"github.com/dutyops/duty-roster-api/internal/repository"
	"github.com/dutyops/duty-roster-api/internal/rota"
)

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// scheduleState is the in-memory working set every resolution starts from.
type scheduleState struct {
	startDate string
	people    []models.Person
	roster    []models.Person
	records   []models.DutyRecord
	set       rota.RecordSet
}

// ensureStartDate loads the rotation anchor, seeding it on first use from
// the configured default or today's date.
func ensureStartDate(ctx context.Context, settings SettingsStore, fallback string) (string, error) {
	value, err := settings.Get(ctx, repository.ConfigKeyStartDate)
	if err != nil {
		return "", err
	}
	if value != "" {
		return value, nil
	}
	value = fallback
	if value == "" {
		value = rota.FormatDay(time.Now())
	}
	if err := settings.Set(ctx, repository.ConfigKeyStartDate, value); err != nil {
		return "", err
	}
	return value, nil
}

// loadState pulls the start date, roster and record set in one place.
func loadState(ctx context.Context, people PersonStore, records RecordStore, settings SettingsStore, fallbackStart string) (*scheduleState, error) {
	startDate, err := ensureStartDate(ctx, settings, fallbackStart)
	if err != nil {
		return nil, err
	}
	all, err := people.List(ctx, models.PersonFilter{})
	if err != nil {
		return nil, err
	}
	recs, err := records.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return &scheduleState{
		startDate: startDate,
		people:    all,
		roster:    rota.ActiveRoster(all),
		records:   recs,
		set:       rota.NewRecordSet(recs),
	}, nil
}
