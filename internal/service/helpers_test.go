package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dutyops/duty-roster-api/internal/models"
	"github.com/dutyops/duty-roster-api/pkg/config"
	appErrors "github.com/dutyops/duty-roster-api/pkg/errors"
)

// fakePersonStore keeps the roster in memory.
type fakePersonStore struct {
	people []models.Person
}

func (f *fakePersonStore) List(_ context.Context, filter models.PersonFilter) ([]models.Person, error) {
	out := make([]models.Person, 0, len(f.people))
	for _, p := range f.people {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (f *fakePersonStore) GetByID(_ context.Context, id string) (*models.Person, error) {
	for i := range f.people {
		if f.people[i].ID == id {
			p := f.people[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakePersonStore) Create(_ context.Context, person *models.Person) error {
	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	if person.OrderIndex == 0 {
		person.OrderIndex = len(f.people) + 1
	}
	f.people = append(f.people, *person)
	return nil
}

func (f *fakePersonStore) Update(_ context.Context, person *models.Person) error {
	for i := range f.people {
		if f.people[i].ID == person.ID {
			f.people[i] = *person
			return nil
		}
	}
	return fmt.Errorf("person %s not found", person.ID)
}

func (f *fakePersonStore) SwapOrder(_ context.Context, a, b *models.Person) error {
	for i := range f.people {
		switch f.people[i].ID {
		case a.ID:
			f.people[i].OrderIndex = b.OrderIndex
		case b.ID:
			f.people[i].OrderIndex = a.OrderIndex
		}
	}
	a.OrderIndex, b.OrderIndex = b.OrderIndex, a.OrderIndex
	return nil
}

func (f *fakePersonStore) DeleteCascade(_ context.Context, id string) (int64, error) {
	for i := range f.people {
		if f.people[i].ID == id {
			f.people = append(f.people[:i], f.people[i+1:]...)
			return 0, nil
		}
	}
	return 0, nil
}

// fakeRecordStore keys records by date, enforcing one record per date.
type fakeRecordStore struct {
	byDate map[string]models.DutyRecord
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{byDate: map[string]models.DutyRecord{}}
}

func (f *fakeRecordStore) GetByDate(_ context.Context, date string) (*models.DutyRecord, error) {
	if rec, ok := f.byDate[date]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeRecordStore) GetAll(_ context.Context) ([]models.DutyRecord, error) {
	out := make([]models.DutyRecord, 0, len(f.byDate))
	for _, rec := range f.byDate {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *fakeRecordStore) GetByDateRange(_ context.Context, start, end string) ([]models.DutyRecord, error) {
	var out []models.DutyRecord
	for _, rec := range f.byDate {
		if rec.Date >= start && rec.Date <= end {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *fakeRecordStore) Insert(_ context.Context, record *models.DutyRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if _, ok := f.byDate[record.Date]; ok {
		return fmt.Errorf("duplicate record for %s", record.Date)
	}
	f.byDate[record.Date] = *record
	return nil
}

func (f *fakeRecordStore) DeleteByDate(_ context.Context, date string) (int64, error) {
	if _, ok := f.byDate[date]; ok {
		delete(f.byDate, date)
		return 1, nil
	}
	return 0, nil
}

func (f *fakeRecordStore) DeleteOrphans(context.Context) (int64, error) { return 0, nil }

func (f *fakeRecordStore) Count(context.Context) (int, error) { return len(f.byDate), nil }

func (f *fakeRecordStore) Apply(_ context.Context, deleteDates []string, inserts []models.DutyRecord) error {
	for _, date := range deleteDates {
		delete(f.byDate, date)
	}
	// Mutates inserts in place like the real store does.
	for i := range inserts {
		rec := &inserts[i]
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now().UTC()
		}
		if _, ok := f.byDate[rec.Date]; ok {
			return fmt.Errorf("duplicate record for %s", rec.Date)
		}
		f.byDate[rec.Date] = *rec
	}
	return nil
}

// fakeSettings is an in-memory key/value store.
type fakeSettings struct {
	values map[string]string
	rules  *models.DutyRules
}

func newFakeSettings(startDate string) *fakeSettings {
	return &fakeSettings{values: map[string]string{"duty_start_date": startDate}}
}

func (f *fakeSettings) Get(_ context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeSettings) Set(_ context.Context, key, value string) error {
	f.values[key] = value
	return nil
}

func (f *fakeSettings) GetRules(context.Context) (models.DutyRules, error) {
	if f.rules != nil {
		return *f.rules, nil
	}
	return models.DefaultDutyRules(), nil
}

func (f *fakeSettings) SetRules(_ context.Context, rules models.DutyRules) error {
	f.rules = &rules
	return nil
}

// missCache never hits.
type missCache struct{}

func (missCache) Enabled() bool { return false }
func (missCache) Get(context.Context, string, interface{}) error {
	return appErrors.ErrCacheMiss
}
func (missCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (missCache) DeleteByPattern(context.Context, string) error                 { return nil }

// spyNotifier records emitted events.
type spyNotifier struct {
	scheduleUpdated int
	added           []models.DutyRecord
	deleted         []string
}

func (n *spyNotifier) ScheduleUpdated(context.Context) { n.scheduleUpdated++ }
func (n *spyNotifier) RecordAdded(_ context.Context, record models.DutyRecord) {
	n.added = append(n.added, record)
}
func (n *spyNotifier) RecordDeleted(_ context.Context, date string) {
	n.deleted = append(n.deleted, date)
}

func testConfig() *config.Config {
	return &config.Config{
		Cache:  config.CacheConfig{TTL: time.Minute},
		Roster: config.RosterConfig{CalendarDays: 14},
	}
}

func testPeople(names ...string) []models.Person {
	people := make([]models.Person, 0, len(names))
	for i, name := range names {
		people = append(people, models.Person{
			ID:         fmt.Sprintf("p%d", i+1),
			Name:       name,
			OrderIndex: i + 1,
			IsActive:   true,
		})
	}
	return people
}

type fixture struct {
	people    *fakePersonStore
	records   *fakeRecordStore
	settings  *fakeSettings
	notifier  *spyNotifier
	scheduler *ScheduleService
	assign    *AssignmentService
	roster    *RosterService
}

func newFixture(startDate string, names ...string) *fixture {
	people := &fakePersonStore{people: testPeople(names...)}
	records := newFakeRecordStore()
	settings := newFakeSettings(startDate)
	notifier := &spyNotifier{}
	validate := validator.New()
	logger := zap.NewNop()
	cfg := testConfig()

	scheduler := NewScheduleService(people, records, settings, missCache{}, notifier, cfg, validate, logger)
	return &fixture{
		people:    people,
		records:   records,
		settings:  settings,
		notifier:  notifier,
		scheduler: scheduler,
		assign:    NewAssignmentService(people, records, settings, scheduler, notifier, cfg, validate, logger),
		roster:    NewRosterService(people, scheduler, notifier, validate, logger),
	}
}
