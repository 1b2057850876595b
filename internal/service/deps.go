package service

import (
	"context"
	"time"

	"github.com/dutyops/duty-roster-api/internal/models"
)

// PersonStore is the roster persistence surface the services consume.
type PersonStore interface {
	List(ctx context.Context, filter models.PersonFilter) ([]models.Person, error)
	GetByID(ctx context.Context, id string) (*models.Person, error)
	Create(ctx context.Context, person *models.Person) error
	Update(ctx context.Context, person *models.Person) error
	SwapOrder(ctx context.Context, a, b *models.Person) error
	DeleteCascade(ctx context.Context, id string) (int64, error)
}

// RecordStore is the duty record persistence surface.
type RecordStore interface {
	GetByDate(ctx context.Context, date string) (*models.DutyRecord, error)
	GetAll(ctx context.Context) ([]models.DutyRecord, error)
	GetByDateRange(ctx context.Context, start, end string) ([]models.DutyRecord, error)
	Insert(ctx context.Context, record *models.DutyRecord) error
	DeleteByDate(ctx context.Context, date string) (int64, error)
	DeleteOrphans(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int, error)
	Apply(ctx context.Context, deleteDates []string, inserts []models.DutyRecord) error
}

// SettingsStore is the schedule settings surface.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	GetRules(ctx context.Context) (models.DutyRules, error)
	SetRules(ctx context.Context, rules models.DutyRules) error
}

// Cache is the read-path cache surface. Implementations return
// errors.ErrCacheMiss on absent keys.
type Cache interface {
	Enabled() bool
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ChangeNotifier pushes schedule change events to connected clients.
type ChangeNotifier interface {
	ScheduleUpdated(ctx context.Context)
	RecordAdded(ctx context.Context, record models.DutyRecord)
	RecordDeleted(ctx context.Context, date string)
}

// Cache key prefixes shared by the read-path services.
const (
	cacheKeySnapshot       = "duty:snapshot"
	cacheKeyCalendarPrefix = "duty:calendar:"
	cacheKeyStatsPrefix    = "duty:stats:"
)
