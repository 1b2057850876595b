package dto

import "github.com/dutyops/duty-roster-api/internal/models"

// DayView is one resolved calendar day.
type DayView struct {
	Date       string             `json:"date"`
	PersonID   *string            `json:"person_id"`
	PersonName *string            `json:"person_name"`
	Kind       *models.RecordKind `json:"kind"`
	Suspended  bool               `json:"suspended"`
	HasRecord  bool               `json:"has_record"`
	Reason     *string            `json:"reason,omitempty"`
}

// ScheduleSnapshot is the full client-facing state: roster, overrides
// and settings in one payload.
type ScheduleSnapshot struct {
	StartDate string              `json:"start_date"`
	People    []models.Person     `json:"people"`
	Records   []models.DutyRecord `json:"records"`
	Rules     models.DutyRules    `json:"rules"`
	UpdatedAt string              `json:"updated_at,omitempty"`
}

// CalendarRequest bounds a resolved calendar query.
type CalendarRequest struct {
	From string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" validate:"omitempty,datetime=2006-01-02"`
}

// CalendarResponse is a resolved, ordered run of days.
type CalendarResponse struct {
	From string    `json:"from"`
	To   string    `json:"to"`
	Days []DayView `json:"days"`
}

// TodayResponse resolves the current date plus a short lookahead.
type TodayResponse struct {
	Today    DayView   `json:"today"`
	Upcoming []DayView `json:"upcoming"`
}

// UpdateConfigRequest edits schedule settings.
type UpdateConfigRequest struct {
	StartDate *string           `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Rules     *models.DutyRules `json:"rules,omitempty"`
}

// ConfigResponse returns the active schedule settings.
type ConfigResponse struct {
	StartDate string           `json:"start_date"`
	Rules     models.DutyRules `json:"rules"`
}
