package dto

import "github.com/dutyops/duty-roster-api/internal/models"

// AssignRequest sets a manual assignment for one date.
type AssignRequest struct {
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
	PersonID string  `json:"person_id" validate:"required"`
	Reason   *string `json:"reason,omitempty" validate:"omitempty,max=500"`
	// Force skips the advisory consecutive-days and rest-days checks.
	Force bool `json:"force,omitempty"`
}

// SwapRequest exchanges the duties of two dates.
type SwapRequest struct {
	Date1  string  `json:"date1" validate:"required,datetime=2006-01-02"`
	Date2  string  `json:"date2" validate:"required,datetime=2006-01-02,nefield=Date1"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ReplaceRequest substitutes a stand-in for the scheduled person.
type ReplaceRequest struct {
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
	PersonID string  `json:"person_id" validate:"required"`
	Reason   *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// SuspendRequest marks a date or inclusive date range as duty-free.
type SuspendRequest struct {
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Reason    *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ResumeRequest restores a date to plain rotation.
type ResumeRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// BulkDeleteRequest removes the records on every listed date.
type BulkDeleteRequest struct {
	Dates []string `json:"dates" validate:"required,min=1,dive,datetime=2006-01-02"`
}

// BulkDeleteResponse reports how many of the requested dates actually
// held a record.
type BulkDeleteResponse struct {
	Requested int `json:"requested"`
	Deleted   int `json:"deleted"`
}

// GenerateRequest materializes rotation records over a range.
type GenerateRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	// RespectExisting keeps manual, swap, replacement and suspended
	// records in place; when false the range is regenerated from scratch.
	RespectExisting bool `json:"respect_existing"`
}

// SwapResponse reports the outcome of a swap.
type SwapResponse struct {
	Summary string              `json:"summary"`
	Records []models.DutyRecord `json:"records"`
}

// GenerateResponse reports how many records a bulk generation wrote.
type GenerateResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Created   int    `json:"created"`
	Skipped   int    `json:"skipped"`
}

// SuspendResponse lists the dates newly marked as suspended.
type SuspendResponse struct {
	Dates []string `json:"dates"`
}

// CleanupResponse reports how many orphaned records were purged.
type CleanupResponse struct {
	Removed int64 `json:"removed"`
}

// WarningResponse carries advisory rule violations for a rejected
// assignment that the caller may retry with force.
type WarningResponse struct {
	Warnings []string `json:"warnings"`
}
