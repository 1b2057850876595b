package dto

import "github.com/dutyops/duty-roster-api/internal/models"

// StatsResponse aggregates per-person duty counts with a system summary.
type StatsResponse struct {
	AsOf    string               `json:"as_of"`
	People  []models.PersonStats `json:"people"`
	Summary models.SystemStats   `json:"summary"`
}

// ExportRequest bounds a schedule export.
type ExportRequest struct {
	From   string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
