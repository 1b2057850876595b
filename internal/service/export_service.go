package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dutyops/duty-roster-api/internal/dto"
	appErrors "github.com/dutyops/duty-roster-api/pkg/errors"
	"github.com/dutyops/duty-roster-api/pkg/export"
)

// Export MIME types and formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportResult carries rendered bytes with their content type and a
// suggested filename.
type ExportResult struct {
	ContentType string
	Filename    string
	Data        []byte
}

// ExportService renders the resolved schedule as CSV or PDF.
type ExportService struct {
	scheduler *ScheduleService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(scheduler *ScheduleService, validate *validator.Validate, logger *zap.Logger) *ExportService {
	return &ExportService{
		scheduler: scheduler,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validate:  validate,
		logger:    logger,
	}
}

// Schedule renders the resolved calendar for the requested range.
func (s *ExportService) Schedule(ctx context.Context, req dto.ExportRequest) (*ExportResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}
	calendar, err := s.scheduler.Calendar(ctx, dto.CalendarRequest{From: req.From, To: req.To})
	if err != nil {
		return nil, err
	}

	table := export.Table{Headers: []string{"Date", "Person", "Kind", "Reason"}}
	for _, day := range calendar.Days {
		row := map[string]string{"Date": day.Date, "Person": "", "Kind": "", "Reason": ""}
		switch {
		case day.Suspended:
			row["Kind"] = "suspended"
		case day.PersonName != nil:
			row["Person"] = *day.PersonName
			row["Kind"] = string(*day.Kind)
		}
		if day.Reason != nil {
			row["Reason"] = *day.Reason
		}
		table.Rows = append(table.Rows, row)
	}

	filename := fmt.Sprintf("duty-schedule-%s-%s", calendar.From, calendar.To)
	if req.Format == ExportFormatPDF {
		data, err := s.pdf.Render(table, fmt.Sprintf("Duty Schedule %s to %s", calendar.From, calendar.To))
		if err != nil {
			return nil, fmt.Errorf("render pdf: %w", err)
		}
		return &ExportResult{ContentType: "application/pdf", Filename: filename + ".pdf", Data: data}, nil
	}
	data, err := s.csv.Render(table)
	if err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}
	return &ExportResult{ContentType: "text/csv", Filename: filename + ".csv", Data: data}, nil
}
