package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dutyops/duty-roster-api/internal/dto"
	"github.com/dutyops/duty-roster-api/internal/service"
	appErrors "github.com/dutyops/duty-roster-api/pkg/errors"
	"github.com/dutyops/duty-roster-api/pkg/response"
)

// ScheduleExporter renders the schedule for download.
type ScheduleExporter interface {
	Schedule(ctx context.Context, req dto.ExportRequest) (*service.ExportResult, error)
}

// ExportHandler exposes schedule downloads.
type ExportHandler struct {
	exporter ScheduleExporter
	logger   *zap.Logger
}

// NewExportHandler constructs the export handler.
func NewExportHandler(exporter ScheduleExporter, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exporter: exporter, logger: logger}
}

// Schedule godoc
// @Summary Download the resolved schedule as CSV or PDF
// @Tags export
// @Param from query string false "start day (YYYY-MM-DD)"
// @Param to query string false "end day (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" default(csv)
// @Router /export/schedule [get]
func (h *ExportHandler) Schedule(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid export query"))
		return
	}
	result, err := h.exporter.Schedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(200, result.ContentType, result.Data)
}
