package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dutyops/duty-roster-api/internal/dto"
	appErrors "github.com/dutyops/duty-roster-api/pkg/errors"
	"github.com/dutyops/duty-roster-api/pkg/response"
)

// ScheduleReader is the read-side schedule surface the handler consumes.
type ScheduleReader interface {
	Snapshot(ctx context.Context) (*dto.ScheduleSnapshot, error)
	Calendar(ctx context.Context, req dto.CalendarRequest) (*dto.CalendarResponse, error)
	Today(ctx context.Context) (*dto.TodayResponse, error)
	GetConfig(ctx context.Context) (*dto.ConfigResponse, error)
	UpdateConfig(ctx context.Context, req dto.UpdateConfigRequest) (*dto.ConfigResponse, error)
}

// ScheduleHandler exposes the schedule read endpoints and settings.
type ScheduleHandler struct {
	schedule ScheduleReader
	logger   *zap.Logger
}

// NewScheduleHandler constructs the schedule handler.
func NewScheduleHandler(schedule ScheduleReader, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule, logger: logger}
}

// Snapshot godoc
// @Summary Full schedule state
// @Tags schedule
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.ScheduleSnapshot}
// @Router /schedule [get]
func (h *ScheduleHandler) Snapshot(c *gin.Context) {
	snapshot, err := h.schedule.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Calendar godoc
// @Summary Resolved calendar for a date range
// @Tags schedule
// @Produce json
// @Param from query string false "start day (YYYY-MM-DD)"
// @Param to query string false "end day (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope{data=dto.CalendarResponse}
// @Router /schedule/calendar [get]
func (h *ScheduleHandler) Calendar(c *gin.Context) {
	var req dto.CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid calendar query"))
		return
	}
	calendar, err := h.schedule.Calendar(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendar, nil)
}

// Today godoc
// @Summary Today's duty with a one-week lookahead
// @Tags schedule
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.TodayResponse}
// @Router /schedule/today [get]
func (h *ScheduleHandler) Today(c *gin.Context) {
	today, err := h.schedule.Today(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, today, nil)
}

// GetConfig godoc
// @Summary Schedule settings
// @Tags schedule
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.ConfigResponse}
// @Router /schedule/config [get]
func (h *ScheduleHandler) GetConfig(c *gin.Context) {
	cfg, err := h.schedule.GetConfig(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}

// UpdateConfig godoc
// @Summary Update schedule settings
// @Tags schedule
// @Accept json
// @Produce json
// @Param request body dto.UpdateConfigRequest true "settings"
// @Success 200 {object} response.Envelope{data=dto.ConfigResponse}
// @Router /schedule/config [put]
func (h *ScheduleHandler) UpdateConfig(c *gin.Context) {
	var req dto.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid settings payload"))
		return
	}
	cfg, err := h.schedule.UpdateConfig(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}
