package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dutyops/duty-roster-api/internal/dto"
	"github.com/dutyops/duty-roster-api/internal/models"
	appErrors "github.com/dutyops/duty-roster-api/pkg/errors"
	"github.com/dutyops/duty-roster-api/pkg/response"
)

// AssignmentWriter is the write-side schedule surface the handler consumes.
type AssignmentWriter interface {
	Assign(ctx context.Context, req dto.AssignRequest, actor *string) (*models.DutyRecord, error)
	Replace(ctx context.Context, req dto.ReplaceRequest, actor *string) (*models.DutyRecord, error)
	Suspend(ctx context.Context, req dto.SuspendRequest, actor *string) (*dto.SuspendResponse, error)
	Resume(ctx context.Context, req dto.ResumeRequest) error
	RemoveMany(ctx context.Context, req dto.BulkDeleteRequest) (*dto.BulkDeleteResponse, error)
	Swap(ctx context.Context, req dto.SwapRequest, actor *string) (*dto.SwapResponse, error)
	Generate(ctx context.Context, req dto.GenerateRequest, actor *string) (*dto.GenerateResponse, error)
	Cleanup(ctx context.Context) (*dto.CleanupResponse, error)
}

// AssignmentHandler exposes the schedule mutation endpoints.
type AssignmentHandler struct {
	assignments AssignmentWriter
	logger      *zap.Logger
}

// NewAssignmentHandler constructs the assignment handler.
func NewAssignmentHandler(assignments AssignmentWriter, logger *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, logger: logger}
}

// Assign godoc
// @Summary Manually assign a person to a date
// @Tags assignments
// @Accept json
// @Produce json
// @Param request body dto.AssignRequest true "assignment"
// @Success 201 {object} response.Envelope{data=models.DutyRecord}
// @Router /assignments [post]
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid assignment payload"))
		return
	}
	record, err := h.assignments.Assign(c.Request.Context(), req, ActorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Replace godoc
// @Summary Replace the scheduled person on a date
// @Tags assignments
// @Accept json
// @Produce json
// @Param request body dto.ReplaceRequest true "replacement"
// @Success 201 {object} response.Envelope{data=models.DutyRecord}
// @Router /assignments/replace [post]
func (h *AssignmentHandler) Replace(c *gin.Context) {
	var req dto.ReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid replacement payload"))
		return
	}
	record, err := h.assignments.Replace(c.Request.Context(), req, ActorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Swap godoc
// @Summary Swap the duties of two dates
// @Tags assignments
// @Accept json
// @Produce json
// @Param request body dto.SwapRequest true "swap"
// @Success 200 {object} response.Envelope{data=dto.SwapResponse}
// @Router /assignments/swap [post]
func (h *AssignmentHandler) Swap(c *gin.Context) {
	var req dto.SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid swap payload"))
		return
	}
	result, err := h.assignments.Swap(c.Request.Context(), req, ActorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Suspend godoc
// @Summary Suspend duty on a date or range
// @Tags assignments
// @Accept json
// @Produce json
// @Param request body dto.SuspendRequest true "suspension"
// @Success 200 {object} response.Envelope{data=dto.SuspendResponse}
// @Router /assignments/suspend [post]
func (h *AssignmentHandler) Suspend(c *gin.Context) {
	var req dto.SuspendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid suspension payload"))
		return
	}
	result, err := h.assignments.Suspend(c.Request.Context(), req, ActorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Resume godoc
// @Summary Restore a date to plain rotation
// @Tags assignments
// @Param date path string true "day (YYYY-MM-DD)"
// @Success 204
// @Router /assignments/{date} [delete]
func (h *AssignmentHandler) Resume(c *gin.Context) {
	req := dto.ResumeRequest{Date: c.Param("date")}
	if err := h.assignments.Resume(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RemoveMany godoc
// @Summary Restore a batch of dates to plain rotation
// @Tags assignments
// @Accept json
// @Produce json
// @Param request body dto.BulkDeleteRequest true "dates to clear"
// @Success 200 {object} response.Envelope{data=dto.BulkDeleteResponse}
// @Router /assignments [delete]
func (h *AssignmentHandler) RemoveMany(c *gin.Context) {
	var req dto.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid bulk delete payload"))
		return
	}
	result, err := h.assignments.RemoveMany(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Generate godoc
// @Summary Materialize rotation records over a range
// @Tags assignments
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequest true "generation range"
// @Success 200 {object} response.Envelope{data=dto.GenerateResponse}
// @Router /assignments/generate [post]
func (h *AssignmentHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid generation payload"))
		return
	}
	result, err := h.assignments.Generate(c.Request.Context(), req, ActorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Cleanup godoc
// @Summary Purge records referencing deleted people
// @Tags assignments
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.CleanupResponse}
// @Router /assignments/cleanup [post]
func (h *AssignmentHandler) Cleanup(c *gin.Context) {
	result, err := h.assignments.Cleanup(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
