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

// RosterManager is the roster surface the handler consumes.
type RosterManager interface {
	List(ctx context.Context, activeOnly bool) ([]models.Person, error)
	Get(ctx context.Context, id string) (*models.Person, error)
	Create(ctx context.Context, req dto.CreatePersonRequest) (*models.Person, error)
	Update(ctx context.Context, id string, req dto.UpdatePersonRequest) (*models.Person, error)
	Move(ctx context.Context, id string, req dto.MovePersonRequest) error
	Delete(ctx context.Context, id string) (*dto.DeletePersonResponse, error)
}

// PersonHandler exposes roster management endpoints.
type PersonHandler struct {
	roster RosterManager
	logger *zap.Logger
}

// NewPersonHandler constructs the person handler.
func NewPersonHandler(roster RosterManager, logger *zap.Logger) *PersonHandler {
	return &PersonHandler{roster: roster, logger: logger}
}

// List godoc
// @Summary List roster members
// @Tags people
// @Produce json
// @Param active query bool false "active members only"
// @Success 200 {object} response.Envelope{data=[]models.Person}
// @Router /people [get]
func (h *PersonHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	people, err := h.roster.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, people, nil)
}

// Get godoc
// @Summary Fetch one roster member
// @Tags people
// @Produce json
// @Param id path string true "person id"
// @Success 200 {object} response.Envelope{data=models.Person}
// @Router /people/{id} [get]
func (h *PersonHandler) Get(c *gin.Context) {
	person, err := h.roster.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, person, nil)
}

// Create godoc
// @Summary Add a roster member
// @Tags people
// @Accept json
// @Produce json
// @Param request body dto.CreatePersonRequest true "person"
// @Success 201 {object} response.Envelope{data=models.Person}
// @Router /people [post]
func (h *PersonHandler) Create(c *gin.Context) {
	var req dto.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid person payload"))
		return
	}
	person, err := h.roster.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, person)
}

// Update godoc
// @Summary Edit a roster member
// @Tags people
// @Accept json
// @Produce json
// @Param id path string true "person id"
// @Param request body dto.UpdatePersonRequest true "changes"
// @Success 200 {object} response.Envelope{data=models.Person}
// @Router /people/{id} [put]
func (h *PersonHandler) Update(c *gin.Context) {
	var req dto.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid person payload"))
		return
	}
	person, err := h.roster.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, person, nil)
}

// Move godoc
// @Summary Shift a member one slot in rotation order
// @Tags people
// @Accept json
// @Param id path string true "person id"
// @Param request body dto.MovePersonRequest true "direction"
// @Success 204
// @Router /people/{id}/move [post]
func (h *PersonHandler) Move(c *gin.Context) {
	var req dto.MovePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid move payload"))
		return
	}
	if err := h.roster.Move(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Remove a member and their records
// @Tags people
// @Produce json
// @Param id path string true "person id"
// @Success 200 {object} response.Envelope{data=dto.DeletePersonResponse}
// @Router /people/{id} [delete]
func (h *PersonHandler) Delete(c *gin.Context) {
	result, err := h.roster.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
