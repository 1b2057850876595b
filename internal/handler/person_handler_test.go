package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/dutyops/duty-roster-api/internal/dto"
	"github.com/dutyops/duty-roster-api/internal/models"
	appErrors "github.com/dutyops/duty-roster-api/pkg/errors"
)

type stubRoster struct {
	people  []models.Person
	getErr  error
	lastMov dto.MovePersonRequest
	movedID string
}

func (s *stubRoster) List(context.Context, bool) ([]models.Person, error) { return s.people, nil }

func (s *stubRoster) Get(_ context.Context, id string) (*models.Person, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &models.Person{ID: id, Name: "Alice"}, nil
}

func (s *stubRoster) Create(_ context.Context, req dto.CreatePersonRequest) (*models.Person, error) {
	return &models.Person{ID: "p-new", Name: req.Name, IsActive: true}, nil
}

func (s *stubRoster) Update(_ context.Context, id string, _ dto.UpdatePersonRequest) (*models.Person, error) {
	return &models.Person{ID: id}, nil
}

func (s *stubRoster) Move(_ context.Context, id string, req dto.MovePersonRequest) error {
	s.movedID = id
	s.lastMov = req
	return nil
}

func (s *stubRoster) Delete(_ context.Context, id string) (*dto.DeletePersonResponse, error) {
	return &dto.DeletePersonResponse{PersonID: id, RecordsRemoved: 1}, nil
}

func newPersonRouter(stub *stubRoster) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewPersonHandler(stub, zap.NewNop())
	engine.GET("/people", h.List)
	engine.GET("/people/:id", h.Get)
	engine.POST("/people", h.Create)
	engine.PUT("/people/:id", h.Update)
	engine.POST("/people/:id/move", h.Move)
	engine.DELETE("/people/:id", h.Delete)
	return engine
}

func TestListPeopleEndpoint(t *testing.T) {
	stub := &stubRoster{people: []models.Person{{ID: "p1", Name: "Alice"}}}
	engine := newPersonRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/people", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alice")
}

func TestGetPersonNotFound(t *testing.T) {
	stub := &stubRoster{getErr: appErrors.ErrNotFound}
	engine := newPersonRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/people/ghost", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePersonEndpoint(t *testing.T) {
	engine := newPersonRouter(&stubRoster{})

	rec := performJSON(t, engine, http.MethodPost, "/people", dto.CreatePersonRequest{Name: "Carol"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Carol")
}

func TestMovePersonEndpoint(t *testing.T) {
	stub := &stubRoster{}
	engine := newPersonRouter(stub)

	rec := performJSON(t, engine, http.MethodPost, "/people/p2/move", dto.MovePersonRequest{Direction: "up"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "p2", stub.movedID)
	assert.Equal(t, "up", stub.lastMov.Direction)
}

func TestDeletePersonEndpoint(t *testing.T) {
	engine := newPersonRouter(&stubRoster{})

	rec := performJSON(t, engine, http.MethodDelete, "/people/p1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"records_removed":1`)
}
