package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dutyops/duty-roster-api/internal/dto"
	"github.com/dutyops/duty-roster-api/internal/models"
	appErrors "github.com/dutyops/duty-roster-api/pkg/errors"
)

// RosterService manages the rotation roster: membership, ordering and
// activation state.
type RosterService struct {
	people    PersonStore
	scheduler *ScheduleService
	notifier  ChangeNotifier
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewRosterService constructs the roster service.
func NewRosterService(people PersonStore, scheduler *ScheduleService, notifier ChangeNotifier, validate *validator.Validate, logger *zap.Logger) *RosterService {
	return &RosterService{
		people:    people,
		scheduler: scheduler,
		notifier:  notifier,
		validate:  validate,
		logger:    logger,
	}
}

// List returns roster members ordered by rotation position.
func (s *RosterService) List(ctx context.Context, activeOnly bool) ([]models.Person, error) {
	return s.people.List(ctx, models.PersonFilter{ActiveOnly: activeOnly})
}

// Get fetches one member.
func (s *RosterService) Get(ctx context.Context, id string) (*models.Person, error) {
	person, err := s.people.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
	}
	return person, nil
}

// Create appends a new member to the end of the rotation order.
func (s *RosterService) Create(ctx context.Context, req dto.CreatePersonRequest) (*models.Person, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid person")
	}
	person := &models.Person{
		Name:     req.Name,
		IsActive: true,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if err := s.people.Create(ctx, person); err != nil {
		return nil, err
	}
	s.changed(ctx)
	s.logger.Info("person added", zap.String("person_id", person.ID), zap.String("name", person.Name))
	return person, nil
}

// Update edits a member. Deactivating removes them from rotation from now
// on; their override records stay in place.
func (s *RosterService) Update(ctx context.Context, id string, req dto.UpdatePersonRequest) (*models.Person, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid person update")
	}
	person, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		person.Name = *req.Name
	}
	if req.Email != nil {
		person.Email = req.Email
	}
	if req.Phone != nil {
		person.Phone = req.Phone
	}
	if req.IsActive != nil {
		person.IsActive = *req.IsActive
	}
	if err := s.people.Update(ctx, person); err != nil {
		return nil, err
	}
	s.changed(ctx)
	return person, nil
}

// Move shifts a member one slot up or down in rotation order by swapping
// order indexes with the adjacent member. Moving past either end is a
// no-op.
func (s *RosterService) Move(ctx context.Context, id string, req dto.MovePersonRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move request")
	}
	people, err := s.people.List(ctx, models.PersonFilter{})
	if err != nil {
		return err
	}
	pos := -1
	for i := range people {
		if people[i].ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "person not found")
	}

	other := pos - 1
	if req.Direction == "down" {
		other = pos + 1
	}
	if other < 0 || other >= len(people) {
		return nil
	}
	if err := s.people.SwapOrder(ctx, &people[pos], &people[other]); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

// Delete removes a member and cascades to every record referencing them.
func (s *RosterService) Delete(ctx context.Context, id string) (*dto.DeletePersonResponse, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	removed, err := s.people.DeleteCascade(ctx, id)
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	s.logger.Info("person removed", zap.String("person_id", id), zap.Int64("records_removed", removed))
	return &dto.DeletePersonResponse{PersonID: id, RecordsRemoved: removed}, nil
}

func (s *RosterService) changed(ctx context.Context) {
	if s.scheduler != nil {
		s.scheduler.Invalidate(ctx)
	}
	s.notifier.ScheduleUpdated(ctx)
}
