package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dutyops/duty-roster-api/internal/dto"
	"github.com/dutyops/duty-roster-api/internal/models"
	"github.com/dutyops/duty-roster-api/internal/repository"
	"github.com/dutyops/duty-roster-api/internal/rota"
	"github.com/dutyops/duty-roster-api/pkg/config"
	appErrors "github.com/dutyops/duty-roster-api/pkg/errors"
)

// AssignmentService implements the write side of the schedule: manual
// assignment, swap, replacement, suspension and bulk generation. Every
// mutation goes through the delete-then-insert path so a date never holds
// two records.
type AssignmentService struct {
	people    PersonStore
	records   RecordStore
	settings  SettingsStore
	scheduler *ScheduleService
	notifier  ChangeNotifier
	validate  *validator.Validate
	logger    *zap.Logger

	defaultStartDate string
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(
	people PersonStore,
	records RecordStore,
	settings SettingsStore,
	scheduler *ScheduleService,
	notifier ChangeNotifier,
	cfg *config.Config,
	validate *validator.Validate,
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		people:           people,
		records:          records,
		settings:         settings,
		scheduler:        scheduler,
		notifier:         notifier,
		validate:         validate,
		logger:           logger,
		defaultStartDate: cfg.Roster.DefaultStartDate,
	}
}

// Assign sets a manual assignment for one date, replacing whatever record
// the date held. Rule violations reject the request unless Force is set.
func (s *AssignmentService) Assign(ctx context.Context, req dto.AssignRequest, actor *string) (*models.DutyRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment request")
	}
	state, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}
	person, err := s.activePerson(ctx, req.PersonID)
	if err != nil {
		return nil, err
	}

	if !req.Force {
		rules, err := s.settings.GetRules(ctx)
		if err != nil {
			return nil, err
		}
		if warnings := s.ruleWarnings(state, req.Date, person.ID, rules); len(warnings) > 0 {
			return nil, appErrors.New("RULE_VIOLATION", appErrors.ErrConflict.Status, strings.Join(warnings, "; "))
		}
	}

	// Apply fills ID and CreatedAt in place, so hand back the stored slot.
	inserts := []models.DutyRecord{{
		Date:       req.Date,
		PersonID:   &person.ID,
		PersonName: &person.Name,
		Kind:       models.KindManual,
		Reason:     req.Reason,
		CreatedBy:  actor,
	}}
	if err := s.records.Apply(ctx, []string{req.Date}, inserts); err != nil {
		return nil, err
	}
	s.afterMutation(ctx)
	s.notifier.RecordAdded(ctx, inserts[0])
	s.logger.Info("manual assignment",
		zap.String("date", req.Date),
		zap.String("person_id", person.ID))
	return &inserts[0], nil
}

// Replace substitutes a stand-in for whoever is scheduled on the date. The
// replaced person is kept as provenance on the record.
func (s *AssignmentService) Replace(ctx context.Context, req dto.ReplaceRequest, actor *string) (*models.DutyRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid replacement request")
	}
	state, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}
	current := rota.Resolve(state.startDate, req.Date, state.roster, state.set)
	if current == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("no duty to replace on %s", req.Date))
	}
	person, err := s.activePerson(ctx, req.PersonID)
	if err != nil {
		return nil, err
	}
	if person.ID == current.PersonID {
		return nil, appErrors.Clone(appErrors.ErrConflict, "replacement person already holds the duty")
	}

	original := current.PersonID
	inserts := []models.DutyRecord{{
		Date:             req.Date,
		PersonID:         &person.ID,
		PersonName:       &person.Name,
		Kind:             models.KindReplacement,
		OriginalPersonID: &original,
		Reason:           req.Reason,
		CreatedBy:        actor,
	}}
	if err := s.records.Apply(ctx, []string{req.Date}, inserts); err != nil {
		return nil, err
	}
	s.afterMutation(ctx)
	s.notifier.RecordAdded(ctx, inserts[0])
	return &inserts[0], nil
}

// Suspend marks a date or inclusive range as duty-free. Dates already
// suspended are left untouched; any other record on a date is displaced.
func (s *AssignmentService) Suspend(ctx context.Context, req dto.SuspendRequest, actor *string) (*dto.SuspendResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid suspension request")
	}
	end := req.StartDate
	if req.EndDate != nil {
		end = *req.EndDate
	}
	dates, err := rota.DayRangeInclusive(req.StartDate, end)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid suspension range")
	}
	state, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	var deletes []string
	var inserts []models.DutyRecord
	var touched []string
	for _, date := range dates {
		if state.set.IsSuspended(date) {
			continue
		}
		deletes = append(deletes, date)
		inserts = append(inserts, models.DutyRecord{
			Date:      date,
			Kind:      models.KindSuspended,
			Reason:    req.Reason,
			CreatedBy: actor,
		})
		touched = append(touched, date)
	}
	if len(inserts) > 0 {
		if err := s.records.Apply(ctx, deletes, inserts); err != nil {
			return nil, err
		}
		s.afterMutation(ctx)
		s.notifier.ScheduleUpdated(ctx)
	}
	return &dto.SuspendResponse{Dates: touched}, nil
}

// Resume restores one date to plain rotation by deleting whatever record
// it holds, suspension or otherwise. A date with no record is already in
// rotation, so nothing changes but listeners are still told.
func (s *AssignmentService) Resume(ctx context.Context, req dto.ResumeRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resume request")
	}
	deleted, err := s.records.DeleteByDate(ctx, req.Date)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.afterMutation(ctx)
	}
	s.notifier.RecordDeleted(ctx, req.Date)
	return nil
}

// RemoveMany deletes the records on every given date, restoring each to
// plain rotation. Dates without a record are counted as already clean.
func (s *AssignmentService) RemoveMany(ctx context.Context, req dto.BulkDeleteRequest) (*dto.BulkDeleteResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk delete request")
	}
	deleted := 0
	for _, date := range req.Dates {
		n, err := s.records.DeleteByDate(ctx, date)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			deleted++
			s.notifier.RecordDeleted(ctx, date)
		}
	}
	if deleted > 0 {
		s.afterMutation(ctx)
	}
	s.logger.Info("bulk record delete",
		zap.Int("requested", len(req.Dates)),
		zap.Int("deleted", deleted))
	return &dto.BulkDeleteResponse{Requested: len(req.Dates), Deleted: deleted}, nil
}

// Swap exchanges the duties of two dates. Provenance is flattened one hop:
// swapping an already-swapped date points back at that date's true original
// holder, never at a chain of swaps.
func (s *AssignmentService) Swap(ctx context.Context, req dto.SwapRequest, actor *string) (*dto.SwapResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid swap request")
	}
	state, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	a1 := rota.Resolve(state.startDate, req.Date1, state.roster, state.set)
	a2 := rota.Resolve(state.startDate, req.Date2, state.roster, state.set)
	if a1 == nil || a2 == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "both dates must have an assigned duty to swap")
	}
	if a1.PersonID == a2.PersonID {
		return nil, appErrors.Clone(appErrors.ErrConflict, "both dates are held by the same person")
	}

	inserts := make([]models.DutyRecord, 0, 2)
	if rec := s.swapRecord(state, req.Date1, a2, a1, req.Reason, actor); rec != nil {
		inserts = append(inserts, *rec)
	}
	if rec := s.swapRecord(state, req.Date2, a1, a2, req.Reason, actor); rec != nil {
		inserts = append(inserts, *rec)
	}
	if err := s.records.Apply(ctx, []string{req.Date1, req.Date2}, inserts); err != nil {
		return nil, err
	}
	s.afterMutation(ctx)
	s.notifier.ScheduleUpdated(ctx)

	summary := fmt.Sprintf("%s (%s) <-> %s (%s)", req.Date1, a2.PersonName, req.Date2, a1.PersonName)
	s.logger.Info("duty swap", zap.String("summary", summary))
	return &dto.SwapResponse{Summary: summary, Records: inserts}, nil
}

// swapRecord builds the record landing on date after the swap, where
// incoming is the person arriving and outgoing the person leaving. Returns
// nil when the incoming person is exactly the date's plain rotation result,
// so no record is needed at all.
func (s *AssignmentService) swapRecord(state *scheduleState, date string, incoming, outgoing *rota.Assignment, reason, actor *string) *models.DutyRecord {
	trueOriginal := s.trueOriginal(state, date, outgoing)

	if incoming.PersonID == trueOriginal.PersonID {
		// The swap restores the date's true holder. A reconstructed holder
		// keeps the record that named it, so the reason survives the round
		// trip.
		if trueOriginal.Kind == models.KindManual {
			var restoredReason *string
			if rec := trueOriginal.Record; rec != nil {
				restoredReason = rec.Reason
			}
			return &models.DutyRecord{
				Date:       date,
				PersonID:   &incoming.PersonID,
				PersonName: &incoming.PersonName,
				Kind:       models.KindManual,
				Reason:     restoredReason,
				CreatedBy:  actor,
			}
		}
		return nil
	}

	original := trueOriginal.PersonID
	return &models.DutyRecord{
		Date:             date,
		PersonID:         &incoming.PersonID,
		PersonName:       &incoming.PersonName,
		Kind:             models.KindSwap,
		OriginalPersonID: &original,
		Reason:           reason,
		CreatedBy:        actor,
	}
}

// trueOriginal reconstructs who genuinely belongs to the date before any
// swap: a swap record yields its recorded original holder, treated as a
// manual assignment carrying the swap's reason; a manual record stands
// as-is; no record falls back to plain rotation.
func (s *AssignmentService) trueOriginal(state *scheduleState, date string, current *rota.Assignment) *rota.Assignment {
	rec := current.Record
	if rec == nil {
		return current
	}
	if rec.Kind == models.KindSwap && rec.OriginalPersonID != nil {
		id := *rec.OriginalPersonID
		name := id
		for _, p := range state.people {
			if p.ID == id {
				name = p.Name
				break
			}
		}
		return &rota.Assignment{PersonID: id, PersonName: name, Kind: models.KindManual, Record: rec}
	}
	return current
}

// Generate materializes rotation records over an inclusive range using its
// own round-robin counter. With RespectExisting, dates that already hold a
// record are skipped without advancing the counter; otherwise the range is
// wiped and rewritten.
func (s *AssignmentService) Generate(ctx context.Context, req dto.GenerateRequest, actor *string) (*dto.GenerateResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation request")
	}
	if req.EndDate < req.StartDate {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date precedes start_date")
	}
	state, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}
	if len(state.roster) == 0 {
		return nil, appErrors.ErrEmptyRoster
	}
	dates, err := rota.DayRangeInclusive(req.StartDate, req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid generation range")
	}

	var deletes []string
	var inserts []models.DutyRecord
	skipped := 0
	counter := 0
	for _, date := range dates {
		if req.RespectExisting && state.set.ByDate(date) != nil {
			skipped++
			continue
		}
		person := state.roster[counter%len(state.roster)]
		counter++
		deletes = append(deletes, date)
		inserts = append(inserts, models.DutyRecord{
			Date:       date,
			PersonID:   &person.ID,
			PersonName: &person.Name,
			Kind:       models.KindAuto,
			CreatedBy:  actor,
		})
	}
	if len(inserts) > 0 {
		if err := s.records.Apply(ctx, deletes, inserts); err != nil {
			return nil, err
		}
		s.afterMutation(ctx)
		s.notifier.ScheduleUpdated(ctx)
	}
	s.logger.Info("schedule generated",
		zap.String("from", req.StartDate),
		zap.String("to", req.EndDate),
		zap.Int("created", len(inserts)),
		zap.Int("skipped", skipped))
	return &dto.GenerateResponse{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Created:   len(inserts),
		Skipped:   skipped,
	}, nil
}

// Cleanup purges records whose person no longer exists.
func (s *AssignmentService) Cleanup(ctx context.Context) (*dto.CleanupResponse, error) {
	removed, err := s.records.DeleteOrphans(ctx)
	if err != nil {
		return nil, err
	}
	if removed > 0 {
		s.afterMutation(ctx)
		s.notifier.ScheduleUpdated(ctx)
	}
	return &dto.CleanupResponse{Removed: removed}, nil
}

func (s *AssignmentService) loadState(ctx context.Context) (*scheduleState, error) {
	return loadState(ctx, s.people, s.records, s.settings, s.defaultStartDate)
}

func (s *AssignmentService) activePerson(ctx context.Context, id string) (*models.Person, error) {
	person, err := s.people.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
	}
	if !person.IsActive {
		return nil, appErrors.Clone(appErrors.ErrConflict, "person is not on the active roster")
	}
	return person, nil
}

func (s *AssignmentService) afterMutation(ctx context.Context) {
	if s.scheduler != nil {
		s.scheduler.Invalidate(ctx)
	}
	if err := s.settings.Set(ctx, repository.ConfigKeyLastUpdated, nowRFC3339()); err != nil {
		s.logger.Warn("stamp last_updated", zap.Error(err))
	}
}

// ruleWarnings evaluates the advisory duty rules for placing personID on
// date: maximum consecutive duty days and minimum rest days between duties.
func (s *AssignmentService) ruleWarnings(state *scheduleState, date, personID string, rules models.DutyRules) []string {
	var warnings []string

	holds := func(d string) bool {
		if d == date {
			return true
		}
		a := rota.Resolve(state.startDate, d, state.roster, state.set)
		return a != nil && a.PersonID == personID
	}

	if rules.MaxConsecutiveDays > 0 {
		streak := 1
		for d, err := rota.AddDays(date, -1); err == nil && holds(d); d, err = rota.AddDays(d, -1) {
			streak++
		}
		for d, err := rota.AddDays(date, 1); err == nil && holds(d); d, err = rota.AddDays(d, 1) {
			streak++
		}
		if streak > rules.MaxConsecutiveDays {
			warnings = append(warnings, fmt.Sprintf("%d consecutive duty days exceeds the limit of %d", streak, rules.MaxConsecutiveDays))
		}
	}

	if rules.MinRestDays > 0 {
		for gap := 1; gap <= rules.MinRestDays; gap++ {
			prev, err := rota.AddDays(date, -(gap + 1))
			if err != nil {
				break
			}
			between, err := rota.AddDays(date, -gap)
			if err != nil {
				break
			}
			if holds(prev) && !holds(between) {
				warnings = append(warnings, fmt.Sprintf("only %d rest day(s) since the previous duty, %d required", gap, rules.MinRestDays))
				break
			}
		}
	}

	return warnings
}
