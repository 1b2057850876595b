package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dutyops/duty-roster-api/internal/dto"
	"github.com/dutyops/duty-roster-api/internal/models"
	appErrors "github.com/dutyops/duty-roster-api/pkg/errors"
)

func strp(s string) *string { return &s }

func TestAssignWritesManualRecord(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob", "Carol")

	record, err := f.assign.Assign(context.Background(), dto.AssignRequest{
		Date:     "2026-01-10",
		PersonID: "p2",
		Reason:   strp("coverage"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.KindManual, record.Kind)
	assert.Equal(t, "Bob", *record.PersonName)
	// The returned record is the stored one, IDs and timestamps included.
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())

	stored, err := f.records.GetByDate(context.Background(), "2026-01-10")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.KindManual, stored.Kind)
	assert.Equal(t, record.ID, stored.ID)
	require.Len(t, f.notifier.added, 1)
	assert.Equal(t, record.ID, f.notifier.added[0].ID)
}

func TestAssignReplacesExistingRecord(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob", "Carol")

	_, err := f.assign.Assign(context.Background(), dto.AssignRequest{Date: "2026-01-10", PersonID: "p2"}, nil)
	require.NoError(t, err)
	_, err = f.assign.Assign(context.Background(), dto.AssignRequest{Date: "2026-01-10", PersonID: "p3", Force: true}, nil)
	require.NoError(t, err)

	stored, err := f.records.GetByDate(context.Background(), "2026-01-10")
	require.NoError(t, err)
	assert.Equal(t, "p3", *stored.PersonID)
}

func TestAssignRejectsRuleViolationUnlessForced(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob", "Carol")
	require.NoError(t, f.settings.SetRules(context.Background(), models.DutyRules{MaxConsecutiveDays: 1}))

	// Bob already holds 2026-01-02 by rotation; assigning him 2026-01-01
	// makes a 2-day streak.
	_, err := f.assign.Assign(context.Background(), dto.AssignRequest{Date: "2026-01-01", PersonID: "p2"}, nil)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "RULE_VIOLATION", appErr.Code)

	_, err = f.assign.Assign(context.Background(), dto.AssignRequest{Date: "2026-01-01", PersonID: "p2", Force: true}, nil)
	require.NoError(t, err)
}

func TestAssignUnknownPerson(t *testing.T) {
	f := newFixture("2026-01-01", "Alice")

	_, err := f.assign.Assign(context.Background(), dto.AssignRequest{Date: "2026-01-05", PersonID: "ghost", Force: true}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSuspendRangeSkipsAlreadySuspended(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob")

	resp, err := f.assign.Suspend(context.Background(), dto.SuspendRequest{
		StartDate: "2026-01-02",
		EndDate:   strp("2026-01-04"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-02", "2026-01-03", "2026-01-04"}, resp.Dates)

	resp, err = f.assign.Suspend(context.Background(), dto.SuspendRequest{
		StartDate: "2026-01-03",
		EndDate:   strp("2026-01-05"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-05"}, resp.Dates)
}

func TestSuspensionShiftsRotationCadence(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob")

	_, err := f.assign.Suspend(context.Background(), dto.SuspendRequest{StartDate: "2026-01-02"}, nil)
	require.NoError(t, err)

	cal, err := f.scheduler.Calendar(context.Background(), dto.CalendarRequest{From: "2026-01-01", To: "2026-01-03"})
	require.NoError(t, err)
	require.Len(t, cal.Days, 3)
	assert.Equal(t, "Alice", *cal.Days[0].PersonName)
	assert.Nil(t, cal.Days[1].PersonID)
	assert.True(t, cal.Days[1].Suspended)
	// The suspended day does not consume Bob's turn.
	assert.Equal(t, "Bob", *cal.Days[2].PersonName)
}

func TestResume(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob")
	ctx := context.Background()

	_, err := f.assign.Suspend(ctx, dto.SuspendRequest{StartDate: "2026-01-02"}, nil)
	require.NoError(t, err)
	require.NoError(t, f.assign.Resume(ctx, dto.ResumeRequest{Date: "2026-01-02"}))
	assert.Equal(t, []string{"2026-01-02"}, f.notifier.deleted)

	// Resuming a clean date stays successful; listeners hear about it so
	// stale views refresh either way.
	require.NoError(t, f.assign.Resume(ctx, dto.ResumeRequest{Date: "2026-01-02"}))
	assert.Equal(t, []string{"2026-01-02", "2026-01-02"}, f.notifier.deleted)
}

func TestResumeClearsAnyRecordKind(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob")
	ctx := context.Background()

	_, err := f.assign.Assign(ctx, dto.AssignRequest{Date: "2026-01-05", PersonID: "p1", Force: true}, nil)
	require.NoError(t, err)

	require.NoError(t, f.assign.Resume(ctx, dto.ResumeRequest{Date: "2026-01-05"}))
	stored, err := f.records.GetByDate(ctx, "2026-01-05")
	require.NoError(t, err)
	assert.Nil(t, stored)

	// The date falls back to plain rotation.
	cal, err := f.scheduler.Calendar(ctx, dto.CalendarRequest{From: "2026-01-05", To: "2026-01-05"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", *cal.Days[0].PersonName)
	assert.False(t, cal.Days[0].HasRecord)
}

func TestRemoveManyClearsRecordedDatesOnly(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob")
	ctx := context.Background()

	_, err := f.assign.Assign(ctx, dto.AssignRequest{Date: "2026-01-05", PersonID: "p2", Force: true}, nil)
	require.NoError(t, err)
	_, err = f.assign.Suspend(ctx, dto.SuspendRequest{StartDate: "2026-01-06"}, nil)
	require.NoError(t, err)

	resp, err := f.assign.RemoveMany(ctx, dto.BulkDeleteRequest{
		Dates: []string{"2026-01-05", "2026-01-06", "2026-01-07"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Requested)
	assert.Equal(t, 2, resp.Deleted)

	for _, date := range []string{"2026-01-05", "2026-01-06"} {
		stored, err := f.records.GetByDate(ctx, date)
		require.NoError(t, err)
		assert.Nil(t, stored)
	}
	assert.Contains(t, f.notifier.deleted, "2026-01-05")
	assert.Contains(t, f.notifier.deleted, "2026-01-06")
	assert.NotContains(t, f.notifier.deleted, "2026-01-07")
}

func TestSwapCreatesPairedRecords(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob", "Carol")

	resp, err := f.assign.Swap(context.Background(), dto.SwapRequest{Date1: "2026-01-01", Date2: "2026-01-02"}, nil)
	require.NoError(t, err)
	require.Len(t, resp.Records, 2)

	day1, _ := f.records.GetByDate(context.Background(), "2026-01-01")
	require.NotNil(t, day1)
	assert.Equal(t, models.KindSwap, day1.Kind)
	assert.Equal(t, "p2", *day1.PersonID)
	assert.Equal(t, "p1", *day1.OriginalPersonID)

	day2, _ := f.records.GetByDate(context.Background(), "2026-01-02")
	require.NotNil(t, day2)
	assert.Equal(t, "p1", *day2.PersonID)
	assert.Equal(t, "p2", *day2.OriginalPersonID)
}

func TestSwapBackPinsOriginalHolders(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob", "Carol")
	ctx := context.Background()

	// Swapping twice lands each date back on its reconstructed holder; the
	// round trip pins that holder with a manual record rather than trusting
	// the swap chain.
	_, err := f.assign.Swap(ctx, dto.SwapRequest{Date1: "2026-01-01", Date2: "2026-01-02"}, nil)
	require.NoError(t, err)
	_, err = f.assign.Swap(ctx, dto.SwapRequest{Date1: "2026-01-01", Date2: "2026-01-02"}, nil)
	require.NoError(t, err)

	day1, _ := f.records.GetByDate(ctx, "2026-01-01")
	require.NotNil(t, day1)
	assert.Equal(t, models.KindManual, day1.Kind)
	assert.Equal(t, "p1", *day1.PersonID)
	day2, _ := f.records.GetByDate(ctx, "2026-01-02")
	require.NotNil(t, day2)
	assert.Equal(t, models.KindManual, day2.Kind)
	assert.Equal(t, "p2", *day2.PersonID)
}

func TestSwapRoundTripRestoresManualAssignment(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob", "Carol")
	ctx := context.Background()

	_, err := f.assign.Assign(ctx, dto.AssignRequest{
		Date:     "2026-01-02",
		PersonID: "p3",
		Reason:   strp("coverage"),
		Force:    true,
	}, nil)
	require.NoError(t, err)

	_, err = f.assign.Swap(ctx, dto.SwapRequest{Date1: "2026-01-01", Date2: "2026-01-02", Reason: strp("trade")}, nil)
	require.NoError(t, err)
	_, err = f.assign.Swap(ctx, dto.SwapRequest{Date1: "2026-01-01", Date2: "2026-01-02"}, nil)
	require.NoError(t, err)

	restored, err := f.records.GetByDate(ctx, "2026-01-02")
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, models.KindManual, restored.Kind)
	assert.Equal(t, "p3", *restored.PersonID)
	require.NotNil(t, restored.Reason)
	assert.Equal(t, "trade", *restored.Reason)

	cal, err := f.scheduler.Calendar(ctx, dto.CalendarRequest{From: "2026-01-01", To: "2026-01-02"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", *cal.Days[0].PersonName)
	assert.Equal(t, "Carol", *cal.Days[1].PersonName)
}

func TestSwapFlattensProvenanceOneHop(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob", "Carol")
	ctx := context.Background()

	// 2026-01-01 is Alice's by rotation. Swap it to Bob, then swap that
	// date with Carol's 2026-01-03: provenance must still point at Alice.
	_, err := f.assign.Swap(ctx, dto.SwapRequest{Date1: "2026-01-01", Date2: "2026-01-02"}, nil)
	require.NoError(t, err)
	_, err = f.assign.Swap(ctx, dto.SwapRequest{Date1: "2026-01-01", Date2: "2026-01-03"}, nil)
	require.NoError(t, err)

	day1, _ := f.records.GetByDate(ctx, "2026-01-01")
	require.NotNil(t, day1)
	assert.Equal(t, "p3", *day1.PersonID)
	assert.Equal(t, "p1", *day1.OriginalPersonID)
}

func TestSwapSamePersonConflicts(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob")

	// Both dates resolve to Alice in a 2-person rotation.
	_, err := f.assign.Swap(context.Background(), dto.SwapRequest{Date1: "2026-01-01", Date2: "2026-01-03"}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSwapSuspendedDateConflicts(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob")
	ctx := context.Background()

	_, err := f.assign.Suspend(ctx, dto.SuspendRequest{StartDate: "2026-01-02"}, nil)
	require.NoError(t, err)
	_, err = f.assign.Swap(ctx, dto.SwapRequest{Date1: "2026-01-01", Date2: "2026-01-02"}, nil)
	require.Error(t, err)
}

func TestReplaceKeepsProvenance(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob", "Carol")

	record, err := f.assign.Replace(context.Background(), dto.ReplaceRequest{
		Date:     "2026-01-02",
		PersonID: "p3",
		Reason:   strp("sick leave"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.KindReplacement, record.Kind)
	assert.Equal(t, "p3", *record.PersonID)
	assert.Equal(t, "p2", *record.OriginalPersonID)
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())
}

func TestReplaceWithCurrentHolderConflicts(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob")

	_, err := f.assign.Replace(context.Background(), dto.ReplaceRequest{Date: "2026-01-01", PersonID: "p1"}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestGenerateRoundRobin(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob", "Carol")

	resp, err := f.assign.Generate(context.Background(), dto.GenerateRequest{
		StartDate: "2026-02-01",
		EndDate:   "2026-02-06",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, resp.Created)
	assert.Equal(t, 0, resp.Skipped)

	// Bulk generation starts its own cycle at the first roster member,
	// regardless of where the live rotation stands.
	want := []string{"p1", "p2", "p3", "p1", "p2", "p3"}
	for i, date := range []string{"2026-02-01", "2026-02-02", "2026-02-03", "2026-02-04", "2026-02-05", "2026-02-06"} {
		rec, _ := f.records.GetByDate(context.Background(), date)
		require.NotNil(t, rec, date)
		assert.Equal(t, models.KindAuto, rec.Kind)
		assert.Equal(t, want[i], *rec.PersonID)
	}
}

func TestGenerateRespectsExistingRecords(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob")
	ctx := context.Background()

	_, err := f.assign.Assign(ctx, dto.AssignRequest{Date: "2026-02-02", PersonID: "p2", Force: true}, nil)
	require.NoError(t, err)

	resp, err := f.assign.Generate(ctx, dto.GenerateRequest{
		StartDate:       "2026-02-01",
		EndDate:         "2026-02-03",
		RespectExisting: true,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, 1, resp.Skipped)

	// Skipped dates do not advance the round-robin counter.
	rec1, _ := f.records.GetByDate(ctx, "2026-02-01")
	assert.Equal(t, "p1", *rec1.PersonID)
	rec2, _ := f.records.GetByDate(ctx, "2026-02-02")
	assert.Equal(t, models.KindManual, rec2.Kind)
	rec3, _ := f.records.GetByDate(ctx, "2026-02-03")
	assert.Equal(t, "p2", *rec3.PersonID)
}

func TestGenerateOverwritesWithoutRespectExisting(t *testing.T) {
	f := newFixture("2026-01-01", "Alice", "Bob")
	ctx := context.Background()

	_, err := f.assign.Assign(ctx, dto.AssignRequest{Date: "2026-02-02", PersonID: "p2", Force: true}, nil)
	require.NoError(t, err)

	_, err = f.assign.Generate(ctx, dto.GenerateRequest{StartDate: "2026-02-01", EndDate: "2026-02-03"}, nil)
	require.NoError(t, err)

	rec2, _ := f.records.GetByDate(ctx, "2026-02-02")
	assert.Equal(t, models.KindAuto, rec2.Kind)
	assert.Equal(t, "p2", *rec2.PersonID)
}

func TestGenerateEmptyRoster(t *testing.T) {
	f := newFixture("2026-01-01")

	_, err := f.assign.Generate(context.Background(), dto.GenerateRequest{StartDate: "2026-02-01", EndDate: "2026-02-03"}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmptyRoster.Code, appErrors.FromError(err).Code)
}

func TestGenerateInvertedRange(t *testing.T) {
	f := newFixture("2026-01-01", "Alice")

	_, err := f.assign.Generate(context.Background(), dto.GenerateRequest{StartDate: "2026-02-03", EndDate: "2026-02-01"}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
