package rota

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dutyops/duty-roster-api/internal/models"
)

func testRoster(names ...string) []models.Person {
	people := make([]models.Person, 0, len(names))
	for i, name := range names {
		people = append(people, models.Person{ID: "p-" + name, Name: name, OrderIndex: i + 1, IsActive: true})
	}
	return people
}

func suspendedRecord(date string) models.DutyRecord {
	return models.DutyRecord{ID: "rec-" + date, Date: date, Kind: models.KindSuspended}
}

func manualRecord(date, personID, personName string) models.DutyRecord {
	return models.DutyRecord{ID: "rec-" + date, Date: date, PersonID: &personID, PersonName: &personName, Kind: models.KindManual}
}

func TestResolveRotationOrder(t *testing.T) {
	roster := testRoster("A", "B")
	records := NewRecordSet(nil)

	a := Resolve("2024-01-01", "2024-01-01", roster, records)
	require.NotNil(t, a)
	assert.Equal(t, "p-A", a.PersonID)
	assert.Equal(t, models.KindAuto, a.Kind)

	b := Resolve("2024-01-01", "2024-01-02", roster, records)
	require.NotNil(t, b)
	assert.Equal(t, "p-B", b.PersonID)

	c := Resolve("2024-01-01", "2024-01-03", roster, records)
	require.NotNil(t, c)
	assert.Equal(t, "p-A", c.PersonID)
}

func TestResolveDeterministic(t *testing.T) {
	roster := testRoster("A", "B", "C")
	records := NewRecordSet([]models.DutyRecord{suspendedRecord("2024-03-05")})

	first := Resolve("2024-03-01", "2024-03-09", roster, records)
	second := Resolve("2024-03-01", "2024-03-09", roster, records)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.PersonID, second.PersonID)
}

func TestResolveSuspensionSkipsCadence(t *testing.T) {
	roster := testRoster("A", "B", "C")
	records := NewRecordSet([]models.DutyRecord{suspendedRecord("2024-01-02")})

	day0 := Resolve("2024-01-01", "2024-01-01", roster, records)
	require.NotNil(t, day0)
	assert.Equal(t, "p-A", day0.PersonID)

	assert.Nil(t, Resolve("2024-01-01", "2024-01-02", roster, records))

	day2 := Resolve("2024-01-01", "2024-01-03", roster, records)
	require.NotNil(t, day2)
	assert.Equal(t, "p-B", day2.PersonID, "suspended day must not consume a rotation slot")

	day3 := Resolve("2024-01-01", "2024-01-04", roster, records)
	require.NotNil(t, day3)
	assert.Equal(t, "p-C", day3.PersonID)
}

func TestResolveSuspensionShiftsFollowingDays(t *testing.T) {
	roster := testRoster("A", "B")
	noSuspension := NewRecordSet(nil)

	before := Resolve("2024-01-01", "2024-01-03", roster, noSuspension)
	require.NotNil(t, before)
	assert.Equal(t, "p-A", before.PersonID)

	withSuspension := NewRecordSet([]models.DutyRecord{suspendedRecord("2024-01-02")})
	after := Resolve("2024-01-01", "2024-01-03", roster, withSuspension)
	require.NotNil(t, after)
	assert.Equal(t, "p-B", after.PersonID, "rotation shifts left past the skipped day")
}

func TestResolvePreStartDatesUnassigned(t *testing.T) {
	roster := testRoster("A", "B", "C")
	assert.Nil(t, Resolve("2024-06-01", "2024-05-31", roster, NewRecordSet(nil)))
	assert.Nil(t, Resolve("2024-06-01", "2023-12-31", roster, NewRecordSet(nil)))
}

func TestResolveRecordWinsOverRotationAndPreStart(t *testing.T) {
	roster := testRoster("A", "B")
	records := NewRecordSet([]models.DutyRecord{manualRecord("2024-05-20", "p-B", "B")})

	a := Resolve("2024-06-01", "2024-05-20", roster, records)
	require.NotNil(t, a, "an override record is honored even before startDate")
	assert.Equal(t, "p-B", a.PersonID)
	assert.Equal(t, models.KindManual, a.Kind)
}

func TestResolveEmptyRoster(t *testing.T) {
	assert.Nil(t, Resolve("2024-01-01", "2024-01-05", nil, NewRecordSet(nil)))
}

func TestResolveSuspendedRecordReturnsNil(t *testing.T) {
	roster := testRoster("A")
	records := NewRecordSet([]models.DutyRecord{suspendedRecord("2024-01-03")})
	assert.Nil(t, Resolve("2024-01-01", "2024-01-03", roster, records))
}

func TestResolveInactiveExcludedFromRoster(t *testing.T) {
	people := []models.Person{
		{ID: "p-A", Name: "A", OrderIndex: 1, IsActive: true},
		{ID: "p-B", Name: "B", OrderIndex: 2, IsActive: false},
		{ID: "p-C", Name: "C", OrderIndex: 3, IsActive: true},
	}
	roster := ActiveRoster(people)
	require.Len(t, roster, 2)

	day1 := Resolve("2024-01-01", "2024-01-02", roster, NewRecordSet(nil))
	require.NotNil(t, day1)
	assert.Equal(t, "p-C", day1.PersonID, "inactive people do not hold rotation slots")
}

func TestResolveRecordNamePrefersLiveRoster(t *testing.T) {
	roster := testRoster("Alice")
	stale := "Old Name"
	id := "p-Alice"
	records := NewRecordSet([]models.DutyRecord{{ID: "r1", Date: "2024-01-01", PersonID: &id, PersonName: &stale, Kind: models.KindManual}})

	a := Resolve("2024-01-01", "2024-01-01", roster, records)
	require.NotNil(t, a)
	assert.Equal(t, "Alice", a.PersonName)
}

func TestRotationForIgnoresTargetRecord(t *testing.T) {
	roster := testRoster("A", "B")
	records := NewRecordSet([]models.DutyRecord{manualRecord("2024-01-02", "p-A", "A")})

	a := RotationFor("2024-01-01", "2024-01-02", roster, records)
	require.NotNil(t, a)
	assert.Equal(t, "p-B", a.PersonID, "the manual override on the date itself is ignored")
}

func TestResolveRangeMatchesPointwiseResolve(t *testing.T) {
	roster := testRoster("A", "B", "C")
	records := NewRecordSet([]models.DutyRecord{
		suspendedRecord("2024-01-03"),
		suspendedRecord("2024-01-07"),
		manualRecord("2024-01-05", "p-C", "C"),
	})

	resolved, err := ResolveRange("2024-01-01", "2023-12-30", 14, roster, records)
	require.NoError(t, err)
	require.Len(t, resolved, 14)

	for _, day := range resolved {
		want := Resolve("2024-01-01", day.Date, roster, records)
		if want == nil {
			assert.Nil(t, day.Assignment, "date %s", day.Date)
			continue
		}
		require.NotNil(t, day.Assignment, "date %s", day.Date)
		assert.Equal(t, want.PersonID, day.Assignment.PersonID, "date %s", day.Date)
	}
}

func TestRecordSetKeepsOneRecordPerDate(t *testing.T) {
	id := "p-A"
	name := "A"
	set := NewRecordSet([]models.DutyRecord{
		{ID: "r1", Date: "2024-01-01", PersonID: &id, PersonName: &name, Kind: models.KindAuto},
		{ID: "r2", Date: "2024-01-01", PersonID: &id, PersonName: &name, Kind: models.KindManual},
	})
	require.NotNil(t, set.ByDate("2024-01-01"))
	assert.Equal(t, "r2", set.ByDate("2024-01-01").ID)
}
