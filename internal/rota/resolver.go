package rota

import (
	"sort"

	"github.com/dutyops/duty-roster-api/internal/models"
)

// Assignment is the resolved duty for a single date. A nil *Assignment
// means the date is unassigned: suspended, before the rotation start, or
// the roster is empty.
type Assignment struct {
	PersonID   string
	PersonName string
	Kind       models.RecordKind
	// Record backs the assignment when an override exists for the date;
	// nil for a plain rotation result.
	Record *models.DutyRecord
}

// RecordSet indexes override records by date for O(1) lookup. Building it
// keeps at most one record per date, matching the store invariant.
type RecordSet map[string]*models.DutyRecord

// NewRecordSet indexes the given records by date.
func NewRecordSet(records []models.DutyRecord) RecordSet {
	set := make(RecordSet, len(records))
	for i := range records {
		set[records[i].Date] = &records[i]
	}
	return set
}

// ByDate returns the record for the date, or nil.
func (s RecordSet) ByDate(date string) *models.DutyRecord {
	return s[date]
}

// IsSuspended reports whether the date carries a suspended record.
func (s RecordSet) IsSuspended(date string) bool {
	return s[date].Suspended()
}

// ActiveRoster filters to active people ordered by OrderIndex. Ties are
// broken by slice position; unique order indexes among active people are a
// caller invariant, not enforced here.
func ActiveRoster(people []models.Person) []models.Person {
	roster := make([]models.Person, 0, len(people))
	for _, p := range people {
		if p.IsActive {
			roster = append(roster, p)
		}
	}
	sort.SliceStable(roster, func(i, j int) bool {
		return roster[i].OrderIndex < roster[j].OrderIndex
	})
	return roster
}

// Resolve computes the assignment for targetDate.
//
// An override record for the date always wins over rotation and is checked
// first. Otherwise the rotation cadence counter k — the number of
// non-suspended days in [startDate, targetDate) — selects
// roster[k mod len(roster)]. Dates before startDate resolve to nil: the
// cadence is not defined before roster activation.
//
// Pure function of its inputs; same arguments always yield the same result.
func Resolve(startDate, targetDate string, roster []models.Person, records RecordSet) *Assignment {
	if rec := records.ByDate(targetDate); rec != nil {
		return fromRecord(rec, roster)
	}
	return rotation(startDate, targetDate, roster, records)
}

// RotationFor computes the plain rotation assignment for targetDate,
// ignoring any override record on the date itself. Suspended days before
// targetDate still skip the cadence. Used for swap provenance, where the
// date's own record is about to be deleted.
func RotationFor(startDate, targetDate string, roster []models.Person, records RecordSet) *Assignment {
	return rotation(startDate, targetDate, roster, records)
}

func rotation(startDate, targetDate string, roster []models.Person, records RecordSet) *Assignment {
	if len(roster) == 0 || targetDate < startDate {
		return nil
	}
	days, err := DaysBetween(startDate, targetDate)
	if err != nil {
		return nil
	}
	cadence := 0
	day, err := ParseDay(startDate)
	if err != nil {
		return nil
	}
	for i := 0; i < days; i++ {
		if !records.IsSuspended(FormatDay(day)) {
			cadence++
		}
		day = day.AddDate(0, 0, 1)
	}
	p := roster[cadence%len(roster)]
	return &Assignment{PersonID: p.ID, PersonName: p.Name, Kind: models.KindAuto}
}

func fromRecord(rec *models.DutyRecord, roster []models.Person) *Assignment {
	if rec.Suspended() || rec.PersonID == nil {
		return nil
	}
	name := ""
	if rec.PersonName != nil {
		name = *rec.PersonName
	}
	// Prefer the live roster name over the denormalised snapshot.
	for _, p := range roster {
		if p.ID == *rec.PersonID {
			name = p.Name
			break
		}
	}
	return &Assignment{PersonID: *rec.PersonID, PersonName: name, Kind: rec.Kind, Record: rec}
}

// DayAssignment pairs a date with its resolved assignment.
type DayAssignment struct {
	Date       string
	Assignment *Assignment
}

// ResolveRange resolves count consecutive days starting at from. The
// suspension cadence is carried incrementally so the whole range costs
// O(days since startDate + count) instead of O(count * days).
func ResolveRange(startDate, from string, count int, roster []models.Person, records RecordSet) ([]DayAssignment, error) {
	days, err := DayRange(from, count)
	if err != nil {
		return nil, err
	}
	out := make([]DayAssignment, 0, len(days))
	if len(days) == 0 {
		return out, nil
	}

	// Cadence as of the first in-range day at or after startDate.
	cadence := 0
	if first := days[0]; first > startDate {
		n, err := DaysBetween(startDate, first)
		if err != nil {
			return nil, err
		}
		cur, _ := ParseDay(startDate)
		for i := 0; i < n; i++ {
			if !records.IsSuspended(FormatDay(cur)) {
				cadence++
			}
			cur = cur.AddDate(0, 0, 1)
		}
	}

	for _, date := range days {
		var a *Assignment
		if rec := records.ByDate(date); rec != nil {
			a = fromRecord(rec, roster)
		} else if len(roster) > 0 && date >= startDate {
			p := roster[cadence%len(roster)]
			a = &Assignment{PersonID: p.ID, PersonName: p.Name, Kind: models.KindAuto}
		}
		out = append(out, DayAssignment{Date: date, Assignment: a})
		if date >= startDate && !records.IsSuspended(date) {
			cadence++
		}
	}
	return out, nil
}
