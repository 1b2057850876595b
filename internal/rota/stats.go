package rota

import "github.com/dutyops/duty-roster-api/internal/models"

const (
	// futurePreviewDays is the horizon within which plain rotation results
	// count as confirmed future duties.
	futurePreviewDays = 7
	// maxUnassignedRun stops the forward scan once this many consecutive
	// truly-unassigned days have been seen.
	maxUnassignedRun = 7
)

// ComputeStats tallies per-person duty counts over the resolved timeline.
//
// The past window is [startDate, asOf): each day is resolved with the
// records as they stand now, so roster changes rewrite history. The future
// window starts at asOf and counts days with an explicit record, plus plain
// rotation results inside the 7-day preview horizon. Scanning stops after a
// run of 7 consecutive unassigned days; suspended days neither break nor
// extend the run.
func ComputeStats(people []models.Person, records []models.DutyRecord, startDate, asOf string) ([]models.PersonStats, error) {
	roster := ActiveRoster(people)
	set := NewRecordSet(records)

	stats := make([]models.PersonStats, 0, len(people))
	index := make(map[string]*models.PersonStats, len(people))
	for _, p := range people {
		stats = append(stats, models.PersonStats{PersonID: p.ID, PersonName: p.Name, PastDates: []string{}})
	}
	for i := range stats {
		index[stats[i].PersonID] = &stats[i]
	}

	if asOf > startDate {
		pastDays, err := DaysBetween(startDate, asOf)
		if err != nil {
			return nil, err
		}
		resolved, err := ResolveRange(startDate, startDate, pastDays, roster, set)
		if err != nil {
			return nil, err
		}
		for _, day := range resolved {
			if day.Assignment == nil {
				continue
			}
			if s, ok := index[day.Assignment.PersonID]; ok {
				s.TotalPast++
				s.PastDates = append(s.PastDates, day.Date)
			}
		}
	}

	horizon, err := AddDays(asOf, futurePreviewDays)
	if err != nil {
		return nil, err
	}
	date := asOf
	run := 0
	for run < maxUnassignedRun {
		if set.IsSuspended(date) {
			if date, err = AddDays(date, 1); err != nil {
				return nil, err
			}
			continue
		}

		var assigned *Assignment
		if rec := set.ByDate(date); rec != nil {
			assigned = fromRecord(rec, roster)
		} else if date < horizon {
			assigned = RotationFor(startDate, date, roster, set)
		}

		if assigned != nil {
			run = 0
			if s, ok := index[assigned.PersonID]; ok {
				s.FutureDuties++
			}
		} else {
			run++
		}
		if date, err = AddDays(date, 1); err != nil {
			return nil, err
		}
	}

	return stats, nil
}
