package models

// DutyRules are advisory inputs to conflict checks on manual and automatic
// assignment. The resolver never enforces them.
type DutyRules struct {
	MaxConsecutiveDays int     `db:"max_consecutive_days" json:"max_consecutive_days"`
	MinRestDays        int     `db:"min_rest_days" json:"min_rest_days"`
	ExcludeWeekends    bool    `db:"exclude_weekends" json:"exclude_weekends"`
	ExcludeHolidays    bool    `db:"exclude_holidays" json:"exclude_holidays"`
	FairnessWeight     float64 `db:"fairness_weight" json:"fairness_weight"`
}

// DefaultDutyRules mirrors the rules applied when none have been configured.
func DefaultDutyRules() DutyRules {
	return DutyRules{
		MaxConsecutiveDays: 3,
		MinRestDays:        1,
		ExcludeWeekends:    false,
		ExcludeHolidays:    false,
		FairnessWeight:     0.8,
	}
}

// ScheduleConfig groups the rotation anchor date with the advisory rules.
type ScheduleConfig struct {
	StartDate string    `json:"start_date"`
	Rules     DutyRules `json:"rules"`
}
