package models

// PersonStats summarises resolved duty history for one person.
type PersonStats struct {
	PersonID     string   `json:"person_id"`
	PersonName   string   `json:"person_name"`
	TotalPast    int      `json:"total_past"`
	PastDates    []string `json:"past_dates"`
	FutureDuties int      `json:"future_duties"`
}

// SystemStats reports store-level counters for the dashboard endpoint.
type SystemStats struct {
	TotalPeople  int     `json:"total_people"`
	ActivePeople int     `json:"active_people"`
	TotalRecords int     `json:"total_records"`
	LastUpdated  *string `json:"last_updated,omitempty"`
}
