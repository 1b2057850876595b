package models

import "time"

// RecordKind discriminates the five override record variants.
type RecordKind string

const (
	KindAuto        RecordKind = "auto"
	KindManual      RecordKind = "manual"
	KindSwap        RecordKind = "swap"
	KindReplacement RecordKind = "replacement"
	KindSuspended   RecordKind = "suspended"
)

// Valid reports whether the kind is one of the known variants.
func (k RecordKind) Valid() bool {
	switch k {
	case KindAuto, KindManual, KindSwap, KindReplacement, KindSuspended:
		return true
	}
	return false
}

// DutyRecord is a persisted, date-keyed exception to plain rotation, or a
// materialized rotation result. The store enforces at most one record per
// date. PersonID and PersonName are nil exactly when Kind is suspended.
type DutyRecord struct {
	ID               string     `db:"id" json:"id"`
	Date             string     `db:"date" json:"date"`
	PersonID         *string    `db:"person_id" json:"person_id"`
	PersonName       *string    `db:"person_name" json:"person_name"`
	Kind             RecordKind `db:"kind" json:"kind"`
	OriginalPersonID *string    `db:"original_person_id" json:"original_person_id,omitempty"`
	Reason           *string    `db:"reason" json:"reason,omitempty"`
	CreatedBy        *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// Suspended reports whether the record marks its date as having no duty.
func (r *DutyRecord) Suspended() bool {
	return r != nil && r.Kind == KindSuspended
}
