package models

import (
	"strings"
	"time"
)

// Table is a bookable restaurant table.
type Table struct {
	ID        int64     `json:"id"`
	Number    int64     `json:"number"`
	Capacity  int64     `json:"capacity"`
	Location  string    `json:"location"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *Table) IsValid() bool {
	return t.Number > 0 && t.Capacity > 0 && strings.TrimSpace(t.Location) != ""
}

// CanAccommodate reports whether the table is open for booking and seats
// the given party.
func (t *Table) CanAccommodate(guests int64) bool {
	return t.IsActive && guests <= t.Capacity
}

// ToRecord returns the canonical flat representation of the table.
func (t *Table) ToRecord() map[string]any {
	return map[string]any{
		"id":         t.ID,
		"number":     t.Number,
		"capacity":   t.Capacity,
		"location":   t.Location,
		"is_active":  t.IsActive,
		"created_at": formatTimestamp(t.CreatedAt),
	}
}

// TableFromRecord builds a Table from a flat record. A missing is_active
// defaults to true: a table is bookable unless something says otherwise.
func TableFromRecord(rec map[string]any) *Table {
	active := true
	if v, ok := rec["is_active"]; ok {
		active = recordBoolValue(v)
	}
	return &Table{
		ID:        recordInt64(rec, "id"),
		Number:    recordInt64(rec, "number"),
		Capacity:  recordInt64(rec, "capacity"),
		Location:  recordString(rec, "location"),
		IsActive:  active,
		CreatedAt: recordTimestamp(rec, "created_at"),
	}
}
