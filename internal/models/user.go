package models

import (
	"strings"
	"time"
)

// User is a restaurant customer.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsValid() bool {
	return strings.TrimSpace(u.Name) != "" && strings.TrimSpace(u.Phone) != ""
}

// ToRecord returns the canonical flat representation of the user.
func (u *User) ToRecord() map[string]any {
	return map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"phone":      u.Phone,
		"created_at": formatTimestamp(u.CreatedAt),
	}
}

// UserFromRecord builds a User from a flat record, tolerating missing fields.
func UserFromRecord(rec map[string]any) *User {
	return &User{
		ID:        recordInt64(rec, "id"),
		Name:      recordString(rec, "name"),
		Phone:     recordString(rec, "phone"),
		CreatedAt: recordTimestamp(rec, "created_at"),
	}
}
