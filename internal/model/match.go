package model

import "time"

// Match is a scheduled fixture on zero or more fields.
type Match struct {
	ID       string   `json:"id"`
	Date     string   `json:"date"` // YYYY-MM-DD
	Time     string   `json:"time"` // HH:MM
	Category string   `json:"category,omitempty"`
	Opponent string   `json:"opponent,omitempty"`
	FieldIDs []string `json:"field_ids"`

	RefCenter string `json:"ref_center,omitempty"`
	RefAsst1  string `json:"ref_asst1,omitempty"`
	RefAsst2  string `json:"ref_asst2,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MatchFilter narrows match listings. Empty fields match everything.
type MatchFilter struct {
	Date string
}

// DateLayout is the calendar date format used for Match.Date.
const DateLayout = "2006-01-02"
