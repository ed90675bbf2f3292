package model

import "time"

// Item represents a piece of club equipment. Items generated as a numbered
// series share a BatchID and carry their position in Number.
type Item struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Category      string         `json:"category,omitempty"`
	Model         string         `json:"model,omitempty"`
	Size          string         `json:"size,omitempty"`
	Status        string         `json:"status"`
	Quantity      int            `json:"quantity"`
	BatchID       string         `json:"batch_id,omitempty"`
	Number        *int           `json:"number,omitempty"`
	Distributions []Distribution `json:"distributions"`

	// Single-assignment fields from records that predate distributions.
	// Read-only: nothing writes them anymore.
	AssignedType string `json:"assigned_type,omitempty"`
	AssignedTo   string `json:"assigned_to,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Distribution records units of an item handed out to a player or coach.
type Distribution struct {
	Type      string    `json:"type"`
	TargetID  string    `json:"target_id"`
	Quantity  int       `json:"quantity"`
	Name      string    `json:"name,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HasLegacyAssignment reports whether the item still carries the old
// single-assignment shape.
func (i *Item) HasLegacyAssignment() bool {
	return i.AssignedType != "" && i.AssignedTo != ""
}

// Clone returns a copy of the item that shares no slices with the original.
func (i Item) Clone() Item {
	c := i
	if i.Distributions != nil {
		c.Distributions = make([]Distribution, len(i.Distributions))
		copy(c.Distributions, i.Distributions)
	}
	if i.Number != nil {
		n := *i.Number
		c.Number = &n
	}
	return c
}

// ItemFilter narrows item listings. Empty fields match everything.
type ItemFilter struct {
	Category string
	BatchID  string
}

// Item statuses.
const (
	ItemStatusNew     = "Neuf"
	ItemStatusGood    = "Bon état"
	ItemStatusWorn    = "Usé"
	ItemStatusDamaged = "Endommagé"
)

// ValidItemStatus reports whether status is one of the known item statuses.
func ValidItemStatus(status string) bool {
	switch status {
	case ItemStatusNew, ItemStatusGood, ItemStatusWorn, ItemStatusDamaged:
		return true
	}
	return false
}
