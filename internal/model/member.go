package model

import "time"

// Member is a directory entry for a player or a coach. Distributions and
// referee assignments point at members by ID.
type Member struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Member types. They double as distribution target types.
const (
	MemberTypePlayer = "player"
	MemberTypeCoach  = "coach"
)

// ValidMemberType reports whether t names a member type.
func ValidMemberType(t string) bool {
	return t == MemberTypePlayer || t == MemberTypeCoach
}
