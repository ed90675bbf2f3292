package schedule

import (
	"fmt"

	"github.com/erazemk/oprema/internal/model"
)

// Referee roles on a match.
const (
	RoleCenter = "ref_center"
	RoleAsst1  = "ref_asst1"
	RoleAsst2  = "ref_asst2"
)

// RefereeConflictError reports a referee holding two roles on one match.
type RefereeConflictError struct {
	RefereeID string
	First     string
	Second    string
}

func (e *RefereeConflictError) Error() string {
	return fmt.Sprintf("referee %s cannot be both %s and %s", e.RefereeID, e.First, e.Second)
}

// ValidateReferees checks that each referee holds at most one role.
func ValidateReferees(m model.Match) error {
	roles := []struct {
		name string
		id   string
	}{
		{RoleCenter, m.RefCenter},
		{RoleAsst1, m.RefAsst1},
		{RoleAsst2, m.RefAsst2},
	}

	seen := make(map[string]string, len(roles))
	for _, r := range roles {
		if r.id == "" {
			continue
		}
		if prev, ok := seen[r.id]; ok {
			return &RefereeConflictError{RefereeID: r.id, First: prev, Second: r.name}
		}
		seen[r.id] = r.name
	}
	return nil
}
