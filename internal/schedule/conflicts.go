// Package schedule detects clashes between matches sharing a field.
package schedule

import (
	"time"

	"github.com/erazemk/oprema/internal/model"
)

// DefaultWindow is the conflict window used when none is configured.
const DefaultWindow = 60 * time.Minute

var clockLayouts = []string{"15:04", "15:04:05"}

// Minutes converts an HH:MM (or HH:MM:SS) clock string to minutes after
// midnight.
func Minutes(clock string) (int, error) {
	var lastErr error
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, clock)
		if err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
		lastErr = err
	}
	return 0, lastErr
}

// FindConflicts returns the matches in existing that clash with candidate, in
// their original order. Two matches clash when they are on the same date,
// share at least one field, and start less than window apart. A match never
// clashes with itself, and a match without fields never clashes. Malformed
// times never clash.
func FindConflicts(candidate model.Match, existing []model.Match, window time.Duration) []model.Match {
	if window <= 0 {
		window = DefaultWindow
	}
	if len(candidate.FieldIDs) == 0 {
		return nil
	}
	start, err := Minutes(candidate.Time)
	if err != nil {
		return nil
	}

	fields := make(map[string]bool, len(candidate.FieldIDs))
	for _, f := range candidate.FieldIDs {
		fields[f] = true
	}

	var conflicts []model.Match
	for _, m := range existing {
		if m.Date != candidate.Date {
			continue
		}
		if candidate.ID != "" && m.ID == candidate.ID {
			continue
		}
		if !sharesField(fields, m.FieldIDs) {
			continue
		}
		other, err := Minutes(m.Time)
		if err != nil {
			continue
		}
		if time.Duration(abs(other-start))*time.Minute < window {
			conflicts = append(conflicts, m)
		}
	}
	return conflicts
}

func sharesField(fields map[string]bool, ids []string) bool {
	for _, id := range ids {
		if fields[id] {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
