package club

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/erazemk/oprema/internal/clock"
	"github.com/erazemk/oprema/internal/model"
	"github.com/erazemk/oprema/internal/schedule"
)

// Schedule manages matches and checks them for field conflicts.
type Schedule struct {
	repo  Repository
	clock clock.Clock
	opts  options
}

// NewSchedule creates a Schedule service.
func NewSchedule(repo Repository, clk clock.Clock, opts ...Option) *Schedule {
	return &Schedule{repo: repo, clock: clk, opts: buildOptions(opts)}
}

// SaveMatchInput creates a match, or updates one when ID is set.
type SaveMatchInput struct {
	ID        string   `json:"id,omitempty"`
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	Category  string   `json:"category"`
	Opponent  string   `json:"opponent"`
	FieldIDs  []string `json:"field_ids"`
	RefCenter string   `json:"ref_center"`
	RefAsst1  string   `json:"ref_asst1"`
	RefAsst2  string   `json:"ref_asst2"`
}

// MatchResult is the result of Save.
type MatchResult struct {
	Outcome   Outcome       `json:"outcome"`
	Match     model.Match   `json:"match"`
	Conflicts []model.Match `json:"conflicts,omitempty"`
}

func (in SaveMatchInput) match() (model.Match, error) {
	m := model.Match{
		ID:        strings.TrimSpace(in.ID),
		Date:      strings.TrimSpace(in.Date),
		Time:      strings.TrimSpace(in.Time),
		Category:  strings.TrimSpace(in.Category),
		Opponent:  strings.TrimSpace(in.Opponent),
		FieldIDs:  dedupe(in.FieldIDs),
		RefCenter: strings.TrimSpace(in.RefCenter),
		RefAsst1:  strings.TrimSpace(in.RefAsst1),
		RefAsst2:  strings.TrimSpace(in.RefAsst2),
	}

	if _, err := time.Parse(model.DateLayout, m.Date); err != nil {
		return m, invalid("date", "must be YYYY-MM-DD")
	}
	if _, err := schedule.Minutes(m.Time); err != nil {
		return m, invalid("time", "must be HH:MM")
	}
	if err := schedule.ValidateReferees(m); err != nil {
		return m, invalidErr("referees", err)
	}
	return m, nil
}

// Get returns a match.
func (s *Schedule) Get(ctx context.Context, id string) (model.Match, error) {
	m, err := s.repo.GetMatch(ctx, id)
	if err != nil {
		return model.Match{}, err
	}
	if m == nil {
		return model.Match{}, notFound("match", id)
	}
	return *m, nil
}

// List returns matches matching filter.
func (s *Schedule) List(ctx context.Context, filter model.MatchFilter) ([]model.Match, error) {
	return s.repo.ListMatches(ctx, filter)
}

// Conflicts validates in and returns the existing matches it would clash
// with. Nothing is written.
func (s *Schedule) Conflicts(ctx context.Context, in SaveMatchInput) ([]model.Match, error) {
	m, err := in.match()
	if err != nil {
		return nil, err
	}
	return s.conflicts(ctx, m)
}

func (s *Schedule) conflicts(ctx context.Context, m model.Match) ([]model.Match, error) {
	existing, err := s.repo.ListMatches(ctx, model.MatchFilter{Date: m.Date})
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	return schedule.FindConflicts(m, existing, s.opts.window), nil
}

// Save validates and persists a match. When it clashes with existing matches
// the operator is asked to confirm; if they decline nothing is written and
// the outcome is Declined.
func (s *Schedule) Save(ctx context.Context, in SaveMatchInput, confirm Confirmer) (MatchResult, error) {
	m, err := in.match()
	if err != nil {
		return MatchResult{}, err
	}

	now := s.clock.Now()
	if m.ID != "" {
		current, err := s.Get(ctx, m.ID)
		if err != nil {
			return MatchResult{}, err
		}
		m.CreatedAt = current.CreatedAt
	} else {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	conflicts, err := s.conflicts(ctx, m)
	if err != nil {
		return MatchResult{}, err
	}

	if len(conflicts) > 0 {
		ok, err := ask(ctx, confirm, Prompt{
			Kind:    PromptScheduleConflict,
			Message: conflictMessage(m, conflicts),
		})
		if err != nil {
			return MatchResult{}, fmt.Errorf("confirming schedule conflict: %w", err)
		}
		if !ok {
			return MatchResult{Outcome: Declined, Match: m, Conflicts: conflicts}, nil
		}
	}

	if m.ID == "" {
		m.ID = s.opts.newID()
	}
	if err := s.repo.PutMatch(ctx, &m); err != nil {
		return MatchResult{}, fmt.Errorf("saving match: %w", err)
	}

	slog.Info("match saved", "id", m.ID, "date", m.Date, "time", m.Time, "conflicts", len(conflicts))
	return MatchResult{Outcome: Committed, Match: m, Conflicts: conflicts}, nil
}

// Delete removes a match.
func (s *Schedule) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteMatch(ctx, id)
}

func conflictMessage(m model.Match, conflicts []model.Match) string {
	parts := make([]string, len(conflicts))
	for i, c := range conflicts {
		label := c.Opponent
		if label == "" {
			label = c.ID
		}
		parts[i] = fmt.Sprintf("%s at %s", label, c.Time)
	}
	return fmt.Sprintf("%s %s clashes with %s", m.Date, m.Time, strings.Join(parts, ", "))
}

// dedupe trims field IDs and drops blanks and repeats, keeping order.
func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
