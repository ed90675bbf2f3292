package club

import (
	"context"
	"fmt"
	"strings"

	"github.com/erazemk/oprema/internal/clock"
	"github.com/erazemk/oprema/internal/model"
)

// UnknownName labels a distribution whose recipient cannot be resolved.
const UnknownName = "Unknown"

// Directory looks up players and coaches.
type Directory interface {
	Lookup(ctx context.Context, memberType, id string) (*model.Member, error)
}

// Roster manages players and coaches and serves as the Directory.
type Roster struct {
	repo  Repository
	clock clock.Clock
	opts  options
}

// NewRoster creates a Roster.
func NewRoster(repo Repository, clk clock.Clock, opts ...Option) *Roster {
	return &Roster{repo: repo, clock: clk, opts: buildOptions(opts)}
}

// MemberInput holds the editable fields of a member.
type MemberInput struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Validate checks the input.
func (in MemberInput) Validate() error {
	if !model.ValidMemberType(in.Type) {
		return invalid("type", "must be player or coach")
	}
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "required")
	}
	return nil
}

// Lookup returns the member or nil when it doesn't exist.
func (r *Roster) Lookup(ctx context.Context, memberType, id string) (*model.Member, error) {
	if !model.ValidMemberType(memberType) || id == "" {
		return nil, nil
	}
	return r.repo.GetMember(ctx, memberType, id)
}

// Resolve returns the member's current name, or UnknownName. Lookup failures
// are not errors here.
func (r *Roster) Resolve(ctx context.Context, memberType, id string) string {
	m, err := r.Lookup(ctx, memberType, id)
	if err != nil || m == nil {
		return UnknownName
	}
	return m.Name
}

// Get returns a member.
func (r *Roster) Get(ctx context.Context, memberType, id string) (model.Member, error) {
	m, err := r.Lookup(ctx, memberType, id)
	if err != nil {
		return model.Member{}, err
	}
	if m == nil {
		return model.Member{}, notFound(memberType, id)
	}
	return *m, nil
}

// List returns members, optionally of one type.
func (r *Roster) List(ctx context.Context, memberType string) ([]model.Member, error) {
	if memberType != "" && !model.ValidMemberType(memberType) {
		return nil, invalid("type", "must be player or coach")
	}
	if memberType != "" {
		return r.repo.ListMembers(ctx, memberType)
	}

	var all []model.Member
	for _, t := range []string{model.MemberTypePlayer, model.MemberTypeCoach} {
		members, err := r.repo.ListMembers(ctx, t)
		if err != nil {
			return nil, err
		}
		all = append(all, members...)
	}
	return all, nil
}

// Create adds a member.
func (r *Roster) Create(ctx context.Context, in MemberInput) (model.Member, error) {
	if err := in.Validate(); err != nil {
		return model.Member{}, err
	}

	m := model.Member{
		ID:        r.opts.newID(),
		Type:      in.Type,
		Name:      strings.TrimSpace(in.Name),
		Category:  strings.TrimSpace(in.Category),
		CreatedAt: r.clock.Now(),
	}
	if err := r.repo.PutMember(ctx, &m); err != nil {
		return model.Member{}, fmt.Errorf("creating member: %w", err)
	}
	return m, nil
}

// Update renames or recategorizes a member. The type cannot change.
func (r *Roster) Update(ctx context.Context, memberType, id string, in MemberInput) (model.Member, error) {
	in.Type = memberType
	if err := in.Validate(); err != nil {
		return model.Member{}, err
	}

	m, err := r.Get(ctx, memberType, id)
	if err != nil {
		return model.Member{}, err
	}
	m.Name = strings.TrimSpace(in.Name)
	m.Category = strings.TrimSpace(in.Category)

	if err := r.repo.PutMember(ctx, &m); err != nil {
		return model.Member{}, fmt.Errorf("updating member: %w", err)
	}
	return m, nil
}

// Delete removes a member.
func (r *Roster) Delete(ctx context.Context, memberType, id string) error {
	if !model.ValidMemberType(memberType) {
		return invalid("type", "must be player or coach")
	}
	return r.repo.DeleteMember(ctx, memberType, id)
}
