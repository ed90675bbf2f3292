package club

import (
	"context"

	"github.com/erazemk/oprema/internal/model"
)

// Collection names shared by the persistence backends and the cache.
const (
	CollectionItems   = "inventory"
	CollectionMatches = "matches"
	CollectionPlayers = "players"
	CollectionCoaches = "coaches"
)

// MemberCollection maps a member type to the collection holding it.
func MemberCollection(memberType string) string {
	if memberType == model.MemberTypeCoach {
		return CollectionCoaches
	}
	return CollectionPlayers
}

// Repository is the persistence collaborator. Gets return a nil record when
// nothing matches; deletes of missing records fail with model.ErrNotFound.
// Nothing here is transactional across calls.
type Repository interface {
	GetItem(ctx context.Context, id string) (*model.Item, error)
	ListItems(ctx context.Context, filter model.ItemFilter) ([]model.Item, error)
	PutItem(ctx context.Context, item *model.Item) error
	DeleteItem(ctx context.Context, id string) error

	GetMatch(ctx context.Context, id string) (*model.Match, error)
	ListMatches(ctx context.Context, filter model.MatchFilter) ([]model.Match, error)
	PutMatch(ctx context.Context, m *model.Match) error
	DeleteMatch(ctx context.Context, id string) error

	GetMember(ctx context.Context, memberType, id string) (*model.Member, error)
	ListMembers(ctx context.Context, memberType string) ([]model.Member, error)
	PutMember(ctx context.Context, m *model.Member) error
	DeleteMember(ctx context.Context, memberType, id string) error
}
