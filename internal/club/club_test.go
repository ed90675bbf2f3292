package club_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/erazemk/oprema/internal/clock"
	"github.com/erazemk/oprema/internal/club"
	"github.com/erazemk/oprema/internal/db"
	"github.com/erazemk/oprema/internal/model"
	"github.com/erazemk/oprema/internal/store"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type services struct {
	repo      club.Repository
	roster    *club.Roster
	inventory *club.Inventory
	schedule  *club.Schedule
}

func sequentialIDs() club.Option {
	n := 0
	return club.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	})
}

func newServicesWith(t *testing.T, repo club.Repository) services {
	t.Helper()
	clk := clock.NewFixed(testNow)
	ids := sequentialIDs()
	roster := club.NewRoster(repo, clk, ids)
	return services{
		repo:      repo,
		roster:    roster,
		inventory: club.NewInventory(repo, roster, clk, ids),
		schedule:  club.NewSchedule(repo, clk, ids),
	}
}

func newServices(t *testing.T) services {
	t.Helper()
	return newServicesWith(t, store.NewSQLStore(db.NewTestDB(t)))
}

// recordingConfirmer answers every prompt with answer and remembers them.
type recordingConfirmer struct {
	answer  bool
	prompts []club.Prompt
}

func (r *recordingConfirmer) Confirm(_ context.Context, p club.Prompt) (bool, error) {
	r.prompts = append(r.prompts, p)
	return r.answer, nil
}

// flakyRepo fails item writes and deletes for the listed IDs or after a
// number of successful puts.
type flakyRepo struct {
	club.Repository
	putsLeft  int
	failPuts  bool
	failIDs   map[string]bool
	putErr    error
	deleteErr error
}

func (f *flakyRepo) PutItem(ctx context.Context, item *model.Item) error {
	if f.failPuts {
		if f.putsLeft == 0 {
			return f.putErr
		}
		f.putsLeft--
	}
	return f.Repository.PutItem(ctx, item)
}

func (f *flakyRepo) DeleteItem(ctx context.Context, id string) error {
	if f.failIDs[id] {
		return f.deleteErr
	}
	return f.Repository.DeleteItem(ctx, id)
}
