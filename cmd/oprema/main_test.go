package main

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/oprema/internal/clock"
	"github.com/erazemk/oprema/internal/club"
	"github.com/erazemk/oprema/internal/config"
	"github.com/erazemk/oprema/internal/db"
	"github.com/erazemk/oprema/internal/model"
	"github.com/erazemk/oprema/internal/store"
)

func TestMigrationKey(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"sqlite", config.Config{Backend: config.BackendSQLite}, store.SettingLegacyMigrated},
		{"firestore", config.Config{Backend: config.BackendFirestore, FirestoreProject: "club"},
			store.SettingLegacyMigrated + ":firestore:club"},
		{"other project", config.Config{Backend: config.BackendFirestore, FirestoreProject: "club-2"},
			store.SettingLegacyMigrated + ":firestore:club-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := migrationKey(tt.cfg); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func putLegacyItem(t *testing.T, repo *store.SQLStore, id string) {
	t.Helper()
	item := &model.Item{
		ID:           id,
		Name:         "Ball",
		Status:       model.ItemStatusNew,
		Quantity:     1,
		AssignedType: model.MemberTypePlayer,
		AssignedTo:   "p1",
	}
	if err := repo.PutItem(context.Background(), item); err != nil {
		t.Fatalf("PutItem: %v", err)
	}
}

func isLegacy(t *testing.T, repo *store.SQLStore, id string) bool {
	t.Helper()
	item, err := repo.GetItem(context.Background(), id)
	if err != nil || item == nil {
		t.Fatalf("GetItem %s: %v", id, err)
	}
	return item.HasLegacyAssignment()
}

func TestMigrateLegacyPerBackend(t *testing.T) {
	ctx := context.Background()
	settings := db.NewTestDB(t)
	clk := clock.NewFixed(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	sqliteRepo := store.NewSQLStore(db.NewTestDB(t))
	firestoreRepo := store.NewSQLStore(db.NewTestDB(t))
	sqliteInv := club.NewInventory(sqliteRepo, club.NewRoster(sqliteRepo, clk), clk)
	firestoreInv := club.NewInventory(firestoreRepo, club.NewRoster(firestoreRepo, clk), clk)

	sqliteKey := migrationKey(config.Config{Backend: config.BackendSQLite})
	firestoreKey := migrationKey(config.Config{Backend: config.BackendFirestore, FirestoreProject: "club"})

	putLegacyItem(t, sqliteRepo, "s1")
	putLegacyItem(t, firestoreRepo, "f1")

	if err := migrateLegacy(ctx, settings, sqliteKey, sqliteInv); err != nil {
		t.Fatalf("migrateLegacy sqlite: %v", err)
	}
	if isLegacy(t, sqliteRepo, "s1") {
		t.Error("sqlite item not migrated")
	}

	// A run against another backend still migrates its own records.
	if err := migrateLegacy(ctx, settings, firestoreKey, firestoreInv); err != nil {
		t.Fatalf("migrateLegacy firestore: %v", err)
	}
	if isLegacy(t, firestoreRepo, "f1") {
		t.Error("firestore item not migrated after sqlite run")
	}

	// Once marked, the same backend is not scanned again.
	putLegacyItem(t, sqliteRepo, "s2")
	if err := migrateLegacy(ctx, settings, sqliteKey, sqliteInv); err != nil {
		t.Fatalf("migrateLegacy sqlite again: %v", err)
	}
	if !isLegacy(t, sqliteRepo, "s2") {
		t.Error("second sqlite run migrated despite marker")
	}

	value, ok, err := store.GetSetting(ctx, settings, firestoreKey)
	if err != nil || !ok || value != "1" {
		t.Errorf("firestore marker = %q, %v, %v; want \"1\"", value, ok, err)
	}
}
