package config

import (
	"bytes"
	"errors"
	"flag"
	"reflect"
	"strings"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil, envMap(nil), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Config{
		DBPath:         "oprema.sqlite3",
		Addr:           ":8080",
		AdminUser:      "Admin",
		Backend:        BackendSQLite,
		ConflictWindow: 60 * time.Minute,
		Cache:          []string{"players", "coaches"},
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("got %+v\nwant %+v", cfg, want)
	}
}

func TestParseEnvAndFlags(t *testing.T) {
	env := envMap(map[string]string{
		"OPREMA_DB":                "/var/lib/oprema.db",
		"OPREMA_ADDR":              ":9000",
		"OPREMA_BACKEND":           "firestore",
		"OPREMA_FIRESTORE_PROJECT": "club-prod",
		"OPREMA_CONFLICT_WINDOW":   "90m",
		"OPREMA_CACHE":             "inventory, matches",
	})

	cfg, err := Parse([]string{"-a", ":7000", "-window", "45m"}, env, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.DBPath != "/var/lib/oprema.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("flag should override env, Addr = %q", cfg.Addr)
	}
	if cfg.Backend != BackendFirestore || cfg.FirestoreProject != "club-prod" {
		t.Errorf("unexpected backend settings %+v", cfg)
	}
	if cfg.ConflictWindow != 45*time.Minute {
		t.Errorf("ConflictWindow = %v", cfg.ConflictWindow)
	}
	if !reflect.DeepEqual(cfg.Cache, []string{"inventory", "matches"}) {
		t.Errorf("Cache = %v", cfg.Cache)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"unknown backend", []string{"-b", "mongo"}, nil},
		{"firestore without project", []string{"-backend", "firestore"}, nil},
		{"bad window", []string{"-w", "soon"}, nil},
		{"zero window", nil, map[string]string{"OPREMA_CONFLICT_WINDOW": "0s"}},
		{"unknown cache collection", []string{"-cache", "players,referees"}, nil},
		{"positional argument", []string{"serve"}, nil},
		{"unknown flag", []string{"-x"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.args, envMap(tt.env), &bytes.Buffer{}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseHelp(t *testing.T) {
	var out bytes.Buffer
	_, err := Parse([]string{"-h"}, envMap(nil), &out)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
	if !strings.Contains(out.String(), "Usage: oprema") {
		t.Errorf("usage not printed: %q", out.String())
	}
}

func TestParseEmptyCache(t *testing.T) {
	cfg, err := Parse([]string{"-cache", ""}, envMap(nil), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Cache) != 0 {
		t.Errorf("expected no cached collections, got %v", cfg.Cache)
	}
}
