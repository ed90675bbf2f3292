// Package config reads server settings from flags, the environment and an
// optional .env file. Flags win over the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/erazemk/oprema/internal/club"
	"github.com/erazemk/oprema/internal/schedule"
)

// Storage backends.
const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

// Config holds the server settings.
type Config struct {
	DBPath    string
	Addr      string
	AdminUser string
	LogPath   string

	Backend              string
	FirestoreProject     string
	FirestoreCredentials string

	ConflictWindow time.Duration
	Cache          []string
}

// Usage is the help text printed for -h.
const Usage = `Usage: oprema [flags]

Flags:
  -d, -db <path>            SQLite database path (default: oprema.sqlite3)
  -a, -addr <host:port>     listen address (default: :8080)
  -u, -user <name>          admin username on first run (default: Admin)
  -l, -log <path>           log file path (default: no file, stdout/stderr only)
  -b, -backend <name>       club records backend: sqlite or firestore (default: sqlite)
  -p, -project <id>         Firestore project ID
  -c, -credentials <path>   Firestore service account file (default: application default credentials)
  -w, -window <duration>    schedule conflict window (default: 60m)
      -cache <list>         comma-separated collections to cache (default: players,coaches)
  -h, -help                 show this help and exit

Environment (overridden by flags, also read from .env):
  OPREMA_DB, OPREMA_ADDR, OPREMA_ADMIN, OPREMA_LOG, OPREMA_BACKEND,
  OPREMA_FIRESTORE_PROJECT, OPREMA_FIRESTORE_CREDENTIALS,
  OPREMA_CONFLICT_WINDOW, OPREMA_CACHE
`

// Load reads .env if present and parses args against the process
// environment.
func Load(args []string, out io.Writer) (Config, error) {
	_ = godotenv.Load()
	return Parse(args, os.Getenv, out)
}

// Parse builds a Config from args with defaults taken from getenv. It returns
// flag.ErrHelp when help was requested.
func Parse(args []string, getenv func(string) string, out io.Writer) (Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	fs := flag.NewFlagSet("oprema", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { fmt.Fprint(out, Usage) }

	var cfg Config
	stringFlag(fs, &cfg.DBPath, env("OPREMA_DB", "oprema.sqlite3"), "db", "d")
	stringFlag(fs, &cfg.Addr, env("OPREMA_ADDR", ":8080"), "addr", "a")
	stringFlag(fs, &cfg.AdminUser, env("OPREMA_ADMIN", "Admin"), "user", "u")
	stringFlag(fs, &cfg.LogPath, env("OPREMA_LOG", ""), "log", "l")
	stringFlag(fs, &cfg.Backend, env("OPREMA_BACKEND", BackendSQLite), "backend", "b")
	stringFlag(fs, &cfg.FirestoreProject, env("OPREMA_FIRESTORE_PROJECT", ""), "project", "p")
	stringFlag(fs, &cfg.FirestoreCredentials, env("OPREMA_FIRESTORE_CREDENTIALS", ""), "credentials", "c")

	var window string
	stringFlag(fs, &window, env("OPREMA_CONFLICT_WINDOW", schedule.DefaultWindow.String()), "window", "w")

	var cache string
	fs.StringVar(&cache, "cache", env("OPREMA_CACHE", club.CollectionPlayers+","+club.CollectionCoaches), "")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	d, err := time.ParseDuration(window)
	if err != nil {
		return Config{}, fmt.Errorf("parsing conflict window: %w", err)
	}
	cfg.ConflictWindow = d
	cfg.Cache = splitList(cache)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
	case BackendFirestore:
		if c.FirestoreProject == "" {
			return errors.New("firestore backend requires a project ID")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	if c.ConflictWindow <= 0 {
		return errors.New("conflict window must be positive")
	}

	known := map[string]bool{
		club.CollectionItems:   true,
		club.CollectionMatches: true,
		club.CollectionPlayers: true,
		club.CollectionCoaches: true,
	}
	for _, name := range c.Cache {
		if !known[name] {
			return fmt.Errorf("unknown cache collection %q", name)
		}
	}
	return nil
}

func stringFlag(fs *flag.FlagSet, p *string, value string, names ...string) {
	for _, name := range names {
		fs.StringVar(p, name, value, "")
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
