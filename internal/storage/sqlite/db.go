package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/spellbook/internal/timeutil"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA foreign_keys=ON",
}

// DB wraps the spellbook database connection. clock stamps created_at on
// new rows.
type DB struct {
	*sql.DB
	clock timeutil.Clock
}

// Open opens (creating if needed) the database at path and applies the
// connection pragmas. It does not run migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// foreign_keys is per connection; keep a single one so it sticks.
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", p, err)
		}
	}
	return &DB{DB: db, clock: timeutil.RealClock{}}, nil
}

// SetClock replaces the clock used by stores created afterwards.
func (db *DB) SetClock(c timeutil.Clock) { db.clock = c }

// Spells returns a SpellStore on this database.
func (db *DB) Spells() *SpellStore { return NewSpellStore(db.DB, db.clock) }

// Networks returns a NetworkStore on this database.
func (db *DB) Networks() *NetworkStore { return NewNetworkStore(db.DB, db.clock) }
