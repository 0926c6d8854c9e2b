package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/spellbook/internal/contract"
	"github.com/banshee-data/spellbook/internal/gesture"
	"github.com/banshee-data/spellbook/internal/timeutil"
)

// SpellStore persists spells and their example gestures. List order is
// insertion order, which is also each spell's output index when training.
type SpellStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewSpellStore creates a new SpellStore. A nil clock means wall time.
func NewSpellStore(db *sql.DB, clock timeutil.Clock) *SpellStore {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &SpellStore{db: db, clock: clock}
}

// Insert appends spell to the end of the list. If spell.ID is empty a
// UUID is generated and written back.
func (s *SpellStore) Insert(spell *gesture.Spell) error {
	if !spell.Valid() {
		return contract.Invalidf("spell has no valid gestures")
	}
	if spell.ID == "" {
		spell.ID = uuid.New().String()
	}

	type row struct {
		id     string
		hands  int
		points []byte
	}
	rows := make([]row, len(spell.Gestures))
	for i, g := range spell.Gestures {
		points, err := json.Marshal(g.Points)
		if err != nil {
			return fmt.Errorf("encode gesture %d: %w", i, err)
		}
		rows[i] = row{id: uuid.New().String(), hands: g.HandCount(), points: points}
	}

	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer tx.Rollback()

		var next int
		if err := tx.QueryRow(`SELECT COALESCE(MAX(position) + 1, 0) FROM spells`).Scan(&next); err != nil {
			return fmt.Errorf("next position: %w", err)
		}
		if _, err := tx.Exec(`
			INSERT INTO spells (spell_id, name, color, effect_id, position, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			spell.ID, spell.Name, spell.Color, spell.EffectID, next, s.clock.Now().UnixNano(),
		); err != nil {
			return fmt.Errorf("insert spell: %w", err)
		}
		for i, r := range rows {
			if _, err := tx.Exec(`
				INSERT INTO spell_gestures (gesture_id, spell_id, position, hand_count, points_json)
				VALUES (?, ?, ?, ?, ?)`,
				r.id, spell.ID, i, r.hands, string(r.points),
			); err != nil {
				return fmt.Errorf("insert gesture %d: %w", i, err)
			}
		}
		return tx.Commit()
	})
}

// List returns every spell with its gestures, in list order.
func (s *SpellStore) List() ([]*gesture.Spell, error) {
	rows, err := s.db.Query(`
		SELECT spell_id, name, color, effect_id
		FROM spells
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query spells: %w", err)
	}
	var spells []*gesture.Spell
	byID := map[string]*gesture.Spell{}
	for rows.Next() {
		var sp gesture.Spell
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Color, &sp.EffectID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan spell row: %w", err)
		}
		spells = append(spells, &sp)
		byID[sp.ID] = &sp
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	grows, err := s.db.Query(`
		SELECT spell_id, points_json
		FROM spell_gestures
		ORDER BY spell_id, position`)
	if err != nil {
		return nil, fmt.Errorf("query gestures: %w", err)
	}
	defer grows.Close()
	for grows.Next() {
		id, g, err := scanGesture(grows)
		if err != nil {
			return nil, err
		}
		if sp, ok := byID[id]; ok {
			sp.Gestures = append(sp.Gestures, g)
		}
	}
	return spells, grows.Err()
}

// Get returns a single spell by ID.
func (s *SpellStore) Get(spellID string) (*gesture.Spell, error) {
	var sp gesture.Spell
	err := s.db.QueryRow(`
		SELECT spell_id, name, color, effect_id
		FROM spells
		WHERE spell_id = ?`, spellID,
	).Scan(&sp.ID, &sp.Name, &sp.Color, &sp.EffectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("spell %s: %w", spellID, ErrNotFound)
		}
		return nil, fmt.Errorf("scan spell: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT spell_id, points_json
		FROM spell_gestures
		WHERE spell_id = ?
		ORDER BY position`, spellID)
	if err != nil {
		return nil, fmt.Errorf("query gestures: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		_, g, err := scanGesture(rows)
		if err != nil {
			return nil, err
		}
		sp.Gestures = append(sp.Gestures, g)
	}
	return &sp, rows.Err()
}

// Delete removes a spell and its gestures. Later spells move up one
// output index.
func (s *SpellStore) Delete(spellID string) error {
	return retryOnBusy(func() error {
		result, err := s.db.Exec(`DELETE FROM spells WHERE spell_id = ?`, spellID)
		if err != nil {
			return fmt.Errorf("delete spell: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("spell %s: %w", spellID, ErrNotFound)
		}
		return nil
	})
}

// Clear removes every spell.
func (s *SpellStore) Clear() error {
	return retryOnBusy(func() error {
		if _, err := s.db.Exec(`DELETE FROM spells`); err != nil {
			return fmt.Errorf("clear spells: %w", err)
		}
		return nil
	})
}

func scanGesture(rows *sql.Rows) (string, *gesture.Gesture, error) {
	var spellID, points string
	if err := rows.Scan(&spellID, &points); err != nil {
		return "", nil, fmt.Errorf("scan gesture row: %w", err)
	}
	var g gesture.Gesture
	if err := json.Unmarshal([]byte(`{"points":`+points+`}`), &g); err != nil {
		return "", nil, fmt.Errorf("decode gesture of spell %s: %w", spellID, err)
	}
	return spellID, &g, nil
}
