package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/spellbook/internal/contract"
	"github.com/banshee-data/spellbook/internal/neural"
	"github.com/banshee-data/spellbook/internal/timeutil"
)

// NetworkRecord is one persisted training result. SpellIDs maps each
// output index of the network to the spell it was trained for.
type NetworkRecord struct {
	NetworkID  string
	HandCount  int
	SpellIDs   []string
	Iterations int
	Error      float64
	Successful bool
	CreatedAt  int64
	// Network is nil in List results.
	Network *neural.Network
}

// NetworkStore persists trained networks as gob+gzip weight blobs.
type NetworkStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewNetworkStore creates a new NetworkStore. A nil clock means wall time.
func NewNetworkStore(db *sql.DB, clock timeutil.Clock) *NetworkStore {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &NetworkStore{db: db, clock: clock}
}

// Save stores net as the newest network for hand.
func (s *NetworkStore) Save(hand int, net *neural.Network, spellIDs []string, st neural.Status) (*NetworkRecord, error) {
	if net == nil {
		return nil, contract.Invalidf("nil network")
	}
	if len(spellIDs) != net.OutputCount() {
		return nil, contract.Invalidf("%d spell ids for %d outputs", len(spellIDs), net.OutputCount())
	}

	state := net.State()
	blob, err := encodeNetwork(state)
	if err != nil {
		return nil, fmt.Errorf("encode network: %w", err)
	}
	hidden, err := json.Marshal(state.Settings.HiddenLayers)
	if err != nil {
		return nil, err
	}
	ids, err := json.Marshal(spellIDs)
	if err != nil {
		return nil, err
	}

	rec := &NetworkRecord{
		NetworkID:  uuid.New().String(),
		HandCount:  hand,
		SpellIDs:   append([]string(nil), spellIDs...),
		Iterations: st.Iteration,
		Error:      st.Error,
		Successful: st.Successful,
		CreatedAt:  s.clock.Now().UnixNano(),
		Network:    net,
	}
	err = retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO networks (
				network_id, hand_count, input_count, output_count, hidden_layers,
				func_type, spell_ids, iterations, error, successful, weights, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.NetworkID, hand, state.Settings.InputCount, state.Settings.OutputCount, string(hidden),
			state.Settings.FuncType.String(), string(ids), rec.Iterations, rec.Error, rec.Successful, blob, rec.CreatedAt,
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("insert network: %w", err)
	}
	return rec, nil
}

// Latest returns the most recently saved network for hand.
func (s *NetworkStore) Latest(hand int) (*NetworkRecord, error) {
	row := s.db.QueryRow(`
		SELECT network_id, hand_count, spell_ids, iterations, error, successful, created_at, weights
		FROM networks
		WHERE hand_count = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1`, hand)

	var rec NetworkRecord
	var ids string
	var blob []byte
	err := row.Scan(&rec.NetworkID, &rec.HandCount, &ids, &rec.Iterations, &rec.Error,
		&rec.Successful, &rec.CreatedAt, &blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("network for %d hands: %w", hand, ErrNotFound)
		}
		return nil, fmt.Errorf("scan network: %w", err)
	}
	if err := json.Unmarshal([]byte(ids), &rec.SpellIDs); err != nil {
		return nil, fmt.Errorf("decode spell ids: %w", err)
	}

	state, err := decodeNetwork(blob)
	if err != nil {
		return nil, err
	}
	if rec.Network, err = neural.FromState(state); err != nil {
		return nil, fmt.Errorf("restore network %s: %w", rec.NetworkID, err)
	}
	return &rec, nil
}

// List returns metadata for every saved network, newest first.
func (s *NetworkStore) List() ([]*NetworkRecord, error) {
	rows, err := s.db.Query(`
		SELECT network_id, hand_count, spell_ids, iterations, error, successful, created_at
		FROM networks
		ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("query networks: %w", err)
	}
	defer rows.Close()

	var out []*NetworkRecord
	for rows.Next() {
		var rec NetworkRecord
		var ids string
		if err := rows.Scan(&rec.NetworkID, &rec.HandCount, &ids, &rec.Iterations, &rec.Error,
			&rec.Successful, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan network row: %w", err)
		}
		if err := json.Unmarshal([]byte(ids), &rec.SpellIDs); err != nil {
			return nil, fmt.Errorf("decode spell ids: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
