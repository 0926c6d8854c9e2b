package sqlite

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"

	"github.com/banshee-data/spellbook/internal/neural"
)

// encodeNetwork compresses a network snapshot with gob and gzip.
func encodeNetwork(state neural.NetworkState) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := gob.NewEncoder(gz).Encode(state); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeNetwork reverses encodeNetwork.
func decodeNetwork(blob []byte) (neural.NetworkState, error) {
	var state neural.NetworkState
	if len(blob) == 0 {
		return state, fmt.Errorf("empty network blob")
	}
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return state, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	if err := gob.NewDecoder(gz).Decode(&state); err != nil {
		return state, fmt.Errorf("failed to decode network: %w", err)
	}
	return state, nil
}
