package persistence

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// MarshalSnapshot serializes a Snapshot to JSON bytes.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	if s == nil {
		return nil, errors.New("cannot marshal nil Snapshot")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal Snapshot to JSON")
	}
	return data, nil
}

// UnmarshalSnapshot deserializes a Snapshot from JSON bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	if len(data) == 0 {
		return nil, errors.New("cannot unmarshal empty data")
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal JSON to Snapshot")
	}
	return &s, nil
}
