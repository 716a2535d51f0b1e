package airdrop

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// LoadRecords parses an allocation file: a JSON array of
// {"address": <bech32>, "amount": <decimal string>} objects.
//
// Only structural well-formedness is checked here; leaf encoding validates
// each record again on use. Duplicates are preserved as-is.
func LoadRecords(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read allocation file %s", path)
	}
	return ParseRecords(data)
}

// ParseRecords decodes allocation list bytes.
func ParseRecords(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "failed to parse allocation list JSON")
	}
	return records, nil
}

// SourceDigest returns the hex sha256 of the allocation file bytes.
// Snapshot caching keys cached trees by this digest, so any edit to the
// file invalidates its cache entry.
func SourceDigest(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read allocation file %s", path)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
