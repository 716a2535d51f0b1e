package airdrop

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func writeAllocationFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "allocations.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRecords(t *testing.T) {
	path := writeAllocationFile(t, `[
		{"address": "`+testAddr1+`", "amount": "100"},
		{"address": "`+testAddr2+`", "amount": "1010"}
	]`)

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, Record{Address: testAddr1, Amount: "100"}, records[0])
	require.Equal(t, Record{Address: testAddr2, Amount: "1010"}, records[1])
}

func TestLoadRecordsMissingFile(t *testing.T) {
	_, err := LoadRecords(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLoadRecordsBadJSON(t *testing.T) {
	path := writeAllocationFile(t, `{"address": "not an array"}`)
	_, err := LoadRecords(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse")
}

// Structural parsing does not validate record contents; that happens at
// leaf encoding.
func TestLoadRecordsDefersValidation(t *testing.T) {
	path := writeAllocationFile(t, `[{"address": "junk", "amount": "-1"}]`)
	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)

	_, err = DefaultEncoding().EncodeLeaf(records[0].Address, records[0].Amount)
	require.True(t, errors.Is(err, ErrEncoding))
}

func TestSourceDigest(t *testing.T) {
	path := writeAllocationFile(t, `[]`)
	first, err := SourceDigest(path)
	require.NoError(t, err)
	require.Len(t, first, 64)

	again, err := SourceDigest(path)
	require.NoError(t, err)
	require.Equal(t, first, again)

	// Any edit changes the digest.
	require.NoError(t, os.WriteFile(path, []byte(`[ ]`), 0o644))
	changed, err := SourceDigest(path)
	require.NoError(t, err)
	require.NotEqual(t, first, changed)
}

func TestFindRecord(t *testing.T) {
	records := []Record{
		{Address: testAddr1, Amount: "100"},
		{Address: testAddr2, Amount: "1010"},
		{Address: testAddr1, Amount: "100"}, // duplicate
	}

	index, err := FindRecord(records, testAddr2, "1010")
	require.NoError(t, err)
	require.Equal(t, 1, index)

	// First match wins for duplicates.
	index, err = FindRecord(records, testAddr1, "100")
	require.NoError(t, err)
	require.Equal(t, 0, index)

	// Amount must match together with the address.
	_, err = FindRecord(records, testAddr1, "1010")
	require.True(t, errors.Is(err, ErrNotFound))

	_, err = FindRecord(records, testAddr3, "42")
	require.True(t, errors.Is(err, ErrNotFound))
}
