package merkle

import (
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"
)

// proofStepJSON is the wire form of one proof step. Digests travel as bare
// lowercase hex (no 0x prefix), matching what the on-chain verifier decodes.
type proofStepJSON struct {
	Hash     string `json:"hash"`
	Position string `json:"position"`
}

// HexDigest renders a digest as a lowercase hex string for the CLI boundary.
func HexDigest(d [32]byte) string {
	return hex.EncodeToString(d[:])
}

// ParseDigest decodes a lowercase hex digest. It fails with
// ErrMalformedProof if the input is not exactly DigestSize bytes of hex.
func ParseDigest(s string) ([32]byte, error) {
	var d [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return d, errors.Wrapf(ErrMalformedProof, "digest %q is not valid hex", s)
	}
	if len(raw) != DigestSize {
		return d, errors.Wrapf(ErrMalformedProof, "digest is %d bytes, want %d", len(raw), DigestSize)
	}
	copy(d[:], raw)
	return d, nil
}

// MarshalProofSteps encodes proof steps as a JSON array of
// {"hash": <hex>, "position": "left"|"right"} objects.
func MarshalProofSteps(steps []ProofStep) ([]byte, error) {
	out := make([]proofStepJSON, len(steps))
	for i, step := range steps {
		out[i] = proofStepJSON{
			Hash:     HexDigest(step.Sibling),
			Position: string(step.Side),
		}
	}
	return json.Marshal(out)
}

// UnmarshalProofSteps decodes the JSON proof wire format, validating each
// step's digest length and side flag. Any structural defect fails with
// ErrMalformedProof.
func UnmarshalProofSteps(data []byte) ([]ProofStep, error) {
	var raw []proofStepJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(ErrMalformedProof, err.Error())
	}

	steps := make([]ProofStep, len(raw))
	for i, r := range raw {
		sibling, err := ParseDigest(r.Hash)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d", i)
		}
		side := Side(r.Position)
		if !side.Valid() {
			return nil, errors.Wrapf(ErrMalformedProof, "step %d has invalid position %q", i, r.Position)
		}
		steps[i] = ProofStep{Sibling: sibling, Side: side}
	}
	return steps, nil
}
