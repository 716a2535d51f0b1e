package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/airdrop"
	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/merkle"
)

type rootResponse struct {
	Root string `json:"root"`
}

type proofResponse struct {
	Address string          `json:"address"`
	Amount  string          `json:"amount"`
	Root    string          `json:"root"`
	Proofs  json.RawMessage `json:"proofs"`
}

type verifyRequest struct {
	Address string          `json:"address"`
	Amount  string          `json:"amount"`
	Root    string          `json:"root"`
	Proofs  json.RawMessage `json:"proofs"`
}

type verifyResponse struct {
	Valid bool `json:"valid"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeJSON(w, rootResponse{Root: merkle.HexDigest(s.tree.Root)})
}

func (s *Server) handleProof(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reqID := uuid.NewString()
	address := r.URL.Query().Get("address")
	amount := r.URL.Query().Get("amount")
	if address == "" || amount == "" {
		http.Error(w, "address and amount query parameters are required", http.StatusBadRequest)
		return
	}

	index, err := airdrop.FindRecord(s.records, address, amount)
	if err != nil {
		s.logger.Sugar().Infow("Proof request for unknown record",
			"request_id", reqID, "address", address, "amount", amount)
		http.Error(w, "Record not found", http.StatusNotFound)
		return
	}

	proof, err := s.tree.GenerateProof(index)
	if err != nil {
		s.logger.Sugar().Errorw("Proof generation failed",
			"request_id", reqID, "index", index, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	steps, err := merkle.MarshalProofSteps(proof.Steps)
	if err != nil {
		s.logger.Sugar().Errorw("Proof encoding failed", "request_id", reqID, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	s.logger.Sugar().Debugw("Proof generated",
		"request_id", reqID, "address", address, "index", index, "steps", len(proof.Steps))

	s.writeJSON(w, proofResponse{
		Address: address,
		Amount:  amount,
		Root:    merkle.HexDigest(s.tree.Root),
		Proofs:  steps,
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reqID := uuid.NewString()

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Failed to parse request: %v", err), http.StatusBadRequest)
		return
	}

	root := merkle.HexDigest(s.tree.Root)
	if req.Root != "" {
		root = req.Root
	}

	valid, err := verifyAgainstRoot(s.encoding, req.Address, req.Amount, root, req.Proofs)
	if err != nil {
		s.logger.Sugar().Infow("Verify request rejected", "request_id", reqID, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Sugar().Debugw("Proof verified",
		"request_id", reqID, "address", req.Address, "valid", valid)

	s.writeJSON(w, verifyResponse{Valid: valid})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeJSON(w, map[string]interface{}{
		"status": "ok",
		"leaves": len(s.tree.Leaves),
	})
}

// verifyAgainstRoot encodes the queried leaf and replays the supplied proof
// against the claimed root. Malformed input is an error; a proof that
// simply does not match is (false, nil).
func verifyAgainstRoot(encoding airdrop.Encoding, address, amount, rootHex string, proofs json.RawMessage) (bool, error) {
	leaf, err := encoding.EncodeLeaf(address, amount)
	if err != nil {
		return false, err
	}

	root, err := merkle.ParseDigest(rootHex)
	if err != nil {
		return false, errors.Wrap(err, "root")
	}

	steps, err := merkle.UnmarshalProofSteps(proofs)
	if err != nil {
		return false, err
	}

	return merkle.VerifyProof(leaf, steps, root, encoding.Hash)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Sugar().Errorw("Failed to write response", "error", err)
	}
}
