package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/airdrop"
	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/merkle"
)

const (
	testAddr1 = "wasm1k9zf3fpfpsv3lprzvpu2hsr09xfnum3hsvhhrq"
	testAddr2 = "wasm1uyc4s9cetgrxtqqrvcadldexfgvjk055pumrg8"
	testAddr3 = "wasm13xm8rr5g0n4uhl7s3nvusyfgn806hd4lad9hl8"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	records := []airdrop.Record{
		{Address: testAddr1, Amount: "100"},
		{Address: testAddr2, Amount: "1010"},
	}
	encoding := airdrop.DefaultEncoding()
	tree, err := encoding.BuildTree(records)
	require.NoError(t, err)

	return NewServer(Config{
		Records:  records,
		Tree:     tree,
		Encoding: encoding,
		Port:     0,
		Logger:   zap.NewNop(),
	})
}

func TestHandleRoot(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.GetHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/root", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp rootResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "648ca406e856a00b1da470c5e1ba3cbe143d607a7626236d6cf7a3851d065fbb", resp.Root)
}

func TestHandleProof(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.GetHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/proof?address="+testAddr1+"&amount=100", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp proofResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, testAddr1, resp.Address)

	// The returned proof verifies against the returned root.
	steps, err := merkle.UnmarshalProofSteps(resp.Proofs)
	require.NoError(t, err)
	leaf, err := airdrop.DefaultEncoding().EncodeLeaf(testAddr1, "100")
	require.NoError(t, err)
	root, err := merkle.ParseDigest(resp.Root)
	require.NoError(t, err)

	valid, err := merkle.VerifyProof(leaf, steps, root, merkle.SHA256)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestHandleProofErrors(t *testing.T) {
	s := newTestServer(t)

	t.Run("Missing parameters", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.GetHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/proof", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unknown record", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.GetHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/proof?address="+testAddr3+"&amount=42", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Wrong method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.GetHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/proof", nil))
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandleVerify(t *testing.T) {
	s := newTestServer(t)

	// Fetch a proof first.
	rec := httptest.NewRecorder()
	s.GetHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/proof?address="+testAddr1+"&amount=100", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var proof proofResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &proof))

	verify := func(t *testing.T, req verifyRequest) verifyResponse {
		t.Helper()
		body, err := json.Marshal(req)
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		s.GetHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/verify", bytes.NewReader(body)))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp verifyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	t.Run("Valid proof", func(t *testing.T) {
		resp := verify(t, verifyRequest{
			Address: testAddr1, Amount: "100", Root: proof.Root, Proofs: proof.Proofs,
		})
		require.True(t, resp.Valid)
	})

	t.Run("Defaults to the served root", func(t *testing.T) {
		resp := verify(t, verifyRequest{
			Address: testAddr1, Amount: "100", Proofs: proof.Proofs,
		})
		require.True(t, resp.Valid)
	})

	t.Run("Unrelated record with the same proof", func(t *testing.T) {
		resp := verify(t, verifyRequest{
			Address: testAddr3, Amount: "42", Root: proof.Root, Proofs: proof.Proofs,
		})
		require.False(t, resp.Valid)
	})

	t.Run("Malformed proof is a 400", func(t *testing.T) {
		body, err := json.Marshal(verifyRequest{
			Address: testAddr1, Amount: "100", Root: proof.Root,
			Proofs: json.RawMessage(`[{"hash": "zz", "position": "left"}]`),
		})
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		s.GetHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/verify", bytes.NewReader(body)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Invalid address is a 400", func(t *testing.T) {
		body, err := json.Marshal(verifyRequest{
			Address: "junk", Amount: "100", Root: proof.Root, Proofs: proof.Proofs,
		})
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		s.GetHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/verify", bytes.NewReader(body)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.GetHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
}
