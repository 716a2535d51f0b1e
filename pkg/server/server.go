package server

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/airdrop"
	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/merkle"
)

// Server serves read-only root/proof/verify endpoints over one immutable
// tree built from a loaded allocation list. The tree is built once at
// startup; concurrent proof generation needs no coordination.
//
// Endpoints:
//
//	GET  /root                        -> {"root": <hex>}
//	GET  /proof?address=..&amount=..  -> proof for the matching record
//	POST /verify                      -> {"valid": bool}
//	GET  /healthz
type Server struct {
	records    []airdrop.Record
	tree       *merkle.MerkleTree
	encoding   airdrop.Encoding
	logger     *zap.Logger
	httpServer *http.Server
}

// Config holds the proof service configuration.
type Config struct {
	Records  []airdrop.Record
	Tree     *merkle.MerkleTree
	Encoding airdrop.Encoding
	Port     int
	Logger   *zap.Logger
}

// NewServer creates a proof service over an already built tree.
func NewServer(cfg Config) *Server {
	s := &Server{
		records:  cfg.Records,
		tree:     cfg.Tree,
		encoding: cfg.Encoding,
		logger:   cfg.Logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/root", s.handleRoot)
	mux.HandleFunc("/proof", s.handleProof)
	mux.HandleFunc("/verify", s.handleVerify)
	mux.HandleFunc("/healthz", s.handleHealthz)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	return s
}

// Start starts the HTTP server in the background.
func (s *Server) Start() error {
	go func() {
		s.logger.Sugar().Infow("Starting proof service",
			"addr", s.httpServer.Addr,
			"records", len(s.records),
			"root", merkle.HexDigest(s.tree.Root))
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Sugar().Errorw("Proof service error", "error", err)
		}
	}()
	return nil
}

// Stop stops the HTTP server.
func (s *Server) Stop() error {
	return s.httpServer.Close()
}

// GetHandler returns the HTTP handler (for testing)
func (s *Server) GetHandler() http.Handler {
	return s.httpServer.Handler
}
