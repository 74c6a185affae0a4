// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/berachain/bera-proofs/beacon"
	"github.com/berachain/bera-proofs/prover"
)

// Server is the REST front of the proof service.
type Server struct {
	svc    *Service
	router chi.Router
	log    log.Logger
}

// NewServer builds the router: CORS open to any origin (the service is a
// read-only proof oracle), panic recovery, the three proof endpoints and the
// health probe.
func NewServer(svc *Service) *Server {
	s := &Server{svc: svc, log: log.New("module", "api")}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Get("/health", s.handleHealth)
	r.Route("/proofs", func(r chi.Router) {
		r.Post("/validator", s.handleProof(func(ctx context.Context, req ProofRequest) (any, error) {
			return s.svc.ValidatorProof(ctx, req)
		}))
		r.Post("/balance", s.handleProof(func(ctx context.Context, req ProofRequest) (any, error) {
			return s.svc.BalanceProof(ctx, req)
		}))
		r.Post("/combined", s.handleProof(func(ctx context.Context, req ProofRequest) (any, error) {
			return s.svc.CombinedProof(ctx, req)
		}))
	})
	s.router = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Listen serves until the listener fails or the process dies.
func (s *Server) Listen(addr string) error {
	s.log.Info("Serving proof API", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "beacon": "reachable"}
	if err := s.svc.Healthy(r.Context()); err != nil {
		status["status"] = "degraded"
		status["beacon"] = err.Error()
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleProof(generate func(context.Context, ProofRequest) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProofRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		result, err := generate(r.Context(), req)
		if err != nil {
			s.log.Warn("Proof generation failed", "identifier", req.Identifier, "err", err)
			writeError(w, statusOf(err), err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// statusOf maps the service's failure modes onto HTTP codes: caller mistakes
// are 400, missing entities 404, everything else is the node's or our fault.
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrBadIdentifier), errors.Is(err, prover.ErrMalformedHex):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownValidator), errors.Is(err, prover.ErrIndexOutOfRange), errors.Is(err, beacon.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
