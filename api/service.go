// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

// Package api exposes proof generation over REST: a thin service layer that
// fetches state from a beacon node, resolves validator identifiers and runs
// the prover, plus the chi router serving it.
package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"

	"github.com/berachain/bera-proofs/prover"
	"github.com/berachain/bera-proofs/ssz"
	"github.com/berachain/bera-proofs/types"
)

var (
	// ErrBadIdentifier is returned when a validator identifier is neither a
	// decimal index nor a 48 byte 0x pubkey.
	ErrBadIdentifier = errors.New("api: malformed validator identifier")

	// ErrUnknownValidator is returned when a pubkey matches no registry
	// entry in the loaded state.
	ErrUnknownValidator = errors.New("api: unknown validator")
)

// StateSource supplies beacon state snapshots and historical roots, normally
// a *beacon.Client.
type StateSource interface {
	State(ctx context.Context, slot string) (*types.BeaconState, error)
	HistoricalRoots(ctx context.Context, slot uint64) (ssz.Hash, ssz.Hash, error)
	Healthy(ctx context.Context) error
}

// ProofRequest is the shared request body of the proof endpoints.
type ProofRequest struct {
	Identifier    string `json:"identifier"`
	Slot          string `json:"slot,omitempty"`
	PrevBlockRoot string `json:"prev_block_root,omitempty"`
	PrevStateRoot string `json:"prev_state_root,omitempty"`
	Electra       bool   `json:"electra,omitempty"`
}

// Service glues the beacon client and the prover together.
type Service struct {
	source StateSource
	log    log.Logger
}

// NewService creates a proof service over the given state source.
func NewService(source StateSource) *Service {
	return &Service{source: source, log: log.New("module", "api")}
}

// ValidatorProof generates a validator inclusion proof for the request.
func (s *Service) ValidatorProof(ctx context.Context, req ProofRequest) (*prover.Proof, error) {
	state, index, opts, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return prover.GenerateValidatorProof(state, index, opts)
}

// BalanceProof generates a balance inclusion proof for the request.
func (s *Service) BalanceProof(ctx context.Context, req ProofRequest) (*prover.Proof, error) {
	state, index, opts, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return prover.GenerateBalanceProof(state, index, opts)
}

// CombinedProof generates both proofs against one fetched state.
func (s *Service) CombinedProof(ctx context.Context, req ProofRequest) (*prover.CombinedProof, error) {
	state, index, opts, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return prover.GenerateCombinedProof(state, index, opts)
}

// Healthy reports whether the upstream beacon node is reachable.
func (s *Service) Healthy(ctx context.Context) error {
	return s.source.Healthy(ctx)
}

// prepare fetches the state, resolves the validator identifier and fills in
// the historical roots the caller left out from the header 8 slots back.
func (s *Service) prepare(ctx context.Context, req ProofRequest) (*types.BeaconState, uint64, prover.Options, error) {
	slot := req.Slot
	if slot == "" {
		slot = "head"
	}
	state, err := s.source.State(ctx, slot)
	if err != nil {
		return nil, 0, prover.Options{}, err
	}
	index, err := ResolveIdentifier(state, req.Identifier)
	if err != nil {
		return nil, 0, prover.Options{}, err
	}
	opts := prover.Options{
		PrevBlockRoot: req.PrevBlockRoot,
		PrevStateRoot: req.PrevStateRoot,
		Electra:       req.Electra,
	}
	if opts.PrevBlockRoot == "" && opts.PrevStateRoot == "" {
		prevBlock, prevState, err := s.source.HistoricalRoots(ctx, state.Slot)
		if err != nil {
			return nil, 0, prover.Options{}, err
		}
		// Zero roots mean no history was available; keep the state's own
		// ring buffer entries instead.
		if prevBlock != (ssz.Hash{}) || prevState != (ssz.Hash{}) {
			opts.PrevBlockRoot = hexutil.Encode(prevBlock[:])
			opts.PrevStateRoot = hexutil.Encode(prevState[:])
		}
	}
	s.log.Debug("Prepared proof request", "slot", state.Slot, "validator", index, "electra", opts.Electra)
	return state, index, opts, nil
}

// ResolveIdentifier maps a validator identifier onto a registry index. An
// identifier is either the index in decimal or the validator's 48 byte
// pubkey as 0x hex.
func ResolveIdentifier(state *types.BeaconState, identifier string) (uint64, error) {
	if identifier == "" {
		return 0, fmt.Errorf("%w: empty", ErrBadIdentifier)
	}
	if strings.HasPrefix(identifier, "0x") {
		blob, err := hexutil.Decode(identifier)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBadIdentifier, err)
		}
		if len(blob) != 48 {
			return 0, fmt.Errorf("%w: pubkey has %d bytes, want 48", ErrBadIdentifier, len(blob))
		}
		var pubkey [48]byte
		copy(pubkey[:], blob)
		for i, v := range state.Validators {
			if v.Pubkey == pubkey {
				return uint64(i), nil
			}
		}
		return 0, fmt.Errorf("%w: pubkey %s", ErrUnknownValidator, identifier)
	}
	index, err := strconv.ParseUint(identifier, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadIdentifier, identifier)
	}
	return index, nil
}
