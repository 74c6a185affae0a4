// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"

	"github.com/berachain/bera-proofs/ssz"
)

// BeaconState is a complete Berachain beacon state snapshot, parsed once from
// JSON and discarded after proof generation. All merkleization entry points
// operate on transient copies of the header and ring buffers, the snapshot
// itself is never mutated and can be shared across proof calls.
type BeaconState struct {
	GenesisValidatorsRoot        ssz.Hash
	Slot                         uint64
	Fork                         *Fork
	LatestBlockHeader            *BeaconBlockHeader
	BlockRoots                   []ssz.Hash
	StateRoots                   []ssz.Hash
	Eth1Data                     *Eth1Data
	Eth1DepositIndex             uint64
	ExecutionPayloadHeader       *ExecutionPayloadHeader
	Validators                   []*Validator
	Balances                     []uint64
	RandaoMixes                  []ssz.Hash
	NextWithdrawalIndex          uint64
	NextWithdrawalValidatorIndex uint64
	Slashings                    []uint64
	TotalSlashing                uint64
	PendingPartialWithdrawals    []*PendingPartialWithdrawal // Electra only
}

// HistoricalRootAt reads the ring buffer slot the state's own slot maps to,
// used to default the previous-cycle roots when the caller supplies none.
func HistoricalRootAt(roots []ssz.Hash, slot uint64) ssz.Hash {
	if len(roots) == 0 {
		return ssz.Hash{}
	}
	return roots[slot%BerachainVector]
}

// substituteHistorical copies a ring buffer with the given slot's entry
// replaced by the previous-cycle root.
func substituteHistorical(roots []ssz.Hash, slot uint64, root ssz.Hash) []ssz.Hash {
	out := append([]ssz.Hash(nil), roots...)
	if idx := int(slot % BerachainVector); idx < len(out) {
		out[idx] = root
	}
	return out
}

// FieldRoots computes the ordered top-level field roots of the state as they
// enter the state-root tree. Two substitutions are applied on copies before
// hashing, both required by the chain's self-referential header commitment:
// the header's state root is zeroed (it commits to the value being computed)
// and the ring buffer slot slot%8 of state_roots/block_roots is overwritten
// with the caller's previous-cycle roots from 8 slots back.
//
// Without Electra the tree has 16 leaves; with it, pending partial
// withdrawals join as field 16 and the list is padded to 32 leaves.
func (s *BeaconState) FieldRoots(prevBlockRoot, prevStateRoot ssz.Hash, electra bool) ([]ssz.Hash, error) {
	header := *s.LatestBlockHeader
	header.StateRoot = ssz.Hash{}

	blockRoots, err := HistoricalRootsRoot(substituteHistorical(s.BlockRoots, s.Slot, prevBlockRoot))
	if err != nil {
		return nil, fmt.Errorf("block roots: %w", err)
	}
	stateRoots, err := HistoricalRootsRoot(substituteHistorical(s.StateRoots, s.Slot, prevStateRoot))
	if err != nil {
		return nil, fmt.Errorf("state roots: %w", err)
	}
	payload, err := s.ExecutionPayloadHeader.HashTreeRoot()
	if err != nil {
		return nil, fmt.Errorf("execution payload header: %w", err)
	}
	validators, err := ValidatorsRoot(s.Validators)
	if err != nil {
		return nil, fmt.Errorf("validators: %w", err)
	}
	balances, err := BalancesRoot(s.Balances)
	if err != nil {
		return nil, fmt.Errorf("balances: %w", err)
	}
	randaoMixes, err := RandaoMixesRoot(s.RandaoMixes)
	if err != nil {
		return nil, fmt.Errorf("randao mixes: %w", err)
	}
	slashings, err := SlashingsRoot(s.Slashings)
	if err != nil {
		return nil, fmt.Errorf("slashings: %w", err)
	}
	roots := []ssz.Hash{
		s.GenesisValidatorsRoot,
		ssz.EncodeUint64(s.Slot),
		s.Fork.HashTreeRoot(),
		header.HashTreeRoot(),
		blockRoots,
		stateRoots,
		s.Eth1Data.HashTreeRoot(),
		ssz.EncodeUint64(s.Eth1DepositIndex),
		payload,
		validators,
		balances,
		randaoMixes,
		ssz.EncodeUint64(s.NextWithdrawalIndex),
		ssz.EncodeUint64(s.NextWithdrawalValidatorIndex),
		slashings,
		ssz.EncodeUint64(s.TotalSlashing),
	}
	if electra {
		withdrawals, err := PendingPartialWithdrawalsRoot(s.PendingPartialWithdrawals)
		if err != nil {
			return nil, fmt.Errorf("pending partial withdrawals: %w", err)
		}
		roots = append(roots, withdrawals)
		for len(roots) < 32 {
			roots = append(roots, ssz.Hash{})
		}
	}
	return roots, nil
}

// HashTreeRoot computes the state root with the two historical substitutions
// applied.
func (s *BeaconState) HashTreeRoot(prevBlockRoot, prevStateRoot ssz.Hash, electra bool) (ssz.Hash, error) {
	roots, err := s.FieldRoots(prevBlockRoot, prevStateRoot, electra)
	if err != nil {
		return ssz.Hash{}, err
	}
	return ssz.RootOfList(roots), nil
}

// FieldProof extracts the sibling path of one top-level field within the
// state tree. The tree has 16 or 32 leaves, so unlike the collection fields
// it is small enough to materialize outright.
func (s *BeaconState) FieldProof(prevBlockRoot, prevStateRoot ssz.Hash, electra bool, field int) ([]ssz.Hash, error) {
	roots, err := s.FieldRoots(prevBlockRoot, prevStateRoot, electra)
	if err != nil {
		return nil, err
	}
	return ssz.BuildTree(roots).Proof(field)
}
