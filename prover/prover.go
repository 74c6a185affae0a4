// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

// Package prover assembles end-to-end Merkle inclusion proofs for validators
// and balances against a Berachain beacon state snapshot. A proof spans two
// trees glued into one flat sibling vector: the fixed-capacity registry tree
// (40 siblings plus the list's length-mix chunk) followed by the top-level
// state tree (4 siblings, or 5 with Electra). Proofs verify against the state
// root, and through the block header commitment against the beacon block
// root.
package prover

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/berachain/bera-proofs/ssz"
	"github.com/berachain/bera-proofs/types"
)

var (
	// ErrIndexOutOfRange is returned when a requested validator or balance
	// index exceeds the state's collection length.
	ErrIndexOutOfRange = errors.New("prover: index out of range")

	// ErrMalformedHex is returned when a caller supplied historical root is
	// not a 0x prefixed 32 byte hex string.
	ErrMalformedHex = errors.New("prover: malformed historical root")

	// ErrVerificationFailed is returned when a freshly generated proof does
	// not fold back into the state root it was generated against. It signals
	// an internal inconsistency, never bad caller input.
	ErrVerificationFailed = errors.New("prover: generated proof failed verification")
)

// Options carries the per-call knobs of proof generation. The historical
// roots are optional 0x hex strings; when empty, the previous-cycle roots are
// read out of the state's own ring buffers at slot % 8.
type Options struct {
	PrevBlockRoot string
	PrevStateRoot string
	Electra       bool
}

// Metadata describes how a proof was derived and how to verify it: fold the
// leaf with the proof vector, consuming one bit of Index per sibling.
type Metadata struct {
	Slot           uint64        `json:"slot"`
	ValidatorIndex uint64        `json:"validator_index"`
	Index          uint64        `json:"index"`
	Electra        bool          `json:"electra"`
	PrevBlockRoot  hexutil.Bytes `json:"prev_block_root"`
	PrevStateRoot  hexutil.Bytes `json:"prev_state_root"`
}

// Proof is one generated inclusion proof with the roots it verifies against.
// All byte fields hex-encode with a 0x prefix on the wire.
type Proof struct {
	Proof           []hexutil.Bytes `json:"proof"`
	Leaf            hexutil.Bytes   `json:"leaf"`
	StateRoot       hexutil.Bytes   `json:"state_root"`
	BeaconBlockRoot hexutil.Bytes   `json:"beacon_block_root"`
	Metadata        Metadata        `json:"metadata"`
}

// CombinedProof bundles the validator and balance proofs generated against
// one shared state snapshot, so both verify against the same roots.
type CombinedProof struct {
	ValidatorProof *Proof `json:"validator_proof"`
	BalanceProof   *Proof `json:"balance_proof"`
}

// ParseRoot decodes a 0x prefixed 32 byte hex root.
func ParseRoot(s string) (ssz.Hash, error) {
	blob, err := hexutil.Decode(s)
	if err != nil {
		return ssz.Hash{}, fmt.Errorf("%w: %v", ErrMalformedHex, err)
	}
	if len(blob) != 32 {
		return ssz.Hash{}, fmt.Errorf("%w: have %d bytes, want 32", ErrMalformedHex, len(blob))
	}
	var h ssz.Hash
	copy(h[:], blob)
	return h, nil
}

// resolve produces the previous-cycle roots to substitute into the ring
// buffers: the caller's explicit values when given, the state's own entries
// at slot % 8 otherwise.
func (o Options) resolve(state *types.BeaconState) (prevBlock ssz.Hash, prevState ssz.Hash, err error) {
	if o.PrevBlockRoot != "" {
		if prevBlock, err = ParseRoot(o.PrevBlockRoot); err != nil {
			return ssz.Hash{}, ssz.Hash{}, err
		}
	} else {
		prevBlock = types.HistoricalRootAt(state.BlockRoots, state.Slot)
	}
	if o.PrevStateRoot != "" {
		if prevState, err = ParseRoot(o.PrevStateRoot); err != nil {
			return ssz.Hash{}, ssz.Hash{}, err
		}
	} else {
		prevState = types.HistoricalRootAt(state.StateRoots, state.Slot)
	}
	return prevBlock, prevState, nil
}

// GenerateValidatorProof proves the inclusion of one validator's merkle root
// in the state: 40 registry siblings, the registry's length-mix chunk, then
// the state tree's sibling path for the validators field.
func GenerateValidatorProof(state *types.BeaconState, index uint64, opts Options) (*Proof, error) {
	if index >= uint64(len(state.Validators)) {
		return nil, fmt.Errorf("%w: validator %d, registry size %d", ErrIndexOutOfRange, index, len(state.Validators))
	}
	leaves := types.ValidatorLeaves(state.Validators)
	return generate(state, opts, proofTarget{
		leaves:         leaves,
		leafIndex:      index,
		capacity:       types.ValidatorRegistryLimit,
		length:         uint64(len(state.Validators)),
		field:          types.StateFieldValidators,
		validatorIndex: index,
	})
}

// GenerateBalanceProof proves the inclusion of the packed balance chunk
// holding one validator's balance. Balances pack four uint64 per chunk, so
// the proven leaf sits at index/4 and carries the three neighboring balances
// alongside the requested one.
func GenerateBalanceProof(state *types.BeaconState, index uint64, opts Options) (*Proof, error) {
	if index >= uint64(len(state.Balances)) {
		return nil, fmt.Errorf("%w: balance %d, list size %d", ErrIndexOutOfRange, index, len(state.Balances))
	}
	chunks := ssz.PackUint64Vector(state.Balances, len(state.Balances))
	return generate(state, opts, proofTarget{
		leaves:         chunks,
		leafIndex:      index / 4,
		capacity:       types.BalancesChunkLimit,
		length:         uint64(len(state.Balances)),
		field:          types.StateFieldBalances,
		validatorIndex: index,
	})
}

// GenerateCombinedProof generates the validator and balance proofs for one
// index against a single state snapshot. Merkleization never mutates the
// snapshot, so both passes see identical input and their roots must agree.
func GenerateCombinedProof(state *types.BeaconState, index uint64, opts Options) (*CombinedProof, error) {
	validator, err := GenerateValidatorProof(state, index, opts)
	if err != nil {
		return nil, err
	}
	balance, err := GenerateBalanceProof(state, index, opts)
	if err != nil {
		return nil, err
	}
	return &CombinedProof{ValidatorProof: validator, BalanceProof: balance}, nil
}

// proofTarget names one provable leaf: its position within a fixed-capacity
// collection and the state field the collection hangs off.
type proofTarget struct {
	leaves         []ssz.Hash
	leafIndex      uint64
	capacity       uint64
	length         uint64
	field          int
	validatorIndex uint64
}

// generate assembles the two-level proof for one target. The collection root
// is recomputed from the proof itself and fed back into the state tree, so
// the proof and the root derive from one computation rather than two passes
// that could silently diverge.
func generate(state *types.BeaconState, opts Options, target proofTarget) (*Proof, error) {
	prevBlock, prevState, err := opts.resolve(state)
	if err != nil {
		return nil, err
	}
	proof, err := ssz.ProveFixed(target.leaves, int(target.leafIndex), target.capacity)
	if err != nil {
		return nil, err
	}
	// The list's length mix is one more hash layer on top of the capacity
	// tree; surface it as an extra proof element with the leaf on the left.
	proof = append(proof, ssz.EncodeUint64(target.length))

	leaf := target.leaves[target.leafIndex]
	collectionRoot := ssz.ComputeRootFromProof(leaf, target.leafIndex, proof)

	fieldRoots, err := state.FieldRoots(prevBlock, prevState, opts.Electra)
	if err != nil {
		return nil, err
	}
	fieldRoots[target.field] = collectionRoot
	tree := ssz.BuildTree(fieldRoots)
	fieldProof, err := tree.Proof(target.field)
	if err != nil {
		return nil, err
	}
	proof = append(proof, fieldProof...)
	stateRoot := tree.Root()

	// Composite verification index: the leaf's position within the capacity
	// tree, a zero bit for the length-mix layer, then the field index.
	index := target.leafIndex | uint64(target.field)<<(bits.TrailingZeros64(target.capacity)+1)
	if !ssz.VerifyProof(leaf, index, proof, stateRoot) {
		return nil, ErrVerificationFailed
	}

	header := *state.LatestBlockHeader
	header.StateRoot = stateRoot
	blockRoot := header.HashTreeRoot()

	return &Proof{
		Proof:           hexChunks(proof),
		Leaf:            hexHash(leaf),
		StateRoot:       hexHash(stateRoot),
		BeaconBlockRoot: hexHash(blockRoot),
		Metadata: Metadata{
			Slot:           state.Slot,
			ValidatorIndex: target.validatorIndex,
			Index:          index,
			Electra:        opts.Electra,
			PrevBlockRoot:  hexHash(prevBlock),
			PrevStateRoot:  hexHash(prevState),
		},
	}, nil
}

func hexHash(h ssz.Hash) hexutil.Bytes {
	return h[:]
}

func hexChunks(chunks []ssz.Hash) []hexutil.Bytes {
	out := make([]hexutil.Bytes, len(chunks))
	for i := range chunks {
		out[i] = chunks[i][:]
	}
	return out
}
