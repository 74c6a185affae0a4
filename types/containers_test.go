// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

package types

import (
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/berachain/bera-proofs/ssz"
)

// hashPair recomputes one interior node, used to cross-check container roots
// against hand-built trees.
func hashPair(left, right ssz.Hash) ssz.Hash {
	var buf [64]byte
	copy(buf[:32], left[:])
	copy(buf[32:], right[:])
	return sha256.Sum256(buf[:])
}

// Tests that the small containers merkleize exactly like a hand-built tree
// over their field chunks, padding included.
func TestContainerRoots(t *testing.T) {
	fork := &Fork{
		PreviousVersion: [4]byte{1, 0, 0, 0},
		CurrentVersion:  [4]byte{2, 0, 0, 0},
		Epoch:           3,
	}
	leaves := fork.FieldRoots()
	if len(leaves) != 4 {
		t.Fatalf("fork leaf count mismatch: have %d, want 4", len(leaves))
	}
	want := hashPair(hashPair(leaves[0], leaves[1]), hashPair(leaves[2], leaves[3]))
	if have := fork.HashTreeRoot(); have != want {
		t.Errorf("fork root mismatch: have %x, want %x", have, want)
	}

	header := &BeaconBlockHeader{
		Slot:          42,
		ProposerIndex: 7,
		ParentRoot:    ssz.Hash{0xaa},
		StateRoot:     ssz.Hash{0xbb},
		BodyRoot:      ssz.Hash{0xcc},
	}
	leaves = header.FieldRoots()
	if len(leaves) != 8 {
		t.Fatalf("header leaf count mismatch: have %d, want 8", len(leaves))
	}
	want = hashPair(
		hashPair(hashPair(leaves[0], leaves[1]), hashPair(leaves[2], leaves[3])),
		hashPair(hashPair(leaves[4], leaves[5]), hashPair(leaves[6], leaves[7])),
	)
	if have := header.HashTreeRoot(); have != want {
		t.Errorf("header root mismatch: have %x, want %x", have, want)
	}

	validator := &Validator{
		Pubkey:                [48]byte{0x01, 0x02},
		WithdrawalCredentials: ssz.Hash{0x03},
		EffectiveBalance:      32_000_000_000,
		Slashed:               true,
		ActivationEpoch:       5,
		ExitEpoch:             ^uint64(0),
		WithdrawableEpoch:     ^uint64(0),
	}
	leaves = validator.FieldRoots()
	if len(leaves) != 8 {
		t.Fatalf("validator leaf count mismatch: have %d, want 8", len(leaves))
	}
	want = hashPair(
		hashPair(hashPair(leaves[0], leaves[1]), hashPair(leaves[2], leaves[3])),
		hashPair(hashPair(leaves[4], leaves[5]), hashPair(leaves[6], leaves[7])),
	)
	if have := validator.HashTreeRoot(); have != want {
		t.Errorf("validator root mismatch: have %x, want %x", have, want)
	}
}

// Tests that a field proof from each container verifies against its root.
func TestContainerFieldProofs(t *testing.T) {
	header := &BeaconBlockHeader{Slot: 9, ParentRoot: ssz.Hash{0x11}, BodyRoot: ssz.Hash{0x22}}
	for field := 0; field < 5; field++ {
		proof, err := header.FieldProof(field)
		if err != nil {
			t.Fatalf("field %d: failed to prove: %v", field, err)
		}
		if len(proof) != 3 {
			t.Fatalf("field %d: proof length mismatch: have %d, want 3", field, len(proof))
		}
		leaf := header.FieldRoots()[field]
		if !ssz.VerifyProof(leaf, uint64(field), proof, header.HashTreeRoot()) {
			t.Errorf("field %d: proof failed to verify", field)
		}
	}
	if _, err := header.FieldProof(8); !errors.Is(err, ssz.ErrIndexOutOfRange) {
		t.Errorf("out of range field error mismatch: have %v, want %v", err, ssz.ErrIndexOutOfRange)
	}
}

// Tests the execution payload header's variable-length extra_data handling:
// the sole fallible field, capped at 32 bytes.
func TestPayloadHeaderExtraData(t *testing.T) {
	header := &ExecutionPayloadHeader{ExtraData: make([]byte, MaxExtraDataBytes+1)}
	if _, err := header.HashTreeRoot(); !errors.Is(err, ssz.ErrLengthExceeded) {
		t.Errorf("oversize extra_data error mismatch: have %v, want %v", err, ssz.ErrLengthExceeded)
	}
	header.ExtraData = []byte("bera")
	roots, err := header.FieldRoots()
	if err != nil {
		t.Fatalf("failed to compute field roots: %v", err)
	}
	if len(roots) != 32 {
		t.Fatalf("payload leaf count mismatch: have %d, want 32", len(roots))
	}
	wantExtra, _ := ssz.EncodeByteList([]byte("bera"), MaxExtraDataBytes)
	if roots[10] != wantExtra {
		t.Errorf("extra_data leaf mismatch: have %x, want %x", roots[10], wantExtra)
	}
	root, err := header.HashTreeRoot()
	if err != nil {
		t.Fatalf("failed to compute root: %v", err)
	}
	proof, err := header.FieldProof(12)
	if err != nil {
		t.Fatalf("failed to prove block hash: %v", err)
	}
	if len(proof) != 5 {
		t.Fatalf("proof length mismatch: have %d, want 5", len(proof))
	}
	if !ssz.VerifyProof(roots[12], 12, proof, root) {
		t.Errorf("block hash proof failed to verify")
	}
}

// Tests the list roots against their defining composition: fixed-capacity
// merkleization of the element chunks with the element count mixed in.
func TestListRoots(t *testing.T) {
	validators := []*Validator{
		{EffectiveBalance: 32_000_000_000},
		{EffectiveBalance: 31_000_000_000, Slashed: true},
		{EffectiveBalance: 16_000_000_000},
	}
	inner, err := ssz.MerkleizeFixed(ValidatorLeaves(validators), ValidatorRegistryLimit)
	if err != nil {
		t.Fatalf("failed to merkleize validators: %v", err)
	}
	want := ssz.MixInLength(inner, uint64(len(validators)))
	have, err := ValidatorsRoot(validators)
	if err != nil {
		t.Fatalf("failed to compute validators root: %v", err)
	}
	if have != want {
		t.Errorf("validators root mismatch: have %x, want %x", have, want)
	}

	balances := []uint64{32_000_000_000, 31_000_000_000, 16_000_000_000}
	inner, err = ssz.MerkleizeFixed(ssz.PackUint64Vector(balances, len(balances)), BalancesChunkLimit)
	if err != nil {
		t.Fatalf("failed to merkleize balances: %v", err)
	}
	want = ssz.MixInLength(inner, uint64(len(balances)))
	have, err = BalancesRoot(balances)
	if err != nil {
		t.Fatalf("failed to compute balances root: %v", err)
	}
	if have != want {
		t.Errorf("balances root mismatch: have %x, want %x", have, want)
	}

	// The count mix applies to the historical vectors too, matching the
	// chain's state-root computation rather than vanilla SSZ vectors.
	roots := make([]ssz.Hash, BerachainVector)
	for i := range roots {
		roots[i] = ssz.Hash{byte(i + 1)}
	}
	inner, err = ssz.MerkleizeFixed(roots, SlotsPerHistoricalRoot)
	if err != nil {
		t.Fatalf("failed to merkleize historical roots: %v", err)
	}
	want = ssz.MixInLength(inner, BerachainVector)
	have, err = HistoricalRootsRoot(roots)
	if err != nil {
		t.Fatalf("failed to compute historical roots root: %v", err)
	}
	if have != want {
		t.Errorf("historical roots root mismatch: have %x, want %x", have, want)
	}
}
