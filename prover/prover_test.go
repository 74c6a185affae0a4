// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

package prover

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/berachain/bera-proofs/ssz"
	"github.com/berachain/bera-proofs/types"
)

// testState assembles a synthetic state with enough validators to make the
// packed balance chunks interesting (more than one chunk, partial last one).
func testState() *types.BeaconState {
	ring := func(seed byte) []ssz.Hash {
		roots := make([]ssz.Hash, types.BerachainVector)
		for i := range roots {
			roots[i] = ssz.Hash{seed, byte(i)}
		}
		return roots
	}
	validators := make([]*types.Validator, 7)
	balances := make([]uint64, 7)
	for i := range validators {
		validators[i] = &types.Validator{
			Pubkey:           [48]byte{byte(i + 1)},
			EffectiveBalance: 32_000_000_000,
			ExitEpoch:        ^uint64(0),
		}
		balances[i] = 32_000_000_000 + uint64(i)
	}
	return &types.BeaconState{
		GenesisValidatorsRoot: ssz.Hash{0x01},
		Slot:                  12347,
		Fork:                  &types.Fork{Epoch: 1},
		LatestBlockHeader: &types.BeaconBlockHeader{
			Slot:       12347,
			ParentRoot: ssz.Hash{0x02},
			StateRoot:  ssz.Hash{0x03},
			BodyRoot:   ssz.Hash{0x04},
		},
		BlockRoots:       ring(0x10),
		StateRoots:       ring(0x20),
		Eth1Data:         &types.Eth1Data{DepositCount: 7},
		Eth1DepositIndex: 7,
		ExecutionPayloadHeader: &types.ExecutionPayloadHeader{
			BlockNumber:   77,
			BaseFeePerGas: uint256.NewInt(7),
		},
		Validators:  validators,
		Balances:    balances,
		RandaoMixes: ring(0x30),
		Slashings:   make([]uint64, types.EpochsPerSlashingsVector),
		PendingPartialWithdrawals: []*types.PendingPartialWithdrawal{
			{ValidatorIndex: 1, Amount: 5, WithdrawableEpoch: 9},
		},
	}
}

func toHash(t *testing.T, b hexutil.Bytes) ssz.Hash {
	t.Helper()
	if len(b) != 32 {
		t.Fatalf("chunk length mismatch: have %d, want 32", len(b))
	}
	var h ssz.Hash
	copy(h[:], b)
	return h
}

func toHashes(t *testing.T, bs []hexutil.Bytes) []ssz.Hash {
	t.Helper()
	out := make([]ssz.Hash, len(bs))
	for i, b := range bs {
		out[i] = toHash(t, b)
	}
	return out
}

// Tests the validator proof shape and that the emitted proof verifies against
// the emitted state root using only the emitted metadata.
func TestGenerateValidatorProof(t *testing.T) {
	state := testState()
	for _, electra := range []bool{false, true} {
		want := 41 + 4
		if electra {
			want = 41 + 5
		}
		proof, err := GenerateValidatorProof(state, 3, Options{Electra: electra})
		if err != nil {
			t.Fatalf("electra %v: failed to generate proof: %v", electra, err)
		}
		if len(proof.Proof) != want {
			t.Fatalf("electra %v: proof length mismatch: have %d, want %d", electra, len(proof.Proof), want)
		}
		leaf := toHash(t, proof.Leaf)
		if leaf != state.Validators[3].HashTreeRoot() {
			t.Errorf("electra %v: leaf is not the validator root", electra)
		}
		if !ssz.VerifyProof(leaf, proof.Metadata.Index, toHashes(t, proof.Proof), toHash(t, proof.StateRoot)) {
			t.Errorf("electra %v: proof failed to verify", electra)
		}
		// Element 40 is the registry's length mix chunk.
		if mix := toHash(t, proof.Proof[40]); mix != ssz.EncodeUint64(uint64(len(state.Validators))) {
			t.Errorf("electra %v: length mix chunk mismatch: %x", electra, mix)
		}
		if proof.Metadata.Slot != state.Slot || proof.Metadata.ValidatorIndex != 3 {
			t.Errorf("electra %v: metadata mismatch: %+v", electra, proof.Metadata)
		}
	}
}

// Tests the balance proof: the leaf is the packed chunk at index/4 carrying
// four little-endian balances, proven into field 10 of the state tree.
func TestGenerateBalanceProof(t *testing.T) {
	state := testState()
	proof, err := GenerateBalanceProof(state, 6, Options{})
	if err != nil {
		t.Fatalf("failed to generate proof: %v", err)
	}
	if want := 39 + 4; len(proof.Proof) != want {
		t.Fatalf("proof length mismatch: have %d, want %d", len(proof.Proof), want)
	}
	// Balance 6 lives in chunk 1, slot 2 of the packed layout.
	leaf := toHash(t, proof.Leaf)
	if have := binary.LittleEndian.Uint64(leaf[16:24]); have != state.Balances[6] {
		t.Errorf("balance not found in leaf: have %d, want %d", have, state.Balances[6])
	}
	if !ssz.VerifyProof(leaf, proof.Metadata.Index, toHashes(t, proof.Proof), toHash(t, proof.StateRoot)) {
		t.Errorf("proof failed to verify")
	}
	// Balances sharing a chunk prove the same leaf.
	other, err := GenerateBalanceProof(state, 4, Options{})
	if err != nil {
		t.Fatalf("failed to generate second proof: %v", err)
	}
	if toHash(t, other.Leaf) != leaf {
		t.Errorf("chunk-mates proved different leaves")
	}
}

// Tests that validator and balance proofs generated against one snapshot
// agree on the state and block roots, across indices too.
func TestGenerateCombinedProof(t *testing.T) {
	state := testState()
	combined, err := GenerateCombinedProof(state, 2, Options{Electra: true})
	if err != nil {
		t.Fatalf("failed to generate proofs: %v", err)
	}
	vroot := toHash(t, combined.ValidatorProof.StateRoot)
	if broot := toHash(t, combined.BalanceProof.StateRoot); broot != vroot {
		t.Errorf("state root mismatch across proofs: %x vs %x", vroot, broot)
	}
	if combined.ValidatorProof.BeaconBlockRoot.String() != combined.BalanceProof.BeaconBlockRoot.String() {
		t.Errorf("block root mismatch across proofs")
	}
	// A proof for a different validator derives the identical state root.
	other, err := GenerateValidatorProof(state, 5, Options{Electra: true})
	if err != nil {
		t.Fatalf("failed to generate proof: %v", err)
	}
	if toHash(t, other.StateRoot) != vroot {
		t.Errorf("state root depends on the proven index")
	}
	// The block root is the header's root with the computed state root
	// substituted in.
	header := *state.LatestBlockHeader
	header.StateRoot = vroot
	if toHash(t, combined.ValidatorProof.BeaconBlockRoot) != header.HashTreeRoot() {
		t.Errorf("block root is not the substituted header root")
	}
}

// Tests the historical root overrides: explicit previous-cycle roots change
// the state root, defaults come from the ring buffers at slot % 8.
func TestHistoricalRootOverrides(t *testing.T) {
	state := testState()
	base, err := GenerateValidatorProof(state, 0, Options{})
	if err != nil {
		t.Fatalf("failed to generate proof: %v", err)
	}
	// The default substitution uses the ring buffer's own entry, which is a
	// no-op replacement, so the metadata echoes the ring entry.
	idx := state.Slot % types.BerachainVector
	if toHash(t, base.Metadata.PrevBlockRoot) != state.BlockRoots[idx] {
		t.Errorf("default previous block root mismatch: %x", base.Metadata.PrevBlockRoot)
	}
	overridden, err := GenerateValidatorProof(state, 0, Options{
		PrevBlockRoot: "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
	})
	if err != nil {
		t.Fatalf("failed to generate overridden proof: %v", err)
	}
	if toHash(t, overridden.StateRoot) == toHash(t, base.StateRoot) {
		t.Errorf("override had no effect on the state root")
	}
}

// Tests the failure modes: bad indices and malformed historical roots.
func TestGenerateProofFailures(t *testing.T) {
	state := testState()
	if _, err := GenerateValidatorProof(state, 7, Options{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("validator index error mismatch: have %v, want %v", err, ErrIndexOutOfRange)
	}
	if _, err := GenerateBalanceProof(state, 7, Options{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("balance index error mismatch: have %v, want %v", err, ErrIndexOutOfRange)
	}
	for _, root := range []string{"nope", "0x1234", "ffff"} {
		if _, err := GenerateValidatorProof(state, 0, Options{PrevStateRoot: root}); !errors.Is(err, ErrMalformedHex) {
			t.Errorf("root %q: error mismatch: have %v, want %v", root, err, ErrMalformedHex)
		}
	}
	if _, err := ParseRoot("0x" + "00000000000000000000000000000000000000000000000000000000000000"); !errors.Is(err, ErrMalformedHex) {
		t.Errorf("short root not rejected")
	}
}
