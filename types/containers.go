// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

package types

import (
	"github.com/holiman/uint256"

	"github.com/berachain/bera-proofs/ssz"
)

// Fork pins the network's previous and current version around an epoch.
type Fork struct {
	PreviousVersion [4]byte
	CurrentVersion  [4]byte
	Epoch           uint64
}

// FieldRoots returns the chunk roots of the container's fields in declaration
// order, padded with zero chunks to the 4 leaf tree shape.
func (f *Fork) FieldRoots() []ssz.Hash {
	return []ssz.Hash{
		ssz.EncodeStaticBytes(&f.PreviousVersion),
		ssz.EncodeStaticBytes(&f.CurrentVersion),
		ssz.EncodeUint64(f.Epoch),
		{},
	}
}

// HashTreeRoot computes the container's SSZ merkle root.
func (f *Fork) HashTreeRoot() ssz.Hash {
	return ssz.RootOfList(f.FieldRoots())
}

// FieldProof extracts the sibling path of one field within the container.
func (f *Fork) FieldProof(index int) ([]ssz.Hash, error) {
	return ssz.BuildTree(f.FieldRoots()).Proof(index)
}

// BeaconBlockHeader is the slim header a beacon block commits to. Its
// StateRoot is the one field deliberately zeroed before merkleizing a state
// for proof generation, since the true state root is the value being proven.
type BeaconBlockHeader struct {
	Slot          uint64
	ProposerIndex uint64
	ParentRoot    ssz.Hash
	StateRoot     ssz.Hash
	BodyRoot      ssz.Hash
}

// FieldRoots returns the field chunk roots padded to the 8 leaf tree shape.
func (h *BeaconBlockHeader) FieldRoots() []ssz.Hash {
	return []ssz.Hash{
		ssz.EncodeUint64(h.Slot),
		ssz.EncodeUint64(h.ProposerIndex),
		h.ParentRoot,
		h.StateRoot,
		h.BodyRoot,
		{}, {}, {},
	}
}

// HashTreeRoot computes the container's SSZ merkle root.
func (h *BeaconBlockHeader) HashTreeRoot() ssz.Hash {
	return ssz.RootOfList(h.FieldRoots())
}

// FieldProof extracts the sibling path of one field within the container.
func (h *BeaconBlockHeader) FieldProof(index int) ([]ssz.Hash, error) {
	return ssz.BuildTree(h.FieldRoots()).Proof(index)
}

// Eth1Data carries the execution chain view the beacon chain agreed on.
type Eth1Data struct {
	DepositRoot  ssz.Hash
	DepositCount uint64
	BlockHash    ssz.Hash
}

// FieldRoots returns the field chunk roots padded to the 4 leaf tree shape.
func (e *Eth1Data) FieldRoots() []ssz.Hash {
	return []ssz.Hash{
		e.DepositRoot,
		ssz.EncodeUint64(e.DepositCount),
		e.BlockHash,
		{},
	}
}

// HashTreeRoot computes the container's SSZ merkle root.
func (e *Eth1Data) HashTreeRoot() ssz.Hash {
	return ssz.RootOfList(e.FieldRoots())
}

// FieldProof extracts the sibling path of one field within the container.
func (e *Eth1Data) FieldProof(index int) ([]ssz.Hash, error) {
	return ssz.BuildTree(e.FieldRoots()).Proof(index)
}

// ExecutionPayloadHeader is the fixed-shape execution payload commitment
// embedded in the beacon state.
type ExecutionPayloadHeader struct {
	ParentHash       ssz.Hash
	FeeRecipient     [20]byte
	StateRoot        ssz.Hash
	ReceiptsRoot     ssz.Hash
	LogsBloom        [256]byte
	PrevRandao       ssz.Hash
	BlockNumber      uint64
	GasLimit         uint64
	GasUsed          uint64
	Timestamp        uint64
	ExtraData        []byte
	BaseFeePerGas    *uint256.Int
	BlockHash        ssz.Hash
	TransactionsRoot ssz.Hash
	WithdrawalsRoot  ssz.Hash
	BlobGasUsed      uint64
	ExcessBlobGas    uint64
}

// FieldRoots returns the 17 field chunk roots padded to the 32 leaf tree
// shape. It fails if extra_data exceeds its 32 byte maximum, the only
// variable-length field of the container.
func (h *ExecutionPayloadHeader) FieldRoots() ([]ssz.Hash, error) {
	extraData, err := ssz.EncodeByteList(h.ExtraData, MaxExtraDataBytes)
	if err != nil {
		return nil, err
	}
	roots := make([]ssz.Hash, 32)
	copy(roots, []ssz.Hash{
		h.ParentHash,
		ssz.EncodeStaticBytes(&h.FeeRecipient),
		h.StateRoot,
		h.ReceiptsRoot,
		ssz.EncodeStaticBytes(&h.LogsBloom),
		h.PrevRandao,
		ssz.EncodeUint64(h.BlockNumber),
		ssz.EncodeUint64(h.GasLimit),
		ssz.EncodeUint64(h.GasUsed),
		ssz.EncodeUint64(h.Timestamp),
		extraData,
		ssz.EncodeUint256(h.BaseFeePerGas),
		h.BlockHash,
		h.TransactionsRoot,
		h.WithdrawalsRoot,
		ssz.EncodeUint64(h.BlobGasUsed),
		ssz.EncodeUint64(h.ExcessBlobGas),
	})
	return roots, nil
}

// HashTreeRoot computes the container's SSZ merkle root.
func (h *ExecutionPayloadHeader) HashTreeRoot() (ssz.Hash, error) {
	roots, err := h.FieldRoots()
	if err != nil {
		return ssz.Hash{}, err
	}
	return ssz.RootOfList(roots), nil
}

// FieldProof extracts the sibling path of one field within the container.
func (h *ExecutionPayloadHeader) FieldProof(index int) ([]ssz.Hash, error) {
	roots, err := h.FieldRoots()
	if err != nil {
		return nil, err
	}
	return ssz.BuildTree(roots).Proof(index)
}

// Validator is one entry of the registry. Its 8 fields already form a full
// binary tree, no padding needed.
type Validator struct {
	Pubkey                     [48]byte
	WithdrawalCredentials      ssz.Hash
	EffectiveBalance           uint64
	Slashed                    bool
	ActivationEligibilityEpoch uint64
	ActivationEpoch            uint64
	ExitEpoch                  uint64
	WithdrawableEpoch          uint64
}

// FieldRoots returns the field chunk roots in declaration order.
func (v *Validator) FieldRoots() []ssz.Hash {
	return []ssz.Hash{
		ssz.EncodeStaticBytes(&v.Pubkey),
		v.WithdrawalCredentials,
		ssz.EncodeUint64(v.EffectiveBalance),
		ssz.EncodeBool(v.Slashed),
		ssz.EncodeUint64(v.ActivationEligibilityEpoch),
		ssz.EncodeUint64(v.ActivationEpoch),
		ssz.EncodeUint64(v.ExitEpoch),
		ssz.EncodeUint64(v.WithdrawableEpoch),
	}
}

// HashTreeRoot computes the container's SSZ merkle root.
func (v *Validator) HashTreeRoot() ssz.Hash {
	return ssz.RootOfList(v.FieldRoots())
}

// FieldProof extracts the sibling path of one field within the container.
func (v *Validator) FieldProof(index int) ([]ssz.Hash, error) {
	return ssz.BuildTree(v.FieldRoots()).Proof(index)
}

// PendingPartialWithdrawal is one queued Electra withdrawal.
type PendingPartialWithdrawal struct {
	ValidatorIndex    uint64
	Amount            uint64
	WithdrawableEpoch uint64
}

// FieldRoots returns the field chunk roots padded to the 4 leaf tree shape.
func (w *PendingPartialWithdrawal) FieldRoots() []ssz.Hash {
	return []ssz.Hash{
		ssz.EncodeUint64(w.ValidatorIndex),
		ssz.EncodeUint64(w.Amount),
		ssz.EncodeUint64(w.WithdrawableEpoch),
		{},
	}
}

// HashTreeRoot computes the container's SSZ merkle root.
func (w *PendingPartialWithdrawal) HashTreeRoot() ssz.Hash {
	return ssz.RootOfList(w.FieldRoots())
}
