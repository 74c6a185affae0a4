// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

package types

import "github.com/berachain/bera-proofs/ssz"

// The beacon state's large collections share one shape: element chunks are
// merkleized against the field's nominal SSZ capacity (far larger than the
// real element count, folded in via zero-subtree hashes) and the real count
// is mixed into the final root. Berachain applies the count mix to its
// historical vectors too, not just to the true lists.

// mixInLength adapts ssz.MixInLength to the int lengths used around here.
func mixInLength(root ssz.Hash, length int) ssz.Hash {
	return ssz.MixInLength(root, uint64(length))
}

// ValidatorLeaves merkleizes every registry entry into its leaf hash.
func ValidatorLeaves(validators []*Validator) []ssz.Hash {
	leaves := make([]ssz.Hash, len(validators))
	for i, v := range validators {
		leaves[i] = v.HashTreeRoot()
	}
	return leaves
}

// ValidatorsRoot computes the root of the validator registry list against the
// 2^40 registry limit.
func ValidatorsRoot(validators []*Validator) (ssz.Hash, error) {
	root, err := ssz.MerkleizeFixed(ValidatorLeaves(validators), ValidatorRegistryLimit)
	if err != nil {
		return ssz.Hash{}, err
	}
	return mixInLength(root, len(validators)), nil
}

// BalancesRoot computes the root of the balances list: balances pack four to
// a chunk before merkleizing against the registry's chunk capacity, and the
// mixed-in count is the balance count, not the chunk count.
func BalancesRoot(balances []uint64) (ssz.Hash, error) {
	chunks := ssz.PackUint64Vector(balances, len(balances))
	root, err := ssz.MerkleizeFixed(chunks, BalancesChunkLimit)
	if err != nil {
		return ssz.Hash{}, err
	}
	return mixInLength(root, len(balances)), nil
}

// RandaoMixesRoot computes the root of the randao_mixes vector: the 8 real
// Berachain slots merkleized against the 65536 epoch capacity.
func RandaoMixesRoot(mixes []ssz.Hash) (ssz.Hash, error) {
	chunks := ssz.PackBytes32Vector(mixes, BerachainVector)
	root, err := ssz.MerkleizeFixed(chunks, EpochsPerHistoricalVector)
	if err != nil {
		return ssz.Hash{}, err
	}
	return mixInLength(root, len(mixes)), nil
}

// HistoricalRootsRoot computes the root of a block_roots or state_roots ring
// buffer: 8 real slots against the mainnet-sized 8192 slot capacity.
func HistoricalRootsRoot(roots []ssz.Hash) (ssz.Hash, error) {
	root, err := ssz.MerkleizeFixed(roots, SlotsPerHistoricalRoot)
	if err != nil {
		return ssz.Hash{}, err
	}
	return mixInLength(root, len(roots)), nil
}

// SlashingsRoot computes the root of the slashings buffer, packed like
// balances and merkleized against the same chunk capacity.
func SlashingsRoot(slashings []uint64) (ssz.Hash, error) {
	chunks := ssz.PackUint64Vector(slashings, EpochsPerSlashingsVector)
	root, err := ssz.MerkleizeFixed(chunks, BalancesChunkLimit)
	if err != nil {
		return ssz.Hash{}, err
	}
	return mixInLength(root, len(slashings)), nil
}

// PendingPartialWithdrawalsRoot computes the root of the Electra withdrawal
// queue against its 2^27 limit.
func PendingPartialWithdrawalsRoot(withdrawals []*PendingPartialWithdrawal) (ssz.Hash, error) {
	leaves := make([]ssz.Hash, len(withdrawals))
	for i, w := range withdrawals {
		leaves[i] = w.HashTreeRoot()
	}
	root, err := ssz.MerkleizeFixed(leaves, PendingPartialWithdrawalsLimit)
	if err != nil {
		return ssz.Hash{}, err
	}
	return mixInLength(root, len(withdrawals)), nil
}
