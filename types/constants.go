// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

package types

const (
	// SlotsPerHistoricalRoot is the nominal SSZ capacity of the block_roots
	// and state_roots vectors. Berachain only materializes BerachainVector
	// slots but keeps the mainnet-sized capacity for spec compatibility.
	SlotsPerHistoricalRoot = 8192

	// EpochsPerHistoricalVector is the nominal capacity of randao_mixes.
	EpochsPerHistoricalVector = 65536

	// EpochsPerSlashingsVector is the number of real slots in the slashings
	// ring buffer.
	EpochsPerSlashingsVector = 8

	// BerachainVector is the real length of the block_roots and state_roots
	// ring buffers on Berachain, diverging from mainnet's 8192.
	BerachainVector = 8

	// ValidatorRegistryLimit caps the validators and balances lists.
	ValidatorRegistryLimit = uint64(1) << 40

	// BalancesChunkLimit is the chunk capacity of the balances (and
	// slashings) list: balances pack four uint64 per chunk, so the limit is
	// ceil(ValidatorRegistryLimit * 8 / 32).
	BalancesChunkLimit = (ValidatorRegistryLimit*8 + 31) / 32

	// PendingPartialWithdrawalsLimit caps the Electra withdrawal queue.
	PendingPartialWithdrawalsLimit = uint64(1) << 27

	// MaxExtraDataBytes caps the execution payload header's extra_data.
	MaxExtraDataBytes = 32
)

// Field indices of the BeaconState top-level tree, in state-root computation
// order.
const (
	StateFieldGenesisValidatorsRoot = iota
	StateFieldSlot
	StateFieldFork
	StateFieldLatestBlockHeader
	StateFieldBlockRoots
	StateFieldStateRoots
	StateFieldEth1Data
	StateFieldEth1DepositIndex
	StateFieldExecutionPayloadHeader
	StateFieldValidators
	StateFieldBalances
	StateFieldRandaoMixes
	StateFieldNextWithdrawalIndex
	StateFieldNextWithdrawalValidatorIndex
	StateFieldSlashings
	StateFieldTotalSlashing
	StateFieldPendingPartialWithdrawals // Electra only
)
