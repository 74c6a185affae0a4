// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/berachain/bera-proofs/ssz"
)

// LoadStateJSON parses a beacon state snapshot into a fully typed
// BeaconState. It accepts both the raw state object and the beacon API
// response wrapping it in a "data" envelope, tolerates camelCase and
// snake_case key spellings, and decodes every field through an explicit
// per-field decoder: hex strings become byte arrays of the declared size,
// numeric strings become uint64s. Optional fields absent from pre-Electra
// snapshots (withdrawal cursors, slashings, pending withdrawals) default to
// zero values.
func LoadStateJSON(blob []byte) (*BeaconState, error) {
	var raw map[string]any
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("parse state json: %w", err)
	}
	if data, ok := raw["data"].(map[string]any); ok {
		raw = data
	}
	return parseState(normalizeKeys(raw))
}

// normalizeKeys rewrites every object key in a parsed JSON tree to its
// canonical snake_case spelling, also applying the one special rename the
// beacon API needs (parent_block_root -> parent_root).
func normalizeKeys(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			key = camelToSnake(key)
			if key == "parent_block_root" {
				key = "parent_root"
			}
			out[key] = normalizeKeys(val)
		}
		return out
	case []any:
		for i, val := range v {
			v[i] = normalizeKeys(val)
		}
		return v
	default:
		return v
	}
}

// camelToSnake converts a camelCase identifier to snake_case, leaving names
// that already are snake_case untouched.
func camelToSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// object is one JSON object with canonicalized keys, wrapped with the typed
// field accessors the container parsers are built from.
type object map[string]any

func asObject(v any) (object, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: have %T, want object", ssz.ErrUnsupportedType, v)
	}
	return object(obj), nil
}

// uint64Field decodes a numeric field given as a decimal string, a 0x hex
// string or a JSON number. Absent fields decode to zero.
func (o object) uint64Field(name string) (uint64, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return 0, nil
	}
	switch v := v.(type) {
	case string:
		if strings.HasPrefix(v, "0x") {
			n, err := hexutil.DecodeUint64(v)
			if err != nil {
				return 0, fmt.Errorf("field %s: %w", name, err)
			}
			return n, nil
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("field %s: %w", name, err)
		}
		return n, nil
	case float64:
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("%w: field %s is %T", ssz.ErrUnsupportedType, name, v)
	}
}

// boolField decodes a boolean field. Absent fields decode to false.
func (o object) boolField(name string) (bool, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: field %s is %T", ssz.ErrUnsupportedType, name, v)
	}
	return b, nil
}

// bytesField decodes a 0x-hex field into exactly size bytes.
func (o object) bytesField(name string, size int) ([]byte, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return make([]byte, size), nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: field %s is %T", ssz.ErrUnsupportedType, name, v)
	}
	blob, err := decodeHex(s)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", name, err)
	}
	if len(blob) != size {
		return nil, fmt.Errorf("field %s: %w: have %d bytes, want %d", name, ssz.ErrLengthMismatch, len(blob), size)
	}
	return blob, nil
}

// hashField decodes a 0x-hex field into a 32 byte root.
func (o object) hashField(name string) (ssz.Hash, error) {
	blob, err := o.bytesField(name, 32)
	if err != nil {
		return ssz.Hash{}, err
	}
	var h ssz.Hash
	copy(h[:], blob)
	return h, nil
}

// varBytesField decodes a variable-length 0x-hex field (extra_data).
func (o object) varBytesField(name string) ([]byte, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: field %s is %T", ssz.ErrUnsupportedType, name, v)
	}
	blob, err := decodeHex(s)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", name, err)
	}
	return blob, nil
}

// uint256Field decodes a large integer field given as decimal or 0x hex.
func (o object) uint256Field(name string) (*uint256.Int, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return uint256.NewInt(0), nil
	}
	switch v := v.(type) {
	case string:
		var (
			n   *uint256.Int
			err error
		)
		if strings.HasPrefix(v, "0x") {
			n, err = uint256.FromHex(v)
		} else {
			n, err = uint256.FromDecimal(v)
		}
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		return n, nil
	case float64:
		return uint256.NewInt(uint64(v)), nil
	default:
		return nil, fmt.Errorf("%w: field %s is %T", ssz.ErrUnsupportedType, name, v)
	}
}

// hashListField decodes a list of 32 byte roots.
func (o object) hashListField(name string) ([]ssz.Hash, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: field %s is %T", ssz.ErrUnsupportedType, name, v)
	}
	out := make([]ssz.Hash, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: field %s[%d] is %T", ssz.ErrUnsupportedType, name, i, item)
		}
		blob, err := decodeHex(s)
		if err != nil {
			return nil, fmt.Errorf("field %s[%d]: %w", name, i, err)
		}
		if len(blob) != 32 {
			return nil, fmt.Errorf("field %s[%d]: %w: have %d bytes, want 32", name, i, ssz.ErrLengthMismatch, len(blob))
		}
		copy(out[i][:], blob)
	}
	return out, nil
}

// uint64ListField decodes a list of numeric values. Absent fields decode to
// an empty list.
func (o object) uint64ListField(name string) ([]uint64, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: field %s is %T", ssz.ErrUnsupportedType, name, v)
	}
	out := make([]uint64, len(items))
	for i, item := range items {
		shim := object{"item": item}
		n, err := shim.uint64Field("item")
		if err != nil {
			return nil, fmt.Errorf("field %s[%d]: %w", name, i, err)
		}
		out[i] = n
	}
	return out, nil
}

// objectField returns a required nested object.
func (o object) objectField(name string) (object, error) {
	v, ok := o[name]
	if !ok {
		return nil, fmt.Errorf("missing field %s", name)
	}
	obj, err := asObject(v)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", name, err)
	}
	return obj, nil
}

// decodeHex decodes a hex string, tolerating a missing 0x prefix and an odd
// nibble count (left-padded, the beacon API emits those for small numbers).
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return hexutil.Decode("0x" + s)
}

func parseFork(o object) (*Fork, error) {
	prev, err := o.bytesField("previous_version", 4)
	if err != nil {
		return nil, err
	}
	curr, err := o.bytesField("current_version", 4)
	if err != nil {
		return nil, err
	}
	epoch, err := o.uint64Field("epoch")
	if err != nil {
		return nil, err
	}
	fork := &Fork{Epoch: epoch}
	copy(fork.PreviousVersion[:], prev)
	copy(fork.CurrentVersion[:], curr)
	return fork, nil
}

func parseHeader(o object) (*BeaconBlockHeader, error) {
	header := new(BeaconBlockHeader)
	var err error
	if header.Slot, err = o.uint64Field("slot"); err != nil {
		return nil, err
	}
	if header.ProposerIndex, err = o.uint64Field("proposer_index"); err != nil {
		return nil, err
	}
	if header.ParentRoot, err = o.hashField("parent_root"); err != nil {
		return nil, err
	}
	if header.StateRoot, err = o.hashField("state_root"); err != nil {
		return nil, err
	}
	if header.BodyRoot, err = o.hashField("body_root"); err != nil {
		return nil, err
	}
	return header, nil
}

func parseEth1Data(o object) (*Eth1Data, error) {
	data := new(Eth1Data)
	var err error
	if data.DepositRoot, err = o.hashField("deposit_root"); err != nil {
		return nil, err
	}
	if data.DepositCount, err = o.uint64Field("deposit_count"); err != nil {
		return nil, err
	}
	if data.BlockHash, err = o.hashField("block_hash"); err != nil {
		return nil, err
	}
	return data, nil
}

func parsePayloadHeader(o object) (*ExecutionPayloadHeader, error) {
	header := new(ExecutionPayloadHeader)
	var err error
	if header.ParentHash, err = o.hashField("parent_hash"); err != nil {
		return nil, err
	}
	feeRecipient, err := o.bytesField("fee_recipient", 20)
	if err != nil {
		return nil, err
	}
	copy(header.FeeRecipient[:], feeRecipient)
	if header.StateRoot, err = o.hashField("state_root"); err != nil {
		return nil, err
	}
	if header.ReceiptsRoot, err = o.hashField("receipts_root"); err != nil {
		return nil, err
	}
	bloom, err := o.bytesField("logs_bloom", 256)
	if err != nil {
		return nil, err
	}
	copy(header.LogsBloom[:], bloom)
	if header.PrevRandao, err = o.hashField("prev_randao"); err != nil {
		return nil, err
	}
	if header.BlockNumber, err = o.uint64Field("block_number"); err != nil {
		return nil, err
	}
	if header.GasLimit, err = o.uint64Field("gas_limit"); err != nil {
		return nil, err
	}
	if header.GasUsed, err = o.uint64Field("gas_used"); err != nil {
		return nil, err
	}
	if header.Timestamp, err = o.uint64Field("timestamp"); err != nil {
		return nil, err
	}
	if header.ExtraData, err = o.varBytesField("extra_data"); err != nil {
		return nil, err
	}
	if header.BaseFeePerGas, err = o.uint256Field("base_fee_per_gas"); err != nil {
		return nil, err
	}
	if header.BlockHash, err = o.hashField("block_hash"); err != nil {
		return nil, err
	}
	if header.TransactionsRoot, err = o.hashField("transactions_root"); err != nil {
		return nil, err
	}
	if header.WithdrawalsRoot, err = o.hashField("withdrawals_root"); err != nil {
		return nil, err
	}
	if header.BlobGasUsed, err = o.uint64Field("blob_gas_used"); err != nil {
		return nil, err
	}
	if header.ExcessBlobGas, err = o.uint64Field("excess_blob_gas"); err != nil {
		return nil, err
	}
	return header, nil
}

func parseValidator(o object) (*Validator, error) {
	validator := new(Validator)
	pubkey, err := o.bytesField("pubkey", 48)
	if err != nil {
		return nil, err
	}
	copy(validator.Pubkey[:], pubkey)
	if validator.WithdrawalCredentials, err = o.hashField("withdrawal_credentials"); err != nil {
		return nil, err
	}
	if validator.EffectiveBalance, err = o.uint64Field("effective_balance"); err != nil {
		return nil, err
	}
	if validator.Slashed, err = o.boolField("slashed"); err != nil {
		return nil, err
	}
	if validator.ActivationEligibilityEpoch, err = o.uint64Field("activation_eligibility_epoch"); err != nil {
		return nil, err
	}
	if validator.ActivationEpoch, err = o.uint64Field("activation_epoch"); err != nil {
		return nil, err
	}
	if validator.ExitEpoch, err = o.uint64Field("exit_epoch"); err != nil {
		return nil, err
	}
	if validator.WithdrawableEpoch, err = o.uint64Field("withdrawable_epoch"); err != nil {
		return nil, err
	}
	return validator, nil
}

func parseWithdrawal(o object) (*PendingPartialWithdrawal, error) {
	withdrawal := new(PendingPartialWithdrawal)
	var err error
	if withdrawal.ValidatorIndex, err = o.uint64Field("validator_index"); err != nil {
		return nil, err
	}
	if withdrawal.Amount, err = o.uint64Field("amount"); err != nil {
		return nil, err
	}
	if withdrawal.WithdrawableEpoch, err = o.uint64Field("withdrawable_epoch"); err != nil {
		return nil, err
	}
	return withdrawal, nil
}

func parseState(v any) (*BeaconState, error) {
	o, err := asObject(v)
	if err != nil {
		return nil, err
	}
	state := new(BeaconState)
	if state.GenesisValidatorsRoot, err = o.hashField("genesis_validators_root"); err != nil {
		return nil, err
	}
	if state.Slot, err = o.uint64Field("slot"); err != nil {
		return nil, err
	}
	forkObj, err := o.objectField("fork")
	if err != nil {
		return nil, err
	}
	if state.Fork, err = parseFork(forkObj); err != nil {
		return nil, fmt.Errorf("fork: %w", err)
	}
	headerObj, err := o.objectField("latest_block_header")
	if err != nil {
		return nil, err
	}
	if state.LatestBlockHeader, err = parseHeader(headerObj); err != nil {
		return nil, fmt.Errorf("latest_block_header: %w", err)
	}
	if state.BlockRoots, err = o.hashListField("block_roots"); err != nil {
		return nil, err
	}
	if state.StateRoots, err = o.hashListField("state_roots"); err != nil {
		return nil, err
	}
	eth1Obj, err := o.objectField("eth1_data")
	if err != nil {
		return nil, err
	}
	if state.Eth1Data, err = parseEth1Data(eth1Obj); err != nil {
		return nil, fmt.Errorf("eth1_data: %w", err)
	}
	if state.Eth1DepositIndex, err = o.uint64Field("eth1_deposit_index"); err != nil {
		return nil, err
	}
	payloadObj, err := o.objectField("latest_execution_payload_header")
	if err != nil {
		return nil, err
	}
	if state.ExecutionPayloadHeader, err = parsePayloadHeader(payloadObj); err != nil {
		return nil, fmt.Errorf("latest_execution_payload_header: %w", err)
	}
	validators, ok := o["validators"].([]any)
	if !ok {
		return nil, fmt.Errorf("missing field validators")
	}
	state.Validators = make([]*Validator, len(validators))
	for i, item := range validators {
		obj, err := asObject(item)
		if err != nil {
			return nil, fmt.Errorf("validators[%d]: %w", i, err)
		}
		if state.Validators[i], err = parseValidator(obj); err != nil {
			return nil, fmt.Errorf("validators[%d]: %w", i, err)
		}
	}
	if state.Balances, err = o.uint64ListField("balances"); err != nil {
		return nil, err
	}
	if state.RandaoMixes, err = o.hashListField("randao_mixes"); err != nil {
		return nil, err
	}
	if state.NextWithdrawalIndex, err = o.uint64Field("next_withdrawal_index"); err != nil {
		return nil, err
	}
	if state.NextWithdrawalValidatorIndex, err = o.uint64Field("next_withdrawal_validator_index"); err != nil {
		return nil, err
	}
	if state.Slashings, err = o.uint64ListField("slashings"); err != nil {
		return nil, err
	}
	if state.TotalSlashing, err = o.uint64Field("total_slashing"); err != nil {
		return nil, err
	}
	if withdrawals, ok := o["pending_partial_withdrawals"].([]any); ok {
		state.PendingPartialWithdrawals = make([]*PendingPartialWithdrawal, len(withdrawals))
		for i, item := range withdrawals {
			obj, err := asObject(item)
			if err != nil {
				return nil, fmt.Errorf("pending_partial_withdrawals[%d]: %w", i, err)
			}
			if state.PendingPartialWithdrawals[i], err = parseWithdrawal(obj); err != nil {
				return nil, fmt.Errorf("pending_partial_withdrawals[%d]: %w", i, err)
			}
		}
	}
	return state, nil
}
