// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

// Package beacon implements the HTTP client against a Berachain beacon node:
// debug state snapshots, block headers and the historical root lookup proof
// generation needs.
package beacon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"

	"github.com/berachain/bera-proofs/ssz"
	"github.com/berachain/bera-proofs/types"
)

// ErrNotFound is returned when the node has no data for the requested slot.
var ErrNotFound = errors.New("beacon: not found")

// Client talks to one beacon node. Safe for concurrent use.
type Client struct {
	base string
	http *http.Client
	log  log.Logger
}

// NewClient creates a client against the given base URL.
func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
		log:  log.New("module", "beacon"),
	}
}

// Header is the slim view of a beacon block header response.
type Header struct {
	Slot       uint64
	Root       ssz.Hash
	ParentRoot ssz.Hash
	StateRoot  ssz.Hash
}

// headerResponse mirrors the /eth/v1/beacon/headers wire format.
type headerResponse struct {
	Data struct {
		Root   hexutil.Bytes `json:"root"`
		Header struct {
			Message struct {
				Slot       string        `json:"slot"`
				ParentRoot hexutil.Bytes `json:"parent_root"`
				StateRoot  hexutil.Bytes `json:"state_root"`
			} `json:"message"`
		} `json:"header"`
	} `json:"data"`
}

// State fetches and parses the full debug state at a slot identifier: a slot
// number, "head" or "finalized".
func (c *Client) State(ctx context.Context, slot string) (*types.BeaconState, error) {
	blob, err := c.get(ctx, "/eth/v2/debug/beacon/states/"+slot)
	if err != nil {
		return nil, err
	}
	state, err := types.LoadStateJSON(blob)
	if err != nil {
		return nil, fmt.Errorf("beacon: state at %s: %w", slot, err)
	}
	c.log.Debug("Fetched beacon state", "slot", state.Slot, "validators", len(state.Validators))
	return state, nil
}

// Header fetches the block header at a slot identifier.
func (c *Client) Header(ctx context.Context, slot string) (*Header, error) {
	blob, err := c.get(ctx, "/eth/v1/beacon/headers/"+slot)
	if err != nil {
		return nil, err
	}
	var resp headerResponse
	if err := json.Unmarshal(blob, &resp); err != nil {
		return nil, fmt.Errorf("beacon: header at %s: %w", slot, err)
	}
	header := &Header{}
	msg := resp.Data.Header.Message
	if msg.Slot != "" {
		if header.Slot, err = strconv.ParseUint(msg.Slot, 10, 64); err != nil {
			return nil, fmt.Errorf("beacon: header at %s: %w", slot, err)
		}
	}
	copy(header.Root[:], resp.Data.Root)
	copy(header.ParentRoot[:], msg.ParentRoot)
	copy(header.StateRoot[:], msg.StateRoot)
	return header, nil
}

// HistoricalRoots resolves the previous-cycle roots for a state at the given
// slot: the parent and state roots of the header 8 slots back. When that
// header is unavailable (pruned, pre-genesis, node hiccup) it falls back to
// zero roots rather than failing, leaving the state's own ring buffer entries
// in force downstream.
func (c *Client) HistoricalRoots(ctx context.Context, slot uint64) (prevBlock ssz.Hash, prevState ssz.Hash, err error) {
	if slot < types.BerachainVector {
		return ssz.Hash{}, ssz.Hash{}, nil
	}
	target := slot - types.BerachainVector
	header, err := c.Header(ctx, strconv.FormatUint(target, 10))
	if err != nil {
		c.log.Warn("Historical header unavailable, using zero roots", "slot", target, "err", err)
		return ssz.Hash{}, ssz.Hash{}, nil
	}
	return header.ParentRoot, header.StateRoot, nil
}

// Healthy probes the node's health endpoint.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/eth/v1/node/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("beacon: health check: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return fmt.Errorf("beacon: unhealthy node, status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("beacon: %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	default:
		return nil, fmt.Errorf("beacon: %s: unexpected status %d", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
