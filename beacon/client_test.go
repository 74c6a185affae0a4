// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

package beacon

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/berachain/bera-proofs/ssz"
)

// testNode serves canned beacon API responses: the shared state fixture at
// every state slot, headers derived from the requested slot.
func testNode(t *testing.T) *httptest.Server {
	t.Helper()
	stateBlob, err := os.ReadFile("../types/testdata/state.json")
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/eth/v2/debug/beacon/states/", func(w http.ResponseWriter, r *http.Request) {
		w.Write(stateBlob)
	})
	mux.HandleFunc("/eth/v1/beacon/headers/", func(w http.ResponseWriter, r *http.Request) {
		slot := r.URL.Path[len("/eth/v1/beacon/headers/"):]
		if slot == "404" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `{"data": {
			"root": "0xdd00000000000000000000000000000000000000000000000000000000000000",
			"header": {"message": {
				"slot": %q,
				"parent_root": "0xaa00000000000000000000000000000000000000000000000000000000000000",
				"state_root": "0xbb00000000000000000000000000000000000000000000000000000000000000",
				"body_root": "0xcc00000000000000000000000000000000000000000000000000000000000000"
			}}}}`, slot)
	})
	mux.HandleFunc("/eth/v1/node/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientState(t *testing.T) {
	client := NewClient(testNode(t).URL, time.Second)

	state, err := client.State(context.Background(), "head")
	require.NoError(t, err)
	require.EqualValues(t, 12345, state.Slot)
	require.Len(t, state.Validators, 4)
}

func TestClientHeader(t *testing.T) {
	client := NewClient(testNode(t).URL, time.Second)

	header, err := client.Header(context.Background(), "12337")
	require.NoError(t, err)
	require.EqualValues(t, 12337, header.Slot)
	require.Equal(t, ssz.Hash{0xaa}, header.ParentRoot)
	require.Equal(t, ssz.Hash{0xbb}, header.StateRoot)

	_, err = client.Header(context.Background(), "404")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClientHistoricalRoots(t *testing.T) {
	client := NewClient(testNode(t).URL, time.Second)

	prevBlock, prevState, err := client.HistoricalRoots(context.Background(), 12345)
	require.NoError(t, err)
	require.Equal(t, ssz.Hash{0xaa}, prevBlock)
	require.Equal(t, ssz.Hash{0xbb}, prevState)

	// Slots inside the first ring cycle have no history to substitute.
	prevBlock, prevState, err = client.HistoricalRoots(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, ssz.Hash{}, prevBlock)
	require.Equal(t, ssz.Hash{}, prevState)

	// An unavailable historical header degrades to zero roots, not an error.
	prevBlock, _, err = client.HistoricalRoots(context.Background(), 404+8)
	require.NoError(t, err)
	require.Equal(t, ssz.Hash{}, prevBlock)
}

func TestClientHealthy(t *testing.T) {
	client := NewClient(testNode(t).URL, time.Second)
	require.NoError(t, client.Healthy(context.Background()))

	down := NewClient("http://127.0.0.1:1", 100*time.Millisecond)
	require.Error(t, down.Healthy(context.Background()))
}
