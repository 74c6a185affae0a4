// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

package ssz

import "crypto/sha256"

// zeroHashes[d] is the root of an all-zero subtree of depth d: zeroHashes[0]
// is the zero chunk and zeroHashes[d+1] = H(zeroHashes[d] || zeroHashes[d]).
// Depth 40 covers the validator registry limit, the largest capacity in the
// beacon state; a few spare levels cost nothing.
var zeroHashes [48]Hash

func init() {
	var tmp [64]byte
	for i := 0; i < len(zeroHashes)-1; i++ {
		copy(tmp[:32], zeroHashes[i][:])
		copy(tmp[32:], zeroHashes[i][:])
		zeroHashes[i+1] = sha256.Sum256(tmp[:])
	}
}

// ZeroHash returns the root of an all-zero subtree of the given depth.
func ZeroHash(depth int) Hash {
	return zeroHashes[depth]
}
