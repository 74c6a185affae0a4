// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

package ssz

import (
	"fmt"
	"math/bits"
)

// MerkleizeFixed computes the root of the chunk list grown to a tree of
// exactly capacity leaves, where every leaf past the real chunks is zero.
// capacity must be a power of two and at least the real chunk count.
//
// The full tree is never materialized. The real chunks are first hashed up
// into the root of their enclosing m-leaf subtree (m = next power of two),
// then that root is doubled out to capacity by folding in one precomputed
// zero-subtree hash per remaining level. A 2^40 capacity therefore costs 40
// extra hashes, not 2^40 nodes.
func MerkleizeFixed(chunks []Hash, capacity uint64) (Hash, error) {
	if capacity == 0 || capacity&(capacity-1) != 0 {
		return Hash{}, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	if uint64(len(chunks)) > capacity {
		return Hash{}, fmt.Errorf("%w: %d chunks, capacity %d", ErrCapacityExceeded, len(chunks), capacity)
	}
	// Collapse the real chunks into their subtree root.
	level := 0
	nodes := append([]Hash(nil), chunks...)
	for len(nodes) > 1 {
		nodes = hashLevel(nodes, level)
		level++
	}
	root := zeroHashes[0]
	if len(nodes) == 1 {
		root = nodes[0]
	}
	// Grow the subtree root out to the requested capacity, one doubling per
	// level, the entire right half being a zero subtree each time.
	for depth := treeDepth(capacity); level < depth; level++ {
		root = hashPair(root, zeroHashes[level])
	}
	return root, nil
}

// MixInLength hashes a list's data root together with its real element
// count, the SSZ step distinguishing lists of different lengths that share
// zero padding.
func MixInLength(root Hash, length uint64) Hash {
	return hashPair(root, EncodeUint64(length))
}

// treeDepth returns log2 of a power-of-two capacity.
func treeDepth(capacity uint64) int {
	return bits.TrailingZeros64(capacity)
}
