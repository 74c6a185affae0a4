// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

package ssz

import "fmt"

// ProveFixed builds the sibling proof for one leaf of a fixed-capacity tree:
// the first len(leaves) positions hold real leaf hashes, every position past
// them is implicitly zero. capacity must be a power of two. The returned path
// holds exactly log2(capacity) siblings, ordered leaf to root.
//
// Only the real nodes of each level are ever computed, mirroring
// MerkleizeFixed: while the walk stays inside the real subtree the sibling is
// looked up in the level's real-node array, beyond it the sibling is the
// zero-subtree hash of that level. The two functions are exact duals, so
// folding the returned proof with ComputeRootFromProof reproduces
// MerkleizeFixed's root bit for bit.
func ProveFixed(leaves []Hash, index int, capacity uint64) ([]Hash, error) {
	if capacity == 0 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	if uint64(len(leaves)) > capacity {
		return nil, fmt.Errorf("%w: %d leaves, capacity %d", ErrCapacityExceeded, len(leaves), capacity)
	}
	if index < 0 || index >= len(leaves) {
		return nil, fmt.Errorf("%w: index %d, %d leaves", ErrIndexOutOfRange, index, len(leaves))
	}
	depth := treeDepth(capacity)
	proof := make([]Hash, 0, depth)

	nodes := append([]Hash(nil), leaves...)
	for level := 0; level < depth; level++ {
		sibling := zeroHashes[level]
		if i := index ^ 1; i < len(nodes) {
			sibling = nodes[i]
		}
		proof = append(proof, sibling)

		if len(nodes) > 1 {
			nodes = hashLevel(nodes, level)
		} else if len(nodes) == 1 {
			// Above the real subtree the single remaining node is the grown
			// root at this size, its sibling always a zero subtree.
			nodes[0] = hashPair(nodes[0], zeroHashes[level])
		}
		index >>= 1
	}
	return proof, nil
}

// ComputeRootFromProof folds a leaf and its sibling path back into the root:
// at level i the leaf's position is given by bit i of index, deciding whether
// the sibling is hashed in from the right or the left.
func ComputeRootFromProof(leaf Hash, index uint64, proof []Hash) Hash {
	current := leaf
	for level, sibling := range proof {
		if index>>uint(level)&1 == 0 {
			current = hashPair(current, sibling)
		} else {
			current = hashPair(sibling, current)
		}
	}
	return current
}

// VerifyProof reports whether a leaf, its index and a sibling path hash up to
// the expected root.
func VerifyProof(leaf Hash, index uint64, proof []Hash, root Hash) bool {
	return ComputeRootFromProof(leaf, index, proof) == root
}
