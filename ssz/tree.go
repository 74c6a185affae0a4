// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

package ssz

import "fmt"

// Tree is a fully materialized binary Merkle tree. Level 0 holds the leaves,
// every level above it is half the length (rounded up, missing siblings
// hashed as zero chunks) and the last level is the single root node.
//
// Materializing every level is only sensible for the small fixed trees of
// containers (a handful of field roots); the large beacon state collections
// go through MerkleizeFixed/ProveFixed instead, which never build the tree.
type Tree struct {
	levels [][]Hash
}

// BuildTree constructs the complete tree over the given leaves. An empty leaf
// set yields the single-node tree holding the zero chunk. Callers that need
// an exact power-of-two shape (container field lists) must pre-pad their
// leaves; odd tails at any level are paired with the zero chunk.
func BuildTree(leaves []Hash) *Tree {
	if len(leaves) == 0 {
		return &Tree{levels: [][]Hash{{{}}}}
	}
	levels := [][]Hash{leaves}
	for nodes := leaves; len(nodes) > 1; {
		parents := make([]Hash, (len(nodes)+1)/2)
		for i := range parents {
			left := nodes[2*i]
			var right Hash
			if 2*i+1 < len(nodes) {
				right = nodes[2*i+1]
			}
			parents[i] = hashPair(left, right)
		}
		levels = append(levels, parents)
		nodes = parents
	}
	return &Tree{levels: levels}
}

// Root returns the tree's root node.
func (t *Tree) Root() Hash {
	return t.levels[len(t.levels)-1][0]
}

// Depth returns the number of levels between a leaf and the root.
func (t *Tree) Depth() int {
	return len(t.levels) - 1
}

// Proof extracts the sibling path for the given leaf index, ordered from the
// leaf's immediate sibling up to just below the root. Missing siblings are
// zero chunks.
func (t *Tree) Proof(index int) ([]Hash, error) {
	if index < 0 || index >= len(t.levels[0]) {
		return nil, fmt.Errorf("%w: index %d, %d leaves", ErrIndexOutOfRange, index, len(t.levels[0]))
	}
	proof := make([]Hash, 0, t.Depth())
	for level := 0; level < t.Depth(); level++ {
		var sibling Hash
		if i := index ^ 1; i < len(t.levels[level]) {
			sibling = t.levels[level][i]
		}
		proof = append(proof, sibling)
		index >>= 1
	}
	return proof, nil
}

// RootOfList computes the Merkle root over a list of chunks without exposing
// the intermediate tree.
func RootOfList(leaves []Hash) Hash {
	return BuildTree(leaves).Root()
}
