// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

// Package ssz implements the SSZ merkleization primitives needed to prove
// individual fields of a beacon state: basic type encoding into 32 byte
// chunks, chunk packing, Merkle tree construction and fixed-capacity
// merkleization/proving against virtual trees of up to 2^40 leaves.
package ssz

import (
	"crypto/sha256"
	"unsafe"

	"github.com/prysmaticlabs/gohashtree"
)

// Hash is a 32 byte chunk, the atomic unit of every Merkle operation.
type Hash [32]byte

// hashPair hashes the concatenation of two nodes.
func hashPair(left, right Hash) Hash {
	var buf [64]byte
	copy(buf[:32], left[:])
	copy(buf[32:], right[:])
	return sha256.Sum256(buf[:])
}

// hashLevel pairwise-hashes one full tree level into its parent level. An odd
// tail is paired with the zero-subtree hash of the given level. The input is
// not retained.
func hashLevel(nodes []Hash, level int) []Hash {
	if len(nodes)%2 == 1 {
		nodes = append(nodes, zeroHashes[level])
	}
	parents := make([]Hash, len(nodes)/2)
	if err := gohashtree.Hash(asChunks(parents), asChunks(nodes)); err != nil {
		panic(err) // even length by construction
	}
	return parents
}

// asChunks reinterprets a Hash slice as the raw chunk slice gohashtree wants.
// Hash has the same memory layout as [32]byte, Go just won't convert slices
// of named array types.
func asChunks(hashes []Hash) [][32]byte {
	if len(hashes) == 0 {
		return nil
	}
	return unsafe.Slice((*[32]byte)(unsafe.Pointer(&hashes[0])), len(hashes))
}
