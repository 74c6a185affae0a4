// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

package ssz

import "encoding/binary"

// PackUint64Vector packs a slice of uint64 values into the chunk sequence of
// a fixed-length vector: the values are zero-padded out to length, serialized
// as 8 byte little-endian each (four to a chunk) and the final chunk is
// zero-padded to the 32 byte boundary.
//
// This differs from EncodeUint64, which spends a whole chunk on one scalar:
// SSZ packs multiple basic values per chunk inside vectors and lists.
func PackUint64Vector[T ~uint64](values []T, length int) []Hash {
	if length < len(values) {
		length = len(values)
	}
	chunks := make([]Hash, (length*8+31)/32)
	for i, v := range values {
		binary.LittleEndian.PutUint64(chunks[i/4][8*(i%4):], uint64(v))
	}
	return chunks
}

// PackBytes32Vector packs a slice of 32 byte values into the chunk sequence
// of a fixed-length vector, zero-padding out to length. Every entry is
// already chunk sized, so the packing is one chunk per entry.
func PackBytes32Vector(values []Hash, length int) []Hash {
	if length < len(values) {
		length = len(values)
	}
	chunks := make([]Hash, length)
	copy(chunks, values)
	return chunks
}
