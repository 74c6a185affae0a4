// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

package ssz

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/holiman/uint256"
)

// commonBytesLengths is a generic constraint for the fixed-size byte fields
// appearing in the beacon state: fork versions, execution addresses, roots,
// BLS public keys and the logs bloom.
//
// You can add any size to this list really, it's just a limitation of the Go
// generics compiler that it cannot represent arrays of arbitrary sizes with
// one shorthand notation.
type commonBytesLengths interface {
	// version | address | root | pubkey | bloom
	~[4]byte | ~[20]byte | ~[32]byte | ~[48]byte | ~[256]byte
}

// EncodeUint64 encodes an unsigned integer as an 8 byte little-endian value,
// right-padded with zeroes to a full chunk. No hashing is involved.
func EncodeUint64[T ~uint64](n T) Hash {
	var h Hash
	binary.LittleEndian.PutUint64(h[:8], uint64(n))
	return h
}

// EncodeBool encodes a boolean as a single 0x01/0x00 byte, right-padded with
// zeroes to a full chunk.
func EncodeBool[T ~bool](v T) Hash {
	var h Hash
	if v {
		h[0] = 1
	}
	return h
}

// EncodeUint256 encodes a 256 bit integer as a 32 byte little-endian chunk.
//
// Note, a nil pointer is encoded as zero.
func EncodeUint256(n *uint256.Int) Hash {
	var h Hash
	if n != nil {
		n.MarshalSSZInto(h[:])
	}
	return h
}

// EncodeStaticBytes computes the chunk root of a fixed-size binary blob. Blobs
// up to 32 bytes form a single zero-padded chunk; larger blobs are split into
// chunks and merkleized.
//
// The blob is passed by pointer to avoid high stack copy costs and a potential
// escape to the heap.
func EncodeStaticBytes[T commonBytesLengths](blob *T) Hash {
	// The code below should have used `blob[:]`, alas Go's generics compiler
	// is missing that (i.e. a bug): https://github.com/golang/go/issues/51740
	return encodeBytesChunks(unsafe.Slice(&(*blob)[0], len(*blob)))
}

// EncodeCheckedBytes is the slice form of EncodeStaticBytes for callers whose
// blob sizes are only known at runtime. It fails with ErrLengthMismatch if the
// blob is not exactly size bytes.
func EncodeCheckedBytes(blob []byte, size int) (Hash, error) {
	if len(blob) != size {
		return Hash{}, fmt.Errorf("%w: have %d bytes, want %d", ErrLengthMismatch, len(blob), size)
	}
	return encodeBytesChunks(blob), nil
}

// EncodeByteList computes the root of a variable-length byte list with the
// given maximum size: the chunk root of the data merkleized out to the list's
// chunk capacity, mixed with the real byte length. It fails with
// ErrLengthExceeded if the blob is longer than maxSize.
func EncodeByteList(blob []byte, maxSize uint64) (Hash, error) {
	if uint64(len(blob)) > maxSize {
		return Hash{}, fmt.Errorf("%w: have %d bytes, max %d", ErrLengthExceeded, len(blob), maxSize)
	}
	chunks := chunkify(blob)
	limit := nextPowerOfTwo((maxSize + 31) / 32)
	root, err := MerkleizeFixed(chunks, limit)
	if err != nil {
		return Hash{}, err
	}
	return MixInLength(root, uint64(len(blob))), nil
}

// encodeBytesChunks pads a blob into chunks and collapses them into a single
// root. One chunk is returned verbatim, SSZ only hashes past 32 bytes.
func encodeBytesChunks(blob []byte) Hash {
	if len(blob) <= 32 {
		var h Hash
		copy(h[:], blob)
		return h
	}
	return RootOfList(chunkify(blob))
}

// chunkify splits a byte blob into 32 byte chunks, zero-padding the tail.
func chunkify(blob []byte) []Hash {
	chunks := make([]Hash, (len(blob)+31)/32)
	for i := range chunks {
		copy(chunks[i][:], blob[32*i:])
	}
	return chunks
}

// nextPowerOfTwo returns the next power of two at least as large as v, or 1
// for zero.
func nextPowerOfTwo(v uint64) uint64 {
	if v <= 1 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	return v + 1
}
