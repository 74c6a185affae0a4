// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

package ssz

import "errors"

// ErrInvalidCapacity is returned when the capacity argument of a fixed
// capacity operation is zero or not a power of two.
var ErrInvalidCapacity = errors.New("ssz: capacity not a power of two")

// ErrCapacityExceeded is returned when more real chunks are supplied than the
// declared capacity of a fixed capacity tree allows.
var ErrCapacityExceeded = errors.New("ssz: chunk count exceeds capacity")

// ErrLengthMismatch is returned when a fixed-size byte field is fed a blob of
// the wrong length.
var ErrLengthMismatch = errors.New("ssz: unexpected length for fixed-size field")

// ErrLengthExceeded is returned when a variable-length byte field grows past
// its declared maximum.
var ErrLengthExceeded = errors.New("ssz: maximum byte length exceeded")

// ErrUnsupportedType is returned when a value of an unrecognized kind reaches
// a field decoder.
var ErrUnsupportedType = errors.New("ssz: unsupported type")

// ErrIndexOutOfRange is returned when a proof is requested for a leaf index
// beyond the last real element.
var ErrIndexOutOfRange = errors.New("ssz: index beyond real leaves")
