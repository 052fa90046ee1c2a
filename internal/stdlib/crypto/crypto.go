// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Package crypto provides the interpreter's only cryptographic primitive:
// Keccak-256. The VM's SHA3 opcode, which the code generator's keccak256
// builtin lowers to, calls Hash, so the implementation lives in one place.
package crypto

import "golang.org/x/crypto/sha3"

// Hash computes Keccak-256 (the pre-standard SHA-3, as used by the EVM) of
// data.
func Hash(data []byte) [32]byte {
	var result [32]byte
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	copy(result[:], h.Sum(nil))
	return result
}
