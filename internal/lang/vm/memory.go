// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ProbeChain is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ProbeChain. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"errors"
	"fmt"
)

// MaxMemorySize is the ceiling on how far Memory may auto-grow (16 MiB).
const MaxMemorySize = 16 * 1024 * 1024

// ErrMemoryLimitExceeded is returned when a read or write would grow memory
// past MaxMemorySize.
var ErrMemoryLimitExceeded = errors.New("vm: memory limit exceeded")

// Memory is a flat, zero-initialized, byte-addressable region that grows on
// demand up to MaxMemorySize. Unlike the register VM's alloc/free model,
// nothing here is ever freed mid-execution: the whole region is discarded
// when the frame finishes.
type Memory struct {
	data []byte
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Len returns the current size of memory in bytes.
func (m *Memory) Len() int {
	return len(m.data)
}

// resize grows the backing slice so that it is at least n bytes long,
// zero-filling the new region. Growth beyond MaxMemorySize fails.
func (m *Memory) resize(n int) error {
	if n <= len(m.data) {
		return nil
	}
	if n > MaxMemorySize {
		return ErrMemoryLimitExceeded
	}
	grown := make([]byte, n)
	copy(grown, m.data)
	m.data = grown
	return nil
}

// Store writes value (big-endian, len(value) bytes) at offset, growing
// memory as needed.
func (m *Memory) Store(offset uint64, value []byte) error {
	end := offset + uint64(len(value))
	if end > MaxMemorySize {
		return fmt.Errorf("%w: write to %d..%d", ErrMemoryLimitExceeded, offset, end)
	}
	if err := m.resize(int(end)); err != nil {
		return err
	}
	copy(m.data[offset:end], value)
	return nil
}

// Store8 writes a single byte at offset, growing memory as needed.
func (m *Memory) Store8(offset uint64, b byte) error {
	return m.Store(offset, []byte{b})
}

// Load reads size bytes starting at offset, growing memory as needed
// (reads past the live region observe zero bytes, matching EVM semantics).
func (m *Memory) Load(offset, size uint64) ([]byte, error) {
	end := offset + size
	if end > MaxMemorySize {
		return nil, fmt.Errorf("%w: read from %d..%d", ErrMemoryLimitExceeded, offset, end)
	}
	if err := m.resize(int(end)); err != nil {
		return nil, err
	}
	out := make([]byte, size)
	copy(out, m.data[offset:end])
	return out, nil
}

// Load32 reads a single 32-byte word at offset.
func (m *Memory) Load32(offset uint64) ([]byte, error) {
	return m.Load(offset, 32)
}
