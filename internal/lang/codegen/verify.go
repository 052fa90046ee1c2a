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

// Package codegen includes bytecode verification.
//
// The verifier performs a static scan over compiled bytecode, checking
// properties that are cheap to confirm before ever loading the code into
// the vm package's interpreter.
package codegen

import (
	"fmt"

	"github.com/abbychau/abbyEVM/internal/lang/vm"
)

// VerifyError describes a bytecode verification failure.
type VerifyError struct {
	Offset  int
	Message string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("verify error at offset %d: %s", e.Offset, e.Message)
}

// Verify checks compiled bytecode for safety violations that the
// interpreter would otherwise only discover at runtime:
//
//  1. Every PUSH1-PUSH32 carries enough immediate bytes to stay in bounds.
//  2. Every JUMP/JUMPI whose destination is a constant pushed immediately
//     before it (the only shape this package's code generator emits)
//     targets an actual JUMPDEST.
//  3. The program ends in a terminating opcode (STOP/RETURN/REVERT/SELFDESTRUCT).
func Verify(code []byte) []VerifyError {
	var errs []VerifyError
	if len(code) == 0 {
		return errs
	}

	jumpdests := make(map[int]bool)
	offset := 0
	for offset < len(code) {
		op := vm.Decode(code[offset])
		if size, ok := vm.IsPush(op); ok {
			if offset+1+size > len(code) {
				errs = append(errs, VerifyError{
					Offset:  offset,
					Message: fmt.Sprintf("truncated %s: immediate runs past end of code", vm.Name(op)),
				})
				break
			}
			offset += 1 + size
			continue
		}
		if op == vm.OpJumpDest {
			jumpdests[offset] = true
		}
		offset++
	}

	offset = 0
	for offset < len(code) {
		op := vm.Decode(code[offset])
		if size, ok := vm.IsPush(op); ok {
			offset += 1 + size
			continue
		}
		if op == vm.OpJump || op == vm.OpJumpI {
			if target, ok := precedingPush2(code, offset); ok && !jumpdests[target] {
				errs = append(errs, VerifyError{
					Offset:  offset,
					Message: fmt.Sprintf("jump target %d is not a JUMPDEST", target),
				})
			}
		}
		offset++
	}

	last := lastOpcode(code)
	switch last {
	case vm.OpStop, vm.OpReturn, vm.OpRevert, vm.OpSelfDestruct:
	default:
		errs = append(errs, VerifyError{
			Offset:  len(code) - 1,
			Message: "code does not end with STOP, RETURN, REVERT, or SELFDESTRUCT",
		})
	}

	return errs
}

// precedingPush2 reports the address encoded by a PUSH2 immediately
// preceding offset, the only shape the code generator emits ahead of a
// JUMP/JUMPI. Any other preceding instruction (a computed jump target)
// is left unchecked; the interpreter still validates it at runtime.
func precedingPush2(code []byte, offset int) (int, bool) {
	const push2Width = 3 // opcode + 2 address bytes
	if offset < push2Width {
		return 0, false
	}
	pushPos := offset - push2Width
	if vm.Decode(code[pushPos]) != vm.OpPush1+1 {
		return 0, false
	}
	hi := int(code[pushPos+1])
	lo := int(code[pushPos+2])
	return hi<<8 | lo, true
}

func lastOpcode(code []byte) vm.Opcode {
	offset := 0
	var last vm.Opcode
	for offset < len(code) {
		op := vm.Decode(code[offset])
		last = op
		if size, ok := vm.IsPush(op); ok {
			offset += 1 + size
			continue
		}
		offset++
	}
	return last
}
