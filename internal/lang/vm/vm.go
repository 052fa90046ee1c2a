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
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/inconshreveable/log15"

	"github.com/abbychau/abbyEVM/internal/stdlib/crypto"
)

// ---- Error sentinels -------------------------------------------------------

var (
	// ErrStackOverflow is returned when a push would exceed MaxStackSize.
	ErrStackOverflow = errors.New("vm: stack overflow")
	// ErrStackUnderflow is returned when pop/peek/dup/swap runs out of items.
	ErrStackUnderflow = errors.New("vm: stack underflow")
	// ErrOutOfGas is returned when consumeGas would take gas negative.
	ErrOutOfGas = errors.New("vm: out of gas")
	// ErrInvalidJump is returned when JUMP/JUMPI targets a non-JUMPDEST byte.
	ErrInvalidJump = errors.New("vm: invalid jump destination")
	// ErrStepLimitExceeded is returned when execution runs past MaxSteps.
	ErrStepLimitExceeded = errors.New("vm: execution step limit exceeded")
	// ErrUnimplementedOpcode is returned for bytes that decode to a real
	// opcode the interpreter does not (yet) execute.
	ErrUnimplementedOpcode = errors.New("vm: unimplemented opcode")
)

// MaxStackSize is the maximum number of words the value stack may hold.
const MaxStackSize = 1024

// MaxSteps is the unconditional safety ceiling on executed instructions.
const MaxSteps = 10000

// Word is a 256-bit EVM-style value.
type Word = uint256.Int

// Address is a 20-byte account identifier.
type Address [20]byte

func (a Address) String() string { return fmt.Sprintf("%x", a[:]) }

// BlockContext carries the read-only block metadata surfaced by the
// NUMBER/TIMESTAMP/COINBASE/... family of opcodes. The VM never mutates it.
type BlockContext struct {
	Number     uint64
	Timestamp  uint64
	Difficulty uint64
	GasLimit   uint64
	ChainID    uint64
	BaseFee    uint64
	Coinbase   Address
	GasPrice   uint64
}

// Config bounds and parameterizes a single execution.
type Config struct {
	GasLimit uint64
	MaxSteps int
	Verbose  bool
	Block    BlockContext
}

// DefaultConfig returns the Config used by the Execute convenience entry
// point.
func DefaultConfig() Config {
	return Config{GasLimit: 10_000_000, MaxSteps: MaxSteps}
}

// Frame is the call-local environment an execution runs under: the
// address/caller/origin triad, the value transferred, and the calldata the
// CALLDATA* opcodes read from.
type Frame struct {
	Address  Address
	Caller   Address
	Origin   Address
	Value    uint256.Int
	CallData []byte
	Config   Config
}

// Log is one LOG0-LOG4 record: the emitting address, 0-4 topics, and the
// memory range captured as data.
type Log struct {
	Address Address
	Topics  []uint256.Int
	Data    []byte
}

// Status classifies how an execution ended.
type Status int

const (
	StatusSuccess Status = iota
	StatusRevert
	StatusOutOfGas
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusRevert:
		return "revert"
	case StatusOutOfGas:
		return "out of gas"
	default:
		return "error"
	}
}

// ExecutionResult is what Execute/ExecuteBytecode return once a run halts,
// reverts, or errors.
type ExecutionResult struct {
	Status       Status
	Err          error
	GasUsed      uint64
	GasRemaining uint64
	ReturnData   []byte
	Logs         []Log
	Steps        int
}

// ---- Value stack ------------------------------------------------------------

type stack struct {
	data []uint256.Int
}

func (s *stack) push(v uint256.Int) error {
	if len(s.data) >= MaxStackSize {
		return ErrStackOverflow
	}
	s.data = append(s.data, v)
	return nil
}

func (s *stack) pop() (uint256.Int, error) {
	if len(s.data) == 0 {
		return uint256.Int{}, ErrStackUnderflow
	}
	v := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return v, nil
}

func (s *stack) peek(n int) (uint256.Int, error) {
	idx := len(s.data) - 1 - n
	if idx < 0 {
		return uint256.Int{}, ErrStackUnderflow
	}
	return s.data[idx], nil
}

// swap exchanges the top item with the item n slots below it (n = 1..16).
func (s *stack) swap(n int) error {
	if len(s.data) <= n {
		return ErrStackUnderflow
	}
	top := len(s.data) - 1
	s.data[top], s.data[top-n] = s.data[top-n], s.data[top]
	return nil
}

// dup pushes a copy of the n-th item from the top (n = 1..16, n=1 is the top
// item itself).
func (s *stack) dup(n int) error {
	v, err := s.peek(n - 1)
	if err != nil {
		return err
	}
	return s.push(v)
}

// ---- Storage ----------------------------------------------------------------

// Storage is sparse key/value state: absent keys read as zero, and storing
// zero deletes the entry rather than keeping an explicit zero around.
type Storage struct {
	m map[uint256.Int]uint256.Int
}

// NewStorage returns empty Storage.
func NewStorage() *Storage {
	return &Storage{m: make(map[uint256.Int]uint256.Int)}
}

func (s *Storage) Load(key uint256.Int) uint256.Int {
	if v, ok := s.m[key]; ok {
		return v
	}
	return uint256.Int{}
}

func (s *Storage) Store(key, value uint256.Int) {
	if value.IsZero() {
		delete(s.m, key)
	} else {
		s.m[key] = value
	}
}

// ---- Interpreter --------------------------------------------------------------

// machine holds the mutable state of one execution.
type machine struct {
	code    []byte
	stack   stack
	memory  *Memory
	storage *Storage
	logs    []Log

	pc      int
	gas     uint64
	halted  bool
	reverted bool

	frame      Frame
	returnData []byte
}

// Execute runs bytecode with DefaultConfig, a zero-valued Frame, and the
// given transaction value and verbosity. It mirrors the original
// compile-and-run CLI entry point: a single top-level call with no caller
// context beyond value.
func Execute(ctx context.Context, bytecode []byte, value uint64, verbose bool) (*ExecutionResult, error) {
	cfg := DefaultConfig()
	cfg.Verbose = verbose
	frame := Frame{Config: cfg}
	frame.Value.SetUint64(value)
	return ExecuteBytecode(ctx, bytecode, frame)
}

// ExecuteBytecode runs bytecode under the given Frame (which carries its own
// Config), honoring ctx cancellation cooperatively between instructions.
func ExecuteBytecode(ctx context.Context, bytecode []byte, frame Frame) (*ExecutionResult, error) {
	cfg := frame.Config
	if cfg.GasLimit == 0 {
		cfg.GasLimit = DefaultConfig().GasLimit
	}
	maxSteps := cfg.MaxSteps
	if maxSteps == 0 {
		maxSteps = MaxSteps
	}

	m := &machine{
		code:    bytecode,
		memory:  NewMemory(),
		storage: NewStorage(),
		gas:     cfg.GasLimit,
		frame:   frame,
	}

	log := log15.New("module", "vm")
	if cfg.Verbose {
		log.Info("starting execution", "bytes", len(bytecode), "value", frame.Value.String(), "gasLimit", cfg.GasLimit)
	}

	initialGas := m.gas
	steps := 0
	var runErr error

loop:
	for m.pc < len(m.code) && !m.halted && !m.reverted {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			break loop
		default:
		}

		steps++
		if steps > maxSteps {
			runErr = ErrStepLimitExceeded
			break
		}

		op := Decode(m.code[m.pc])
		if cfg.Verbose {
			log.Debug("step", "n", steps, "pc", m.pc, "op", Name(op), "gas", m.gas, "stackDepth", len(m.stack.data))
		}

		if err := m.step(op, cfg, log); err != nil {
			runErr = err
			break
		}

		if op != OpJump && op != OpJumpI && !m.halted {
			m.pc++
		}
	}

	gasUsed := initialGas - m.gas
	result := &ExecutionResult{
		GasUsed:      gasUsed,
		GasRemaining: m.gas,
		ReturnData:   m.returnData,
		Logs:         m.logs,
		Steps:        steps,
	}

	switch {
	case runErr != nil:
		result.Err = runErr
		if errors.Is(runErr, ErrOutOfGas) {
			result.Status = StatusOutOfGas
		} else {
			result.Status = StatusError
		}
	case m.reverted:
		result.Status = StatusRevert
	default:
		result.Status = StatusSuccess
	}

	return result, nil
}

// consumeGas charges amount, failing with ErrOutOfGas if insufficient.
func (m *machine) consumeGas(amount uint64) error {
	if m.gas < amount {
		return ErrOutOfGas
	}
	m.gas -= amount
	return nil
}

func wordFromBytes(b []byte) uint256.Int {
	var w uint256.Int
	w.SetBytes(b)
	return w
}

// offsetOf converts a stack word to a memory offset, rejecting values that
// cannot possibly address anything within MaxMemorySize.
func offsetOf(w uint256.Int) (uint64, error) {
	if !w.IsUint64() {
		return 0, ErrMemoryLimitExceeded
	}
	v := w.Uint64()
	if v > MaxMemorySize {
		return 0, ErrMemoryLimitExceeded
	}
	return v, nil
}

// step executes a single decoded opcode, charging its base gas first.
func (m *machine) step(op Opcode, cfg Config, log log15.Logger) error {
	if err := m.consumeGas(BaseGas(op)); err != nil {
		return err
	}

	if size, ok := IsPush(op); ok {
		if m.pc+size >= len(m.code) {
			return fmt.Errorf("vm: push instruction exceeds bytecode length")
		}
		buf := make([]byte, 32)
		copy(buf[32-size:], m.code[m.pc+1:m.pc+1+size])
		if err := m.stack.push(wordFromBytes(buf)); err != nil {
			return err
		}
		m.pc += size
		return nil
	}

	if n, ok := IsDup(op); ok {
		return m.stack.dup(n)
	}

	if n, ok := IsSwap(op); ok {
		return m.stack.swap(n)
	}

	if topics, ok := IsLog(op); ok {
		return m.execLog(topics, cfg.Verbose, log)
	}

	switch op {
	case OpStop:
		m.halted = true
		return nil

	case OpAdd:
		return m.binary(func(a, b *uint256.Int) uint256.Int { var r uint256.Int; r.Add(a, b); return r })
	case OpMul:
		return m.binary(func(a, b *uint256.Int) uint256.Int { var r uint256.Int; r.Mul(a, b); return r })
	case OpSub:
		// a = top, b = second; matches the reference interpreter's pop
		// order, so a compiled `left - right` computes `right - left`.
		return m.binary(func(a, b *uint256.Int) uint256.Int { var r uint256.Int; r.Sub(a, b); return r })
	case OpDiv:
		return m.binary(func(a, b *uint256.Int) uint256.Int {
			var r uint256.Int
			if b.IsZero() {
				return r
			}
			r.Div(a, b)
			return r
		})
	case OpMod:
		// b popped first (divisor), a popped second (dividend): a % b.
		return m.binaryNamed(func(b, a *uint256.Int) uint256.Int {
			var r uint256.Int
			if b.IsZero() {
				return r
			}
			r.Mod(a, b)
			return r
		})
	case OpExp:
		return m.binary(func(a, b *uint256.Int) uint256.Int { var r uint256.Int; r.Exp(a, b); return r })

	case OpSDiv:
		return m.binary(func(a, b *uint256.Int) uint256.Int {
			var r uint256.Int
			if b.IsZero() {
				return r
			}
			r.SDiv(a, b)
			return r
		})
	case OpSMod:
		return m.binaryNamed(func(b, a *uint256.Int) uint256.Int {
			var r uint256.Int
			if b.IsZero() {
				return r
			}
			r.SMod(a, b)
			return r
		})
	case OpAddMod:
		return m.ternary(func(a, b, n *uint256.Int) uint256.Int {
			var r uint256.Int
			if n.IsZero() {
				return r
			}
			r.AddMod(a, b, n)
			return r
		})
	case OpMulMod:
		return m.ternary(func(a, b, n *uint256.Int) uint256.Int {
			var r uint256.Int
			if n.IsZero() {
				return r
			}
			r.MulMod(a, b, n)
			return r
		})
	case OpSignExtend:
		// b = byte index (top), x = value (second).
		return m.binaryNamed(func(b, x *uint256.Int) uint256.Int {
			var r uint256.Int
			r.ExtendSign(x, b)
			return r
		})

	case OpLT:
		return m.compare(func(a, b *uint256.Int) bool { return a.Lt(b) })
	case OpGT:
		return m.compare(func(a, b *uint256.Int) bool { return a.Gt(b) })
	case OpSLT:
		return m.compare(func(a, b *uint256.Int) bool { return a.Slt(b) })
	case OpSGT:
		return m.compare(func(a, b *uint256.Int) bool { return a.Sgt(b) })
	case OpEq:
		return m.compare(func(a, b *uint256.Int) bool { return a.Eq(b) })
	case OpIsZero:
		a, err := m.stack.pop()
		if err != nil {
			return err
		}
		return m.pushBool(a.IsZero())

	case OpAnd:
		return m.binary(func(a, b *uint256.Int) uint256.Int { var r uint256.Int; r.And(a, b); return r })
	case OpOr:
		return m.binary(func(a, b *uint256.Int) uint256.Int { var r uint256.Int; r.Or(a, b); return r })
	case OpXor:
		return m.binary(func(a, b *uint256.Int) uint256.Int { var r uint256.Int; r.Xor(a, b); return r })
	case OpNot:
		a, err := m.stack.pop()
		if err != nil {
			return err
		}
		var r uint256.Int
		r.Not(&a)
		return m.stack.push(r)
	case OpByte:
		// n = index (top), x = value (second).
		return m.binaryNamed(func(n, x *uint256.Int) uint256.Int {
			r := *x
			r.Byte(n)
			return r
		})
	case OpSHL:
		return m.shift(func(r, x *uint256.Int, n uint) { r.Lsh(x, n) })
	case OpSHR:
		return m.shift(func(r, x *uint256.Int, n uint) { r.Rsh(x, n) })
	case OpSAR:
		return m.shift(func(r, x *uint256.Int, n uint) { r.SRsh(x, n) })

	case OpSHA3:
		offset, size, err := m.popOffsetSize()
		if err != nil {
			return err
		}
		data, err := m.memory.Load(offset, size)
		if err != nil {
			return err
		}
		digest := crypto.Hash(data)
		return m.stack.push(wordFromBytes(digest[:]))

	case OpAddress:
		return m.pushAddress(m.frame.Address)
	case OpCaller:
		return m.pushAddress(m.frame.Caller)
	case OpOrigin:
		return m.pushAddress(m.frame.Origin)
	case OpCallValue:
		return m.stack.push(m.frame.Value)
	case OpCallDataSize:
		return m.stack.push(*uint256.NewInt(uint64(len(m.frame.CallData))))
	case OpCallDataLoad:
		offWord, err := m.stack.pop()
		if err != nil {
			return err
		}
		off, err := offsetOf(offWord)
		if err != nil {
			return err
		}
		buf := make([]byte, 32)
		for i := 0; i < 32; i++ {
			idx := off + uint64(i)
			if idx < uint64(len(m.frame.CallData)) {
				buf[i] = m.frame.CallData[idx]
			}
		}
		return m.stack.push(wordFromBytes(buf))
	case OpCallDataCopy:
		return m.copyInto(func(off, sz uint64) []byte {
			out := make([]byte, sz)
			for i := uint64(0); i < sz; i++ {
				idx := off + i
				if idx < uint64(len(m.frame.CallData)) {
					out[i] = m.frame.CallData[idx]
				}
			}
			return out
		})
	case OpCodeSize:
		return m.stack.push(*uint256.NewInt(uint64(len(m.code))))
	case OpCodeCopy:
		return m.copyInto(func(off, sz uint64) []byte {
			out := make([]byte, sz)
			for i := uint64(0); i < sz; i++ {
				idx := off + i
				if idx < uint64(len(m.code)) {
					out[i] = m.code[idx]
				}
			}
			return out
		})
	case OpGasPrice:
		return m.stack.push(*uint256.NewInt(cfg.Block.GasPrice))

	case OpBlockHash, OpBalance, OpExtCodeSize, OpExtCodeHash, OpReturnDataSize, OpReturnDataCopy, OpExtCodeCopy:
		// No external account/chain state is modeled; these read as zero
		// rather than erroring, since nothing in this interpreter can ever
		// populate them.
		return m.stack.push(uint256.Int{})

	case OpCoinbase:
		return m.pushAddress(cfg.Block.Coinbase)
	case OpTimestamp:
		return m.stack.push(*uint256.NewInt(cfg.Block.Timestamp))
	case OpNumber:
		return m.stack.push(*uint256.NewInt(cfg.Block.Number))
	case OpDifficulty:
		return m.stack.push(*uint256.NewInt(cfg.Block.Difficulty))
	case OpGasLimit:
		return m.stack.push(*uint256.NewInt(cfg.Block.GasLimit))
	case OpChainID:
		return m.stack.push(*uint256.NewInt(cfg.Block.ChainID))
	case OpSelfBal:
		return m.stack.push(uint256.Int{})
	case OpBaseFee:
		return m.stack.push(*uint256.NewInt(cfg.Block.BaseFee))

	case OpPop:
		_, err := m.stack.pop()
		return err

	case OpMLoad:
		offWord, err := m.stack.pop()
		if err != nil {
			return err
		}
		off, err := offsetOf(offWord)
		if err != nil {
			return err
		}
		data, err := m.memory.Load32(off)
		if err != nil {
			return err
		}
		return m.stack.push(wordFromBytes(data))

	case OpMStore:
		offWord, err := m.stack.pop()
		if err != nil {
			return err
		}
		value, err := m.stack.pop()
		if err != nil {
			return err
		}
		off, err := offsetOf(offWord)
		if err != nil {
			return err
		}
		buf := value.Bytes32()
		return m.memory.Store(off, buf[:])

	case OpMStore8:
		offWord, err := m.stack.pop()
		if err != nil {
			return err
		}
		value, err := m.stack.pop()
		if err != nil {
			return err
		}
		off, err := offsetOf(offWord)
		if err != nil {
			return err
		}
		return m.memory.Store8(off, byte(value.Uint64()&0xFF))

	case OpSLoad:
		key, err := m.stack.pop()
		if err != nil {
			return err
		}
		return m.stack.push(m.storage.Load(key))

	case OpSStore:
		key, err := m.stack.pop()
		if err != nil {
			return err
		}
		value, err := m.stack.pop()
		if err != nil {
			return err
		}
		m.storage.Store(key, value)
		return nil

	case OpJump:
		dest, err := m.popJumpDest()
		if err != nil {
			return err
		}
		m.pc = dest
		return nil

	case OpJumpI:
		destWord, err := m.stack.pop()
		if err != nil {
			return err
		}
		cond, err := m.stack.pop()
		if err != nil {
			return err
		}
		if cond.IsZero() {
			m.pc++
			return nil
		}
		dest, err := offsetOf(destWord)
		if err != nil {
			return err
		}
		if int(dest) >= len(m.code) || Opcode(m.code[dest]) != OpJumpDest {
			return ErrInvalidJump
		}
		m.pc = int(dest)
		return nil

	case OpPC:
		return m.stack.push(*uint256.NewInt(uint64(m.pc)))
	case OpMSize:
		return m.stack.push(*uint256.NewInt(uint64(m.memory.Len())))
	case OpGas:
		return m.stack.push(*uint256.NewInt(m.gas))
	case OpJumpDest:
		return nil

	case OpReturn:
		offset, size, err := m.popOffsetSize()
		if err != nil {
			return err
		}
		data, err := m.memory.Load(offset, size)
		if err != nil {
			return err
		}
		m.returnData = data
		m.halted = true
		return nil

	case OpRevert:
		offset, size, err := m.popOffsetSize()
		if err != nil {
			return err
		}
		data, err := m.memory.Load(offset, size)
		if err != nil {
			return err
		}
		m.returnData = data
		m.reverted = true
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrUnimplementedOpcode, Name(op))
	}
}

// popJumpDest pops a destination and validates it lands on a JUMPDEST.
func (m *machine) popJumpDest() (int, error) {
	w, err := m.stack.pop()
	if err != nil {
		return 0, err
	}
	dest, err := offsetOf(w)
	if err != nil {
		return 0, err
	}
	if int(dest) >= len(m.code) || Opcode(m.code[dest]) != OpJumpDest {
		return 0, ErrInvalidJump
	}
	return int(dest), nil
}

// popOffsetSize pops offset then size, the pop order RETURN/REVERT/SHA3
// share in the reference interpreter.
func (m *machine) popOffsetSize() (offset, size uint64, err error) {
	offWord, err := m.stack.pop()
	if err != nil {
		return 0, 0, err
	}
	sizeWord, err := m.stack.pop()
	if err != nil {
		return 0, 0, err
	}
	offset, err = offsetOf(offWord)
	if err != nil {
		return 0, 0, err
	}
	size, err = offsetOf(sizeWord)
	if err != nil {
		return 0, 0, err
	}
	return offset, size, nil
}

// binary pops a (top) then b (second) and pushes fn(a, b).
func (m *machine) binary(fn func(a, b *uint256.Int) uint256.Int) error {
	a, err := m.stack.pop()
	if err != nil {
		return err
	}
	b, err := m.stack.pop()
	if err != nil {
		return err
	}
	return m.stack.push(fn(&a, &b))
}

// binaryNamed pops first (named "first") then second (named "second") and
// calls fn(first, second) — a thin alias over binary kept distinct so each
// call site can name its operands the way the reference interpreter does.
func (m *machine) binaryNamed(fn func(first, second *uint256.Int) uint256.Int) error {
	return m.binary(fn)
}

func (m *machine) ternary(fn func(a, b, n *uint256.Int) uint256.Int) error {
	a, err := m.stack.pop()
	if err != nil {
		return err
	}
	b, err := m.stack.pop()
	if err != nil {
		return err
	}
	n, err := m.stack.pop()
	if err != nil {
		return err
	}
	return m.stack.push(fn(&a, &b, &n))
}

func (m *machine) compare(fn func(a, b *uint256.Int) bool) error {
	a, err := m.stack.pop()
	if err != nil {
		return err
	}
	b, err := m.stack.pop()
	if err != nil {
		return err
	}
	return m.pushBool(fn(&a, &b))
}

func (m *machine) pushBool(v bool) error {
	if v {
		return m.stack.push(*uint256.NewInt(1))
	}
	return m.stack.push(uint256.Int{})
}

func (m *machine) pushAddress(a Address) error {
	buf := make([]byte, 32)
	copy(buf[12:], a[:])
	return m.stack.push(wordFromBytes(buf))
}

// shift pops the shift amount (top) then the value (second): EVM convention,
// used for SHL/SHR/SAR which the reference interpreter leaves unimplemented.
func (m *machine) shift(fn func(r, x *uint256.Int, n uint)) error {
	shiftWord, err := m.stack.pop()
	if err != nil {
		return err
	}
	x, err := m.stack.pop()
	if err != nil {
		return err
	}
	n := uint(1 << 31) // saturating shift amount for counts that don't fit a machine word
	if shiftWord.IsUint64() {
		if v := shiftWord.Uint64(); v < uint64(n) {
			n = uint(v)
		}
	}
	var r uint256.Int
	fn(&r, &x, n)
	return m.stack.push(r)
}

func (m *machine) copyInto(source func(off, size uint64) []byte) error {
	destWord, err := m.stack.pop()
	if err != nil {
		return err
	}
	offWord, err := m.stack.pop()
	if err != nil {
		return err
	}
	sizeWord, err := m.stack.pop()
	if err != nil {
		return err
	}
	dest, err := offsetOf(destWord)
	if err != nil {
		return err
	}
	off, err := offsetOf(offWord)
	if err != nil {
		return err
	}
	size, err := offsetOf(sizeWord)
	if err != nil {
		return err
	}
	return m.memory.Store(dest, source(off, size))
}

// execLog pops offset, size, then `topics` topic words (LOG0 pops none),
// captures memory[offset:offset+size] as the log data, and records a
// structural Log entry plus (when verbose) a human-readable line matching
// the console.log/warn/error convention the code generator lowers to.
func (m *machine) execLog(topics int, verbose bool, log log15.Logger) error {
	offWord, err := m.stack.pop()
	if err != nil {
		return err
	}
	sizeWord, err := m.stack.pop()
	if err != nil {
		return err
	}
	topicWords := make([]uint256.Int, topics)
	for i := 0; i < topics; i++ {
		topicWords[i], err = m.stack.pop()
		if err != nil {
			return err
		}
	}
	offset, err := offsetOf(offWord)
	if err != nil {
		return err
	}
	size, err := offsetOf(sizeWord)
	if err != nil {
		return err
	}
	data, err := m.memory.Load(offset, size)
	if err != nil {
		return err
	}

	m.logs = append(m.logs, Log{Address: m.frame.Address, Topics: topicWords, Data: data})
	if !verbose {
		return nil
	}

	message := strings.TrimRight(string(data), "\x00")
	switch {
	case topics == 0:
		log.Info("console.log", "msg", message)
	case topics >= 1 && topicWords[0].Uint64() == 1:
		log.Warn("console.warn", "msg", message)
	case topics >= 1 && topicWords[0].Uint64() == 2:
		log.Error("console.error", "msg", message)
	default:
		log.Info("console.log", "msg", message, "topics", topics)
	}
	return nil
}
