// Package vm executes the flat bytecode the compiler package emits.
package vm

import (
	"encoding/binary"
	"fmt"

	"github.com/danswartzendruber/basic-core/errinfo"
	"github.com/danswartzendruber/basic-core/internal/assert"
	"github.com/danswartzendruber/basic-core/internal/srcmap"
	"github.com/danswartzendruber/basic-core/isa"
	"github.com/danswartzendruber/basic-core/token"
)

// RuntimeErrorKind distinguishes the VM's own two failure modes from an
// Effects error, which passes through Run unwrapped.
type RuntimeErrorKind int

const (
	// Overflow is raised by a LONG->INTEGER coercion whose value falls
	// outside INTEGER's range, and by an integer divide or MOD by zero.
	Overflow RuntimeErrorKind = iota
	// TypeMismatch is the VM's defensive check that a popped operand's
	// Kind matches what the opcode expects. Should never fire if the
	// compiler is correct.
	TypeMismatch
)

func (k RuntimeErrorKind) String() string {
	if k == Overflow {
		return "Overflow"
	}
	return "TypeMismatch"
}

// RuntimeError reports a VM-raised failure at a specific instruction.
type RuntimeError struct {
	Kind RuntimeErrorKind
	Msg  string
	Rng  token.Range
}

func (e *RuntimeError) Error() string { return e.Msg }

func (e *RuntimeError) Range() (token.Range, bool) { return e.Rng, true }

// VM holds the value stack, the slot table, and the Effects collaborator
// bytecode builtins are dispatched to.
type VM struct {
	stack   []isa.Value
	slots   []isa.Value
	effects Effects

	// Ranges is consulted on any failure to annotate the failing
	// instruction's source range. May be nil (errors are then raised
	// without a range).
	Ranges *srcmap.Table

	ip int
}

// New creates a VM with slots of the given initial types (as returned by
// compiler.Program.SlotTypes), each autovivified to its zero value, per
// the slot-autovivification policy shared with the compiler.
func New(effects Effects, slotTypes []isa.ValueKind, ranges *srcmap.Table) *VM {
	slots := make([]isa.Value, len(slotTypes))
	for i, k := range slotTypes {
		slots[i] = isa.Zero(k)
	}
	return &VM{slots: slots, effects: effects, Ranges: ranges}
}

// Run decodes and executes code from offset 0, populating info (if
// non-nil) on any failure. On success, the value stack is empty, per the
// termination invariant.
func (vm *VM) Run(code []byte, info *errinfo.ErrorInfo) (err error) {
	// Registered first so it runs last, after Recover has turned an
	// internal-invariant panic into err.
	defer func() {
		if err != nil {
			errinfo.Fill(info, vm.withRange(err))
		}
	}()
	defer assert.Recover(&err)

	pos := 0
	for pos < len(code) {
		vm.ip = pos
		op := isa.Opcode(code[pos])
		pos++

		var next int
		next, err = vm.step(op, code, pos)
		if err != nil {
			return err
		}
		pos = next
	}

	assert.That(len(vm.stack) == 0, "Run: terminated with %d values left on stack", len(vm.stack))
	return nil
}

// withRange fills in err's Rng field from Ranges, if err is a *RuntimeError
// raised without one and a table is available. Effects errors and already
// range-bearing errors pass through unchanged.
func (vm *VM) withRange(err error) error {
	re, ok := err.(*RuntimeError)
	if !ok || vm.Ranges == nil {
		return err
	}
	if rng, ok := vm.Ranges.Lookup(vm.ip); ok {
		re.Rng = rng
	}
	return re
}

func (vm *VM) push(v isa.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() isa.Value {
	assert.That(len(vm.stack) > 0, "pop: stack underflow")
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) typeMismatch(want isa.ValueKind, got isa.Value) error {
	return &RuntimeError{
		Kind: TypeMismatch,
		Msg:  fmt.Sprintf("internal error: expected %s operand, got %s", want, got.Kind),
	}
}

func readU16(code []byte, pos int) uint16 { return binary.LittleEndian.Uint16(code[pos:]) }
func readU32(code []byte, pos int) uint32 { return binary.LittleEndian.Uint32(code[pos:]) }
func readU64(code []byte, pos int) uint64 { return binary.LittleEndian.Uint64(code[pos:]) }
