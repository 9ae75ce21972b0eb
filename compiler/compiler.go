// Package compiler walks a parsed statement list and emits a flat typed
// bytecode buffer for the vm package to execute.
package compiler

import (
	"fmt"

	"github.com/danswartzendruber/basic-core/ast"
	"github.com/danswartzendruber/basic-core/internal/assert"
	"github.com/danswartzendruber/basic-core/internal/srcmap"
	"github.com/danswartzendruber/basic-core/isa"
	"github.com/danswartzendruber/basic-core/token"
)

// Config tunes the one knob this core leaves up to the embedder: how wide
// a '/' divide promotes to. Zero-value Config is the documented default:
// single-precision INTEGER/INTEGER float divide. The print zone width is
// not configurable; it is fixed in the vm package.
type Config struct {
	// WideDivide, when true, makes INTEGER/INTEGER (and LONG/LONG, etc.)
	// '/' produce DOUBLE instead of the default SINGLE. The cmd/basic
	// driver sets it from its -wide-divide flag; the source language has
	// no statement that sets it (the parser rejects PRAGMA).
	WideDivide bool
}

// Program is the compiler's output: the bytecode buffer, the side table
// mapping offsets back to source ranges, and the type and name each slot
// was allocated with. vm.New takes SlotTypes to give every slot the zero
// value of its type before Run.
type Program struct {
	Code      []byte
	Ranges    *srcmap.Table
	SlotTypes []isa.ValueKind
	SlotNames []string
}

// TypeError reports a compile-time failure: a string/numeric mix in a
// binary operator or assignment, an operator not defined for STRING
// operands (including negation), or an unknown statement name.
type TypeError struct {
	Msg string
	Rng token.Range
}

func (e *TypeError) Error() string { return e.Msg }

func (e *TypeError) Range() (token.Range, bool) { return e.Rng, true }

// Compile turns a statement list into a Program. cfg may be the zero
// value for the documented defaults.
func Compile(stmts []ast.Stmt, cfg Config) (prog *Program, err error) {
	defer assert.Recover(&err)

	c := &compilerState{
		cfg:    cfg,
		em:     &isa.Emitter{},
		ranges: &srcmap.Table{},
		slots:  map[string]int{},
	}

	for i := range stmts {
		if err := c.compileStmt(&stmts[i]); err != nil {
			return nil, err
		}
	}

	return &Program{
		Code:      c.em.Code,
		Ranges:    c.ranges,
		SlotTypes: c.slotTypes,
		SlotNames: c.slotNames,
	}, nil
}

type compilerState struct {
	cfg    Config
	em     *isa.Emitter
	ranges *srcmap.Table

	slots     map[string]int // sigil-qualified name -> slot index
	slotTypes []isa.ValueKind
	slotNames []string
}

func (c *compilerState) compileStmt(s *ast.Stmt) error {
	start := c.em.Offset()

	switch s.Kind {
	case ast.SRemark, ast.SEnd, ast.SEndIf:
		// no code: straight-line core never executes a branch target,
		// and remarks carry no runtime effect.
		return nil

	case ast.SLet:
		// Only statements that emit code get a range entry, so entry
		// offsets stay strictly increasing.
		c.ranges.Insert(start, s.Range)
		return c.compileLet(s)

	case ast.SCall:
		c.ranges.Insert(start, s.Range)
		return c.compileCall(s)

	case ast.SIf, ast.SIf1, ast.SIf2, ast.SFor, ast.SForStep:
		// Recognized by the grammar, not lowered to branching bytecode by
		// this core.
		return nil

	default:
		assert.Bug("compileStmt: unhandled statement kind %d", s.Kind)
		return nil
	}
}

// compileLet infers the RHS type, then either coerces it to an
// already-allocated slot's fixed type, or allocates a new slot at the
// sigil-implied type of the LHS and coerces to that.
func (c *compilerState) compileLet(s *ast.Stmt) error {
	name := s.LHS.Name

	rhsType, err := c.compileExpr(s.RHS)
	if err != nil {
		return err
	}

	if slot, ok := c.slots[name]; ok {
		targetType := c.slotTypes[slot]
		if err := c.emitCoerce(rhsType, targetType, s.RHS.Range); err != nil {
			return err
		}
		c.em.Let(byte(slot))
		return nil
	}

	targetType := isa.SigilKind(sigilOf(name))
	if err := c.emitCoerce(rhsType, targetType, s.RHS.Range); err != nil {
		return err
	}

	slot := len(c.slotTypes)
	assert.That(slot <= 255, "slot table exhausted")
	c.slots[name] = slot
	c.slotTypes = append(c.slotTypes, targetType)
	c.slotNames = append(c.slotNames, name)
	c.em.Let(byte(slot))

	return nil
}

// compileCall lowers a generic call statement. PRINT is the only builtin
// this core recognizes; all other call names are rejected, since this core
// has no user-defined procedures and no other builtins.
func (c *compilerState) compileCall(s *ast.Stmt) error {
	switch upperName(s.Name) {
	case "PRINT":
		return c.compilePrint(s)
	default:
		return &TypeError{Msg: fmt.Sprintf("unknown statement %q", s.Name), Rng: s.Range}
	}
}

func (c *compilerState) compilePrint(s *ast.Stmt) error {
	for i, arg := range s.Args {
		if _, err := c.compileExpr(arg); err != nil {
			return err
		}
		c.em.Op(isa.BuiltinPrint)

		if i == len(s.Args)-1 {
			break
		}
		switch s.Seps[i] {
		case ',':
			c.em.Op(isa.BuiltinPrintComma)
		case ';':
			// immediate concatenation: no opcode between items
		default:
			assert.Bug("compilePrint: missing separator before non-final arg")
		}
	}

	trailing := len(s.Args) > 0 && s.Seps[len(s.Seps)-1] != 0

	if !trailing {
		c.em.Op(isa.BuiltinPrintLinefeed)
	}

	return nil
}

func upperName(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		out[i] = ch
	}
	return string(out)
}

// sigilOf returns the trailing sigil character of name, or 0 if name has
// no sigil (the default numeric type, single).
func sigilOf(name string) byte {
	if len(name) == 0 {
		return 0
	}
	last := name[len(name)-1]
	switch last {
	case '%', '&', '!', '#', '$':
		return last
	default:
		return 0
	}
}

// emitCoerce inserts the opcode that converts a top-of-stack value of type
// from to type to, failing with TypeMismatch if the two are not both
// numeric or not both string.
func (c *compilerState) emitCoerce(from, to isa.ValueKind, rng token.Range) error {
	if from == to {
		return nil
	}
	if from == isa.KindString || to == isa.KindString {
		return &TypeError{
			Msg: fmt.Sprintf("cannot coerce %s to %s", from, to),
			Rng: rng,
		}
	}
	op, ok := isa.CoerceOpcode(from, to)
	assert.That(ok, "emitCoerce: no opcode for %s -> %s", from, to)
	c.em.Op(op)
	return nil
}
