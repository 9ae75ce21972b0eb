package compiler

import (
	"fmt"

	"github.com/danswartzendruber/basic-core/ast"
	"github.com/danswartzendruber/basic-core/internal/assert"
	"github.com/danswartzendruber/basic-core/isa"
	"github.com/danswartzendruber/basic-core/token"
)

// compileExpr emits code that leaves a single value of the returned kind
// on top of the stack. Inference runs bottom-up: every subexpression's
// type is known before its parent is compiled, so a coercion opcode can be
// inserted exactly where the types first diverge.
func (c *compilerState) compileExpr(e *ast.Expr) (isa.ValueKind, error) {
	switch e.Kind {
	case ast.ImmInteger:
		c.em.PushImmInteger(e.I16)
		return isa.KindInteger, nil

	case ast.ImmLong:
		c.em.PushImmLong(e.I32)
		return isa.KindLong, nil

	case ast.ImmSingle:
		c.em.PushImmSingle(e.F32)
		return isa.KindSingle, nil

	case ast.ImmDouble:
		c.em.PushImmDouble(e.F64)
		return isa.KindDouble, nil

	case ast.ImmString:
		c.em.PushImmString(e.Str)
		return isa.KindString, nil

	case ast.VarRef:
		return c.compileVarRef(e)

	case ast.UnOp:
		return c.compileUnOp(e)

	case ast.BinOp:
		return c.compileBinOp(e)

	default:
		assert.Bug("compileExpr: unhandled expr kind %d", e.Kind)
		return 0, nil
	}
}

// compileVarRef reads a variable. A reference to a name never seen before
// autovivifies its slot at the sigil-implied type, holding the type's zero
// value.
func (c *compilerState) compileVarRef(e *ast.Expr) (isa.ValueKind, error) {
	slot, ok := c.slots[e.Name]
	if !ok {
		kind := isa.SigilKind(sigilOf(e.Name))
		slot = len(c.slotTypes)
		assert.That(slot <= 255, "slot table exhausted")
		c.slots[e.Name] = slot
		c.slotTypes = append(c.slotTypes, kind)
		c.slotNames = append(c.slotNames, e.Name)
	}

	c.em.PushVariable(byte(slot))
	return c.slotTypes[slot], nil
}

func (c *compilerState) compileUnOp(e *ast.Expr) (isa.ValueKind, error) {
	kind, err := c.compileExpr(e.LHS)
	if err != nil {
		return 0, err
	}
	if kind == isa.KindString {
		return 0, &TypeError{Msg: "cannot negate a STRING value", Rng: e.Range}
	}

	switch kind {
	case isa.KindInteger:
		c.em.Op(isa.OperatorNegateInteger)
	case isa.KindLong:
		c.em.Op(isa.OperatorNegateLong)
	case isa.KindSingle:
		c.em.Op(isa.OperatorNegateSingle)
	case isa.KindDouble:
		c.em.Op(isa.OperatorNegateDouble)
	default:
		assert.Bug("compileUnOp: unreachable numeric kind %s", kind)
	}

	return kind, nil
}

// binOpClass groups the BinOpKind values by the family of opcode they
// compile to, since each family supports a different subset of the five
// runtime types.
type binOpClass int

const (
	classAddLike  binOpClass = iota // + - * : all four numeric, + also string
	classFDivide                    // /  : single/double only
	classIDivide                    // \  : integer/long only
	classCompare                    // = <> < > <= >= : all four numeric and string
	classLogical                    // AND OR XOR MOD : integer/long only
)

func classify(op ast.BinOpKind) binOpClass {
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul:
		return classAddLike
	case ast.OpDiv:
		return classFDivide
	case ast.OpIDiv:
		return classIDivide
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpGt, ast.OpLte, ast.OpGte:
		return classCompare
	case ast.OpAnd, ast.OpOr, ast.OpXor, ast.OpMod:
		return classLogical
	default:
		assert.Bug("classify: unhandled BinOpKind %d", op)
		return 0
	}
}

func (c *compilerState) compileBinOp(e *ast.Expr) (isa.ValueKind, error) {
	lhsKind, err := c.compileExpr(e.LHS)
	if err != nil {
		return 0, err
	}

	// compileExpr for the RHS must run after the LHS's opcodes are
	// already emitted (stack order), but the LHS's own coercion, if any,
	// is inserted below once both types are known. The LHS value is left
	// on the stack in its native type for now.
	rhsStart := c.em.Offset()
	rhsKind, err := c.compileExpr(e.RHS)
	if err != nil {
		return 0, err
	}

	class := classify(e.Bin)

	if lhsKind == isa.KindString || rhsKind == isa.KindString {
		return c.compileStringBinOp(e, lhsKind, rhsKind, class, rhsStart)
	}

	switch class {
	case classAddLike:
		return c.compileNumericBinOp(e, lhsKind, rhsKind, isa.Join(lhsKind, rhsKind), addLikeOpcodes[e.Bin], rhsStart)

	case classFDivide:
		target := isa.KindSingle
		if c.cfg.WideDivide || lhsKind == isa.KindDouble || rhsKind == isa.KindDouble {
			target = isa.KindDouble
		}
		return c.compileFDivide(e, lhsKind, rhsKind, target, rhsStart)

	case classIDivide:
		target := isa.Join(lhsKind, rhsKind)
		if target == isa.KindSingle || target == isa.KindDouble {
			target = isa.KindLong
		}
		return c.compileIDivide(e, lhsKind, rhsKind, target, rhsStart)

	case classCompare:
		return c.compileNumericBinOp(e, lhsKind, rhsKind, isa.Join(lhsKind, rhsKind), compareOpcodes[e.Bin], rhsStart)

	case classLogical:
		target := isa.Join(lhsKind, rhsKind)
		if target == isa.KindSingle || target == isa.KindDouble {
			target = isa.KindLong
		}
		return c.compileLogical(e, lhsKind, rhsKind, target, rhsStart)

	default:
		assert.Bug("compileBinOp: unhandled class %d", class)
		return 0, nil
	}
}

func (c *compilerState) compileStringBinOp(e *ast.Expr, lhsKind, rhsKind isa.ValueKind, class binOpClass, rhsStart int) (isa.ValueKind, error) {
	if lhsKind != isa.KindString || rhsKind != isa.KindString {
		mismatched := lhsKind
		if lhsKind == isa.KindString {
			mismatched = rhsKind
		}
		return 0, &TypeError{
			Msg: fmt.Sprintf("cannot coerce %s to STRING", mismatched),
			Rng: e.Range,
		}
	}

	switch e.Bin {
	case ast.OpAdd:
		c.em.Op(isa.OperatorAddString)
		return isa.KindString, nil
	case ast.OpEq:
		c.em.Op(isa.OperatorEqString)
		return isa.KindInteger, nil
	case ast.OpNeq:
		c.em.Op(isa.OperatorNeqString)
		return isa.KindInteger, nil
	case ast.OpLt:
		c.em.Op(isa.OperatorLtString)
		return isa.KindInteger, nil
	case ast.OpGt:
		c.em.Op(isa.OperatorGtString)
		return isa.KindInteger, nil
	case ast.OpLte:
		c.em.Op(isa.OperatorLteString)
		return isa.KindInteger, nil
	case ast.OpGte:
		c.em.Op(isa.OperatorGteString)
		return isa.KindInteger, nil
	default:
		return 0, &TypeError{Msg: "operator not defined for STRING operands", Rng: e.Range}
	}
}

// compileNumericBinOp handles the families whose opcode set has one entry
// per numeric type (add/sub/mul, the six comparisons): coerce both
// operands up to target, then emit the opcode for target's type.
//
// The LHS's coercion opcode (if any) must be spliced in immediately after
// the LHS's own bytecode and before the RHS's, which is already emitted by
// the time this runs. It is inserted by slicing Code at rhsStart rather
// than appended at the end.
func (c *compilerState) compileNumericBinOp(e *ast.Expr, lhsKind, rhsKind, target isa.ValueKind, ops map[isa.ValueKind]isa.Opcode, rhsStart int) (isa.ValueKind, error) {
	if err := c.insertCoerceAt(rhsStart, lhsKind, target, e.LHS.Range); err != nil {
		return 0, err
	}
	if err := c.emitCoerce(rhsKind, target, e.RHS.Range); err != nil {
		return 0, err
	}

	op, ok := ops[target]
	assert.That(ok, "compileNumericBinOp: no opcode for target %s", target)
	c.em.Op(op)

	if _, isCompare := compareOpcodes[e.Bin]; isCompare {
		return isa.KindInteger, nil
	}
	return target, nil
}

func (c *compilerState) compileFDivide(e *ast.Expr, lhsKind, rhsKind, target isa.ValueKind, rhsStart int) (isa.ValueKind, error) {
	if err := c.insertCoerceAt(rhsStart, lhsKind, target, e.LHS.Range); err != nil {
		return 0, err
	}
	if err := c.emitCoerce(rhsKind, target, e.RHS.Range); err != nil {
		return 0, err
	}
	if target == isa.KindDouble {
		c.em.Op(isa.OperatorFDivideDouble)
	} else {
		c.em.Op(isa.OperatorFDivideSingle)
	}
	return target, nil
}

func (c *compilerState) compileIDivide(e *ast.Expr, lhsKind, rhsKind, target isa.ValueKind, rhsStart int) (isa.ValueKind, error) {
	if err := c.insertCoerceAt(rhsStart, lhsKind, target, e.LHS.Range); err != nil {
		return 0, err
	}
	if err := c.emitCoerce(rhsKind, target, e.RHS.Range); err != nil {
		return 0, err
	}
	if target == isa.KindLong {
		c.em.Op(isa.OperatorIDivideLong)
	} else {
		c.em.Op(isa.OperatorIDivideInteger)
	}
	return target, nil
}

func (c *compilerState) compileLogical(e *ast.Expr, lhsKind, rhsKind, target isa.ValueKind, rhsStart int) (isa.ValueKind, error) {
	if err := c.insertCoerceAt(rhsStart, lhsKind, target, e.LHS.Range); err != nil {
		return 0, err
	}
	if err := c.emitCoerce(rhsKind, target, e.RHS.Range); err != nil {
		return 0, err
	}

	wide := target == isa.KindLong
	switch e.Bin {
	case ast.OpAnd:
		c.em.Op(pick(wide, isa.OperatorAndLong, isa.OperatorAndInteger))
	case ast.OpOr:
		c.em.Op(pick(wide, isa.OperatorOrLong, isa.OperatorOrInteger))
	case ast.OpXor:
		c.em.Op(pick(wide, isa.OperatorXorLong, isa.OperatorXorInteger))
	case ast.OpMod:
		c.em.Op(pick(wide, isa.OperatorModLong, isa.OperatorModInteger))
	default:
		assert.Bug("compileLogical: unhandled op %d", e.Bin)
	}

	return target, nil
}

func pick(wide bool, ifWide, ifNarrow isa.Opcode) isa.Opcode {
	if wide {
		return ifWide
	}
	return ifNarrow
}

// insertCoerceAt splices a coercion opcode for the LHS into the code
// buffer at offset at (the position the RHS's bytecode begins), since by
// the time a BinOp's type is known both operands are already emitted in
// source order on the stack.
func (c *compilerState) insertCoerceAt(at int, from, to isa.ValueKind, rng token.Range) error {
	if from == to {
		return nil
	}
	op, ok := isa.CoerceOpcode(from, to)
	assert.That(ok, "insertCoerceAt: no opcode for %s -> %s", from, to)

	inserted := []byte{byte(op)}
	c.em.Code = append(c.em.Code[:at:at], append(inserted, c.em.Code[at:]...)...)
	return nil
}

var addLikeOpcodes = map[ast.BinOpKind]map[isa.ValueKind]isa.Opcode{
	ast.OpAdd: {
		isa.KindInteger: isa.OperatorAddInteger, isa.KindLong: isa.OperatorAddLong,
		isa.KindSingle: isa.OperatorAddSingle, isa.KindDouble: isa.OperatorAddDouble,
	},
	ast.OpSub: {
		isa.KindInteger: isa.OperatorSubtractInteger, isa.KindLong: isa.OperatorSubtractLong,
		isa.KindSingle: isa.OperatorSubtractSingle, isa.KindDouble: isa.OperatorSubtractDouble,
	},
	ast.OpMul: {
		isa.KindInteger: isa.OperatorMultiplyInteger, isa.KindLong: isa.OperatorMultiplyLong,
		isa.KindSingle: isa.OperatorMultiplySingle, isa.KindDouble: isa.OperatorMultiplyDouble,
	},
}

var compareOpcodes = map[ast.BinOpKind]map[isa.ValueKind]isa.Opcode{
	ast.OpEq: {
		isa.KindInteger: isa.OperatorEqInteger, isa.KindLong: isa.OperatorEqLong,
		isa.KindSingle: isa.OperatorEqSingle, isa.KindDouble: isa.OperatorEqDouble,
	},
	ast.OpNeq: {
		isa.KindInteger: isa.OperatorNeqInteger, isa.KindLong: isa.OperatorNeqLong,
		isa.KindSingle: isa.OperatorNeqSingle, isa.KindDouble: isa.OperatorNeqDouble,
	},
	ast.OpLt: {
		isa.KindInteger: isa.OperatorLtInteger, isa.KindLong: isa.OperatorLtLong,
		isa.KindSingle: isa.OperatorLtSingle, isa.KindDouble: isa.OperatorLtDouble,
	},
	ast.OpGt: {
		isa.KindInteger: isa.OperatorGtInteger, isa.KindLong: isa.OperatorGtLong,
		isa.KindSingle: isa.OperatorGtSingle, isa.KindDouble: isa.OperatorGtDouble,
	},
	ast.OpLte: {
		isa.KindInteger: isa.OperatorLteInteger, isa.KindLong: isa.OperatorLteLong,
		isa.KindSingle: isa.OperatorLteSingle, isa.KindDouble: isa.OperatorLteDouble,
	},
	ast.OpGte: {
		isa.KindInteger: isa.OperatorGteInteger, isa.KindLong: isa.OperatorGteLong,
		isa.KindSingle: isa.OperatorGteSingle, isa.KindDouble: isa.OperatorGteDouble,
	},
}
