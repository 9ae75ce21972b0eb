package vm

import (
	"math"

	"github.com/danswartzendruber/basic-core/internal/assert"
	"github.com/danswartzendruber/basic-core/isa"
)

// step decodes and executes the single instruction op, whose operand bytes
// (if any) begin at pos in code. Returns the position of the following
// instruction.
func (vm *VM) step(op isa.Opcode, code []byte, pos int) (int, error) {
	switch op {
	case isa.PushImmInteger:
		vm.push(isa.Integer(int16(readU16(code, pos))))
		return pos + 2, nil
	case isa.PushImmLong:
		vm.push(isa.Long(int32(readU32(code, pos))))
		return pos + 4, nil
	case isa.PushImmSingle:
		vm.push(isa.Single(math.Float32frombits(uint32(readU32(code, pos)))))
		return pos + 4, nil
	case isa.PushImmDouble:
		vm.push(isa.Double(math.Float64frombits(readU64(code, pos))))
		return pos + 8, nil
	case isa.PushImmString:
		n := int(readU16(code, pos))
		pos += 2
		vm.push(isa.String(string(code[pos : pos+n])))
		return pos + n, nil

	case isa.PushVariable:
		slot := code[pos]
		assert.That(int(slot) < len(vm.slots), "PUSH_VARIABLE: slot %d out of range", slot)
		vm.push(vm.slots[slot])
		return pos + 1, nil

	case isa.Let:
		slot := code[pos]
		assert.That(int(slot) < len(vm.slots), "LET: slot %d out of range", slot)
		vm.slots[slot] = vm.pop()
		return pos + 1, nil

	case isa.BuiltinPrint:
		v := vm.pop()
		if err := vm.effects.Print(v); err != nil {
			return 0, err
		}
		return pos, nil

	case isa.BuiltinPrintComma:
		if err := vm.effects.PrintComma(); err != nil {
			return 0, err
		}
		return pos, nil

	case isa.BuiltinPrintLinefeed:
		if err := vm.effects.PrintLinefeed(); err != nil {
			return 0, err
		}
		return pos, nil

	case isa.PragmaPrinted:
		n := int(readU16(code, pos))
		pos += 2
		s := string(code[pos : pos+n])
		if err := vm.effects.PragmaPrinted(s); err != nil {
			return 0, err
		}
		return pos + n, nil
	}

	if from, to, ok := isa.DecodeCoercion(op); ok {
		if err := vm.coerce(from, to); err != nil {
			return 0, err
		}
		return pos, nil
	}

	if err := vm.operator(op); err != nil {
		return 0, err
	}
	return pos, nil
}

// coerce pops a value of kind from, converts it to kind to, and pushes the
// result. Widening is exact. Float-to-integer narrowing rounds toward zero
// with saturation. LONG->INTEGER narrowing out of [-32768, 32767] fails at
// runtime.
func (vm *VM) coerce(from, to isa.ValueKind) error {
	v := vm.pop()
	if v.Kind != from {
		return vm.typeMismatch(from, v)
	}

	switch {
	case from == isa.KindInteger && to == isa.KindLong:
		vm.push(isa.Long(int32(v.I16)))
	case from == isa.KindInteger && to == isa.KindSingle:
		vm.push(isa.Single(float32(v.I16)))
	case from == isa.KindInteger && to == isa.KindDouble:
		vm.push(isa.Double(float64(v.I16)))

	case from == isa.KindLong && to == isa.KindInteger:
		if v.I32 < -32768 || v.I32 > 32767 {
			return &RuntimeError{Kind: Overflow, Msg: "overflow coercing LONG to INTEGER"}
		}
		vm.push(isa.Integer(int16(v.I32)))
	case from == isa.KindLong && to == isa.KindSingle:
		vm.push(isa.Single(float32(v.I32)))
	case from == isa.KindLong && to == isa.KindDouble:
		vm.push(isa.Double(float64(v.I32)))

	case from == isa.KindSingle && to == isa.KindInteger:
		vm.push(isa.Integer(saturateInt16(float64(v.F32))))
	case from == isa.KindSingle && to == isa.KindLong:
		vm.push(isa.Long(saturateInt32(float64(v.F32))))
	case from == isa.KindSingle && to == isa.KindDouble:
		vm.push(isa.Double(float64(v.F32)))

	case from == isa.KindDouble && to == isa.KindInteger:
		vm.push(isa.Integer(saturateInt16(v.F64)))
	case from == isa.KindDouble && to == isa.KindLong:
		vm.push(isa.Long(saturateInt32(v.F64)))
	case from == isa.KindDouble && to == isa.KindSingle:
		vm.push(isa.Single(float32(v.F64)))

	default:
		assert.Bug("coerce: unhandled pair %s -> %s", from, to)
	}

	return nil
}

// saturateInt16 rounds toward zero then clamps to int16 range: a value
// out of range yields the type's minimum rather than failing. This path
// (unlike LONG->INTEGER) never fails at runtime; it saturates instead.
func saturateInt16(f float64) int16 {
	t := math.Trunc(f)
	if t < math.MinInt16 || t > math.MaxInt16 {
		return math.MinInt16
	}
	return int16(t)
}

func saturateInt32(f float64) int32 {
	t := math.Trunc(f)
	if t < math.MinInt32 || t > math.MaxInt32 {
		return math.MinInt32
	}
	return int32(t)
}

// operator executes a typed arithmetic, comparison, or logical opcode: pop
// the operand(s) right-to-left (RHS was pushed last), compute, push the
// result.
func (vm *VM) operator(op isa.Opcode) error {
	switch op {
	case isa.OperatorNegateInteger:
		v := vm.pop()
		vm.push(isa.Integer(-v.I16))
		return nil
	case isa.OperatorNegateLong:
		v := vm.pop()
		vm.push(isa.Long(-v.I32))
		return nil
	case isa.OperatorNegateSingle:
		v := vm.pop()
		vm.push(isa.Single(-v.F32))
		return nil
	case isa.OperatorNegateDouble:
		v := vm.pop()
		vm.push(isa.Double(-v.F64))
		return nil
	}

	rhs, lhs := vm.pop(), vm.pop()

	switch op {
	case isa.OperatorAddInteger:
		vm.push(isa.Integer(lhs.I16 + rhs.I16))
	case isa.OperatorAddLong:
		vm.push(isa.Long(lhs.I32 + rhs.I32))
	case isa.OperatorAddSingle:
		vm.push(isa.Single(lhs.F32 + rhs.F32))
	case isa.OperatorAddDouble:
		vm.push(isa.Double(lhs.F64 + rhs.F64))
	case isa.OperatorAddString:
		vm.push(isa.String(lhs.Str + rhs.Str))

	case isa.OperatorSubtractInteger:
		vm.push(isa.Integer(lhs.I16 - rhs.I16))
	case isa.OperatorSubtractLong:
		vm.push(isa.Long(lhs.I32 - rhs.I32))
	case isa.OperatorSubtractSingle:
		vm.push(isa.Single(lhs.F32 - rhs.F32))
	case isa.OperatorSubtractDouble:
		vm.push(isa.Double(lhs.F64 - rhs.F64))

	case isa.OperatorMultiplyInteger:
		vm.push(isa.Integer(lhs.I16 * rhs.I16))
	case isa.OperatorMultiplyLong:
		vm.push(isa.Long(lhs.I32 * rhs.I32))
	case isa.OperatorMultiplySingle:
		vm.push(isa.Single(lhs.F32 * rhs.F32))
	case isa.OperatorMultiplyDouble:
		vm.push(isa.Double(lhs.F64 * rhs.F64))

	case isa.OperatorFDivideSingle:
		vm.push(isa.Single(lhs.F32 / rhs.F32))
	case isa.OperatorFDivideDouble:
		vm.push(isa.Double(lhs.F64 / rhs.F64))

	case isa.OperatorIDivideInteger:
		if rhs.I16 == 0 {
			return &RuntimeError{Kind: Overflow, Msg: "division by zero"}
		}
		vm.push(isa.Integer(lhs.I16 / rhs.I16))
	case isa.OperatorIDivideLong:
		if rhs.I32 == 0 {
			return &RuntimeError{Kind: Overflow, Msg: "division by zero"}
		}
		vm.push(isa.Long(lhs.I32 / rhs.I32))

	case isa.OperatorEqInteger:
		vm.push(boolInt(lhs.I16 == rhs.I16))
	case isa.OperatorEqLong:
		vm.push(boolInt(lhs.I32 == rhs.I32))
	case isa.OperatorEqSingle:
		vm.push(boolInt(lhs.F32 == rhs.F32))
	case isa.OperatorEqDouble:
		vm.push(boolInt(lhs.F64 == rhs.F64))
	case isa.OperatorEqString:
		vm.push(boolInt(lhs.Str == rhs.Str))

	case isa.OperatorNeqInteger:
		vm.push(boolInt(lhs.I16 != rhs.I16))
	case isa.OperatorNeqLong:
		vm.push(boolInt(lhs.I32 != rhs.I32))
	case isa.OperatorNeqSingle:
		vm.push(boolInt(lhs.F32 != rhs.F32))
	case isa.OperatorNeqDouble:
		vm.push(boolInt(lhs.F64 != rhs.F64))
	case isa.OperatorNeqString:
		vm.push(boolInt(lhs.Str != rhs.Str))

	case isa.OperatorLtInteger:
		vm.push(boolInt(lhs.I16 < rhs.I16))
	case isa.OperatorLtLong:
		vm.push(boolInt(lhs.I32 < rhs.I32))
	case isa.OperatorLtSingle:
		vm.push(boolInt(lhs.F32 < rhs.F32))
	case isa.OperatorLtDouble:
		vm.push(boolInt(lhs.F64 < rhs.F64))
	case isa.OperatorLtString:
		vm.push(boolInt(lhs.Str < rhs.Str))

	case isa.OperatorGtInteger:
		vm.push(boolInt(lhs.I16 > rhs.I16))
	case isa.OperatorGtLong:
		vm.push(boolInt(lhs.I32 > rhs.I32))
	case isa.OperatorGtSingle:
		vm.push(boolInt(lhs.F32 > rhs.F32))
	case isa.OperatorGtDouble:
		vm.push(boolInt(lhs.F64 > rhs.F64))
	case isa.OperatorGtString:
		vm.push(boolInt(lhs.Str > rhs.Str))

	case isa.OperatorLteInteger:
		vm.push(boolInt(lhs.I16 <= rhs.I16))
	case isa.OperatorLteLong:
		vm.push(boolInt(lhs.I32 <= rhs.I32))
	case isa.OperatorLteSingle:
		vm.push(boolInt(lhs.F32 <= rhs.F32))
	case isa.OperatorLteDouble:
		vm.push(boolInt(lhs.F64 <= rhs.F64))
	case isa.OperatorLteString:
		vm.push(boolInt(lhs.Str <= rhs.Str))

	case isa.OperatorGteInteger:
		vm.push(boolInt(lhs.I16 >= rhs.I16))
	case isa.OperatorGteLong:
		vm.push(boolInt(lhs.I32 >= rhs.I32))
	case isa.OperatorGteSingle:
		vm.push(boolInt(lhs.F32 >= rhs.F32))
	case isa.OperatorGteDouble:
		vm.push(boolInt(lhs.F64 >= rhs.F64))
	case isa.OperatorGteString:
		vm.push(boolInt(lhs.Str >= rhs.Str))

	case isa.OperatorAndInteger:
		vm.push(isa.Integer(lhs.I16 & rhs.I16))
	case isa.OperatorAndLong:
		vm.push(isa.Long(lhs.I32 & rhs.I32))
	case isa.OperatorOrInteger:
		vm.push(isa.Integer(lhs.I16 | rhs.I16))
	case isa.OperatorOrLong:
		vm.push(isa.Long(lhs.I32 | rhs.I32))
	case isa.OperatorXorInteger:
		vm.push(isa.Integer(lhs.I16 ^ rhs.I16))
	case isa.OperatorXorLong:
		vm.push(isa.Long(lhs.I32 ^ rhs.I32))

	case isa.OperatorModInteger:
		if rhs.I16 == 0 {
			return &RuntimeError{Kind: Overflow, Msg: "division by zero"}
		}
		vm.push(isa.Integer(lhs.I16 % rhs.I16))
	case isa.OperatorModLong:
		if rhs.I32 == 0 {
			return &RuntimeError{Kind: Overflow, Msg: "division by zero"}
		}
		vm.push(isa.Long(lhs.I32 % rhs.I32))

	default:
		assert.Bug("operator: unhandled opcode %s", op)
	}

	return nil
}

func boolInt(b bool) isa.Value {
	if b {
		return isa.Integer(-1)
	}
	return isa.Integer(0)
}
