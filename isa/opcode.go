// Package isa is the shared vocabulary between the compiler and the
// virtual machine: the opcode enumeration, the tagged Value type, the
// coercion lattice, the (dis)assembler, and the canonical print formatter.
package isa

// Opcode identifies a single bytecode instruction. Byte values are
// assigned in families with gaps between them, matching the numbering
// used by the reference RTL core this ISA was distilled from (PUSH_IMM_*
// at 0x01.., PUSH_VARIABLE/LET at 0x0a/0x20, builtins at 0x80.., operators
// at 0xa0..) so a disassembly here lines up with that model's trace
// output.
type Opcode byte

const (
	PushImmInteger Opcode = 0x01
	PushImmLong    Opcode = 0x02
	PushImmSingle  Opcode = 0x03
	PushImmDouble  Opcode = 0x04
	PushImmString  Opcode = 0x05

	PushVariable Opcode = 0x0a
	Let          Opcode = 0x20

	PromoteIntegerLong   Opcode = 0x30
	CoerceIntegerSingle  Opcode = 0x31
	CoerceIntegerDouble  Opcode = 0x32
	CoerceLongInteger    Opcode = 0x33
	CoerceLongSingle     Opcode = 0x34
	CoerceLongDouble     Opcode = 0x35
	CoerceSingleInteger  Opcode = 0x36
	CoerceSingleLong     Opcode = 0x37
	PromoteSingleDouble  Opcode = 0x38
	CoerceDoubleInteger  Opcode = 0x39
	CoerceDoubleLong     Opcode = 0x3a
	CoerceDoubleSingle   Opcode = 0x3b

	BuiltinPrint         Opcode = 0x80
	BuiltinPrintComma    Opcode = 0x81
	BuiltinPrintLinefeed Opcode = 0x82
	PragmaPrinted        Opcode = 0x83

	OperatorAddInteger      Opcode = 0xa0
	OperatorAddLong         Opcode = 0xa1
	OperatorAddSingle       Opcode = 0xa2
	OperatorAddDouble       Opcode = 0xa3
	OperatorAddString       Opcode = 0xa4
	OperatorSubtractInteger Opcode = 0xa5
	OperatorSubtractLong    Opcode = 0xa6
	OperatorSubtractSingle  Opcode = 0xa7
	OperatorSubtractDouble  Opcode = 0xa8
	OperatorMultiplyInteger Opcode = 0xa9
	OperatorMultiplyLong    Opcode = 0xaa
	OperatorMultiplySingle  Opcode = 0xab
	OperatorMultiplyDouble  Opcode = 0xac
	OperatorFDivideSingle   Opcode = 0xad
	OperatorFDivideDouble   Opcode = 0xae
	OperatorIDivideInteger  Opcode = 0xaf
	OperatorIDivideLong     Opcode = 0xb0
	OperatorNegateInteger   Opcode = 0xb1
	OperatorNegateLong      Opcode = 0xb2
	OperatorNegateSingle    Opcode = 0xb3
	OperatorNegateDouble    Opcode = 0xb4

	OperatorEqInteger  Opcode = 0xb5
	OperatorEqLong     Opcode = 0xb6
	OperatorEqSingle   Opcode = 0xb7
	OperatorEqDouble   Opcode = 0xb8
	OperatorEqString   Opcode = 0xb9
	OperatorNeqInteger Opcode = 0xba
	OperatorNeqLong    Opcode = 0xbb
	OperatorNeqSingle  Opcode = 0xbc
	OperatorNeqDouble  Opcode = 0xbd
	OperatorNeqString  Opcode = 0xbe
	OperatorLtInteger  Opcode = 0xbf
	OperatorLtLong     Opcode = 0xc0
	OperatorLtSingle   Opcode = 0xc1
	OperatorLtDouble   Opcode = 0xc2
	OperatorLtString   Opcode = 0xc3
	OperatorGtInteger  Opcode = 0xc4
	OperatorGtLong     Opcode = 0xc5
	OperatorGtSingle   Opcode = 0xc6
	OperatorGtDouble   Opcode = 0xc7
	OperatorGtString   Opcode = 0xc8
	OperatorLteInteger Opcode = 0xc9
	OperatorLteLong    Opcode = 0xca
	OperatorLteSingle  Opcode = 0xcb
	OperatorLteDouble  Opcode = 0xcc
	OperatorLteString  Opcode = 0xcd
	OperatorGteInteger Opcode = 0xce
	OperatorGteLong    Opcode = 0xcf
	OperatorGteSingle  Opcode = 0xd0
	OperatorGteDouble  Opcode = 0xd1
	OperatorGteString  Opcode = 0xd2

	OperatorAndInteger Opcode = 0xd3
	OperatorAndLong    Opcode = 0xd4
	OperatorOrInteger  Opcode = 0xd5
	OperatorOrLong     Opcode = 0xd6
	OperatorXorInteger Opcode = 0xd7
	OperatorXorLong    Opcode = 0xd8
	OperatorModInteger Opcode = 0xd9
	OperatorModLong    Opcode = 0xda
)

var opcodeNames = map[Opcode]string{
	PushImmInteger: "PUSH_IMM_INTEGER", PushImmLong: "PUSH_IMM_LONG",
	PushImmSingle: "PUSH_IMM_SINGLE", PushImmDouble: "PUSH_IMM_DOUBLE",
	PushImmString: "PUSH_IMM_STRING", PushVariable: "PUSH_VARIABLE", Let: "LET",

	PromoteIntegerLong: "PROMOTE_INTEGER_LONG", CoerceIntegerSingle: "COERCE_INTEGER_SINGLE",
	CoerceIntegerDouble: "COERCE_INTEGER_DOUBLE", CoerceLongInteger: "COERCE_LONG_INTEGER",
	CoerceLongSingle: "COERCE_LONG_SINGLE", CoerceLongDouble: "COERCE_LONG_DOUBLE",
	CoerceSingleInteger: "COERCE_SINGLE_INTEGER", CoerceSingleLong: "COERCE_SINGLE_LONG",
	PromoteSingleDouble: "PROMOTE_SINGLE_DOUBLE", CoerceDoubleInteger: "COERCE_DOUBLE_INTEGER",
	CoerceDoubleLong: "COERCE_DOUBLE_LONG", CoerceDoubleSingle: "COERCE_DOUBLE_SINGLE",

	BuiltinPrint: "BUILTIN_PRINT", BuiltinPrintComma: "BUILTIN_PRINT_COMMA",
	BuiltinPrintLinefeed: "BUILTIN_PRINT_LINEFEED", PragmaPrinted: "PRAGMA_PRINTED",

	OperatorAddInteger: "OPERATOR_ADD_INTEGER", OperatorAddLong: "OPERATOR_ADD_LONG",
	OperatorAddSingle: "OPERATOR_ADD_SINGLE", OperatorAddDouble: "OPERATOR_ADD_DOUBLE",
	OperatorAddString: "OPERATOR_ADD_STRING",
	OperatorSubtractInteger: "OPERATOR_SUBTRACT_INTEGER", OperatorSubtractLong: "OPERATOR_SUBTRACT_LONG",
	OperatorSubtractSingle: "OPERATOR_SUBTRACT_SINGLE", OperatorSubtractDouble: "OPERATOR_SUBTRACT_DOUBLE",
	OperatorMultiplyInteger: "OPERATOR_MULTIPLY_INTEGER", OperatorMultiplyLong: "OPERATOR_MULTIPLY_LONG",
	OperatorMultiplySingle: "OPERATOR_MULTIPLY_SINGLE", OperatorMultiplyDouble: "OPERATOR_MULTIPLY_DOUBLE",
	OperatorFDivideSingle: "OPERATOR_FDIVIDE_SINGLE", OperatorFDivideDouble: "OPERATOR_FDIVIDE_DOUBLE",
	OperatorIDivideInteger: "OPERATOR_IDIVIDE_INTEGER", OperatorIDivideLong: "OPERATOR_IDIVIDE_LONG",
	OperatorNegateInteger: "OPERATOR_NEGATE_INTEGER", OperatorNegateLong: "OPERATOR_NEGATE_LONG",
	OperatorNegateSingle: "OPERATOR_NEGATE_SINGLE", OperatorNegateDouble: "OPERATOR_NEGATE_DOUBLE",

	OperatorEqInteger: "OPERATOR_EQ_INTEGER", OperatorEqLong: "OPERATOR_EQ_LONG",
	OperatorEqSingle: "OPERATOR_EQ_SINGLE", OperatorEqDouble: "OPERATOR_EQ_DOUBLE",
	OperatorEqString: "OPERATOR_EQ_STRING",
	OperatorNeqInteger: "OPERATOR_NEQ_INTEGER", OperatorNeqLong: "OPERATOR_NEQ_LONG",
	OperatorNeqSingle: "OPERATOR_NEQ_SINGLE", OperatorNeqDouble: "OPERATOR_NEQ_DOUBLE",
	OperatorNeqString: "OPERATOR_NEQ_STRING",
	OperatorLtInteger: "OPERATOR_LT_INTEGER", OperatorLtLong: "OPERATOR_LT_LONG",
	OperatorLtSingle: "OPERATOR_LT_SINGLE", OperatorLtDouble: "OPERATOR_LT_DOUBLE",
	OperatorLtString: "OPERATOR_LT_STRING",
	OperatorGtInteger: "OPERATOR_GT_INTEGER", OperatorGtLong: "OPERATOR_GT_LONG",
	OperatorGtSingle: "OPERATOR_GT_SINGLE", OperatorGtDouble: "OPERATOR_GT_DOUBLE",
	OperatorGtString: "OPERATOR_GT_STRING",
	OperatorLteInteger: "OPERATOR_LTE_INTEGER", OperatorLteLong: "OPERATOR_LTE_LONG",
	OperatorLteSingle: "OPERATOR_LTE_SINGLE", OperatorLteDouble: "OPERATOR_LTE_DOUBLE",
	OperatorLteString: "OPERATOR_LTE_STRING",
	OperatorGteInteger: "OPERATOR_GTE_INTEGER", OperatorGteLong: "OPERATOR_GTE_LONG",
	OperatorGteSingle: "OPERATOR_GTE_SINGLE", OperatorGteDouble: "OPERATOR_GTE_DOUBLE",
	OperatorGteString: "OPERATOR_GTE_STRING",

	OperatorAndInteger: "OPERATOR_AND_INTEGER", OperatorAndLong: "OPERATOR_AND_LONG",
	OperatorOrInteger: "OPERATOR_OR_INTEGER", OperatorOrLong: "OPERATOR_OR_LONG",
	OperatorXorInteger: "OPERATOR_XOR_INTEGER", OperatorXorLong: "OPERATOR_XOR_LONG",
	OperatorModInteger: "OPERATOR_MOD_INTEGER", OperatorModLong: "OPERATOR_MOD_LONG",
}

func (op Opcode) String() string {
	if n, ok := opcodeNames[op]; ok {
		return n
	}
	return "UNKNOWN"
}

// OperandBytes reports how many immediate operand bytes follow the opcode
// byte itself, for opcodes with a fixed-width immediate. PushImmString and
// PragmaPrinted carry a variable-width immediate (u16 length prefix) and
// are not representable here; callers decode those specially.
func (op Opcode) OperandBytes() (n int, variable bool) {
	switch op {
	case PushImmInteger:
		return 2, false
	case PushImmLong:
		return 4, false
	case PushImmSingle:
		return 4, false
	case PushImmDouble:
		return 8, false
	case PushImmString, PragmaPrinted:
		return 0, true
	case PushVariable, Let:
		return 1, false
	default:
		return 0, false
	}
}
