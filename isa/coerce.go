package isa

// coerceTable is the 4x4 matrix of numeric source-type x target-type to
// opcode the compiler consults when inserting a coercion and the VM
// consults (through DecodeCoercion) when executing one. String has no entries:
// string/numeric coercion is always a compile-time TypeMismatch, never a
// runtime conversion.
var coerceTable = [4][4]Opcode{
	// from INTEGER
	{0, PromoteIntegerLong, CoerceIntegerSingle, CoerceIntegerDouble},
	// from LONG
	{CoerceLongInteger, 0, CoerceLongSingle, CoerceLongDouble},
	// from SINGLE
	{CoerceSingleInteger, CoerceSingleLong, 0, PromoteSingleDouble},
	// from DOUBLE
	{CoerceDoubleInteger, CoerceDoubleLong, CoerceDoubleSingle, 0},
}

// numericIndex maps a numeric ValueKind to its row/column in coerceTable.
// Panics for KindString; callers must only call this for numeric kinds.
func numericIndex(k ValueKind) int {
	switch k {
	case KindInteger:
		return 0
	case KindLong:
		return 1
	case KindSingle:
		return 2
	case KindDouble:
		return 3
	default:
		panic("numericIndex: not a numeric kind")
	}
}

// CoerceOpcode returns the opcode that converts a top-of-stack value of
// kind from to kind to, or ok=false if from == to (no coercion needed) or
// either kind is KindString.
func CoerceOpcode(from, to ValueKind) (op Opcode, ok bool) {
	if from == KindString || to == KindString || from == to {
		return 0, false
	}
	op = coerceTable[numericIndex(from)][numericIndex(to)]
	return op, true
}

// Join returns the least upper bound of two numeric types in the lattice
// integer < long < single < double. Callers must ensure neither kind is
// KindString.
func Join(a, b ValueKind) ValueKind {
	if numericIndex(a) >= numericIndex(b) {
		return a
	}
	return b
}

// DecodeCoercion reports the (from, to) pair a coercion opcode implements,
// for the VM's dispatch. ok is false if op is not a coercion opcode.
func DecodeCoercion(op Opcode) (from, to ValueKind, ok bool) {
	kinds := [4]ValueKind{KindInteger, KindLong, KindSingle, KindDouble}
	for i, row := range coerceTable {
		for j, o := range row {
			if o == op && i != j {
				return kinds[i], kinds[j], true
			}
		}
	}
	return 0, 0, false
}
