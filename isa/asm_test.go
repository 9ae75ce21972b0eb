package isa

import "testing"

func TestEmitDisassembleRoundTrip(t *testing.T) {
	e := &Emitter{}
	e.PushImmInteger(42)
	e.PushImmLong(-100000)
	e.PushImmSingle(1.5)
	e.PushImmDouble(2.25)
	e.PushImmString("koer")
	e.PushVariable(3)
	e.Let(3)
	e.Op(BuiltinPrintLinefeed)

	insts, err := Disassemble(e.Code)
	if err != nil {
		t.Fatal(err)
	}

	want := []Opcode{
		PushImmInteger, PushImmLong, PushImmSingle, PushImmDouble,
		PushImmString, PushVariable, Let, BuiltinPrintLinefeed,
	}
	if len(insts) != len(want) {
		t.Fatalf("got %d instructions, want %d", len(insts), len(want))
	}
	for i, op := range want {
		if insts[i].Op != op {
			t.Errorf("instruction %d: got %s, want %s", i, insts[i].Op, op)
		}
	}

	if v, ok := insts[0].Operand.(int16); !ok || v != 42 {
		t.Errorf("PushImmInteger operand = %v", insts[0].Operand)
	}
	if v, ok := insts[4].Operand.(string); !ok || v != "koer" {
		t.Errorf("PushImmString operand = %v", insts[4].Operand)
	}
	if v, ok := insts[5].Operand.(byte); !ok || v != 3 {
		t.Errorf("PushVariable operand = %v", insts[5].Operand)
	}
}

func TestDisassembleTruncated(t *testing.T) {
	code := []byte{byte(PushImmInteger), 0x01} // needs 2 operand bytes, has 1
	if _, err := Disassemble(code); err == nil {
		t.Fatal("expected truncation error")
	}
}

func TestOperandBytes(t *testing.T) {
	if n, variable := PushImmInteger.OperandBytes(); n != 2 || variable {
		t.Fatalf("got %d, %v", n, variable)
	}
	if n, variable := PushImmString.OperandBytes(); n != 0 || !variable {
		t.Fatalf("got %d, %v", n, variable)
	}
}
