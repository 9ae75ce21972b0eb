package isa

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Emitter accumulates a flat bytecode buffer, little-endian throughout.
// It is the write-side counterpart to Disassemble.
type Emitter struct {
	Code []byte
}

func (e *Emitter) Offset() int { return len(e.Code) }

func (e *Emitter) Op(op Opcode) int {
	off := e.Offset()
	e.Code = append(e.Code, byte(op))
	return off
}

func (e *Emitter) PushImmInteger(v int16) {
	e.Op(PushImmInteger)
	e.Code = binary.LittleEndian.AppendUint16(e.Code, uint16(v))
}

func (e *Emitter) PushImmLong(v int32) {
	e.Op(PushImmLong)
	e.Code = binary.LittleEndian.AppendUint32(e.Code, uint32(v))
}

func (e *Emitter) PushImmSingle(v float32) {
	e.Op(PushImmSingle)
	bits := math.Float32bits(v)
	e.Code = binary.LittleEndian.AppendUint32(e.Code, bits)
}

func (e *Emitter) PushImmDouble(v float64) {
	e.Op(PushImmDouble)
	bits := math.Float64bits(v)
	e.Code = binary.LittleEndian.AppendUint64(e.Code, bits)
}

func (e *Emitter) PushImmString(s string) {
	e.Op(PushImmString)
	e.Code = binary.LittleEndian.AppendUint16(e.Code, uint16(len(s)))
	e.Code = append(e.Code, s...)
}

func (e *Emitter) PushVariable(slot byte) {
	e.Op(PushVariable)
	e.Code = append(e.Code, slot)
}

func (e *Emitter) Let(slot byte) {
	e.Op(Let)
	e.Code = append(e.Code, slot)
}

func (e *Emitter) PragmaPrinted(s string) {
	e.Op(PragmaPrinted)
	e.Code = binary.LittleEndian.AppendUint16(e.Code, uint16(len(s)))
	e.Code = append(e.Code, s...)
}

// Instruction is one decoded bytecode instruction, for the disassembler.
type Instruction struct {
	Offset int
	Op     Opcode
	// Operand carries the decoded immediate, if any: int16, int32,
	// float32, float64, string or uint8 (slot), depending on Op.
	Operand any
}

// Disassemble decodes a flat bytecode buffer into a sequence of
// Instructions, for trace dumps and tests.
func Disassemble(code []byte) ([]Instruction, error) {
	var out []Instruction
	pos := 0

	for pos < len(code) {
		off := pos
		op := Opcode(code[pos])
		pos++

		inst := Instruction{Offset: off, Op: op}

		switch op {
		case PushImmInteger:
			if pos+2 > len(code) {
				return nil, errTruncated(off)
			}
			inst.Operand = int16(binary.LittleEndian.Uint16(code[pos:]))
			pos += 2

		case PushImmLong:
			if pos+4 > len(code) {
				return nil, errTruncated(off)
			}
			inst.Operand = int32(binary.LittleEndian.Uint32(code[pos:]))
			pos += 4

		case PushImmSingle:
			if pos+4 > len(code) {
				return nil, errTruncated(off)
			}
			inst.Operand = math.Float32frombits(binary.LittleEndian.Uint32(code[pos:]))
			pos += 4

		case PushImmDouble:
			if pos+8 > len(code) {
				return nil, errTruncated(off)
			}
			inst.Operand = math.Float64frombits(binary.LittleEndian.Uint64(code[pos:]))
			pos += 8

		case PushImmString, PragmaPrinted:
			if pos+2 > len(code) {
				return nil, errTruncated(off)
			}
			n := int(binary.LittleEndian.Uint16(code[pos:]))
			pos += 2
			if pos+n > len(code) {
				return nil, errTruncated(off)
			}
			inst.Operand = string(code[pos : pos+n])
			pos += n

		case PushVariable, Let:
			if pos+1 > len(code) {
				return nil, errTruncated(off)
			}
			inst.Operand = code[pos]
			pos++

		default:
			// no operand
		}

		out = append(out, inst)
	}

	return out, nil
}

type disasmError struct {
	offset int
}

func (e *disasmError) Error() string {
	return fmt.Sprintf("truncated instruction at offset %d", e.offset)
}

func errTruncated(offset int) error {
	return &disasmError{offset: offset}
}
