package cpu

import (
	"github.com/pkg/errors"
)

// opcode is a fetched instruction word with accessors for its fields.
type opcode uint16

func (op opcode) family() uint8 { return uint8(op >> 12) }
func (op opcode) x() uint8      { return uint8(op>>8) & 0xF }
func (op opcode) y() uint8      { return uint8(op>>4) & 0xF }
func (op opcode) n() uint8      { return uint8(op) & 0xF }
func (op opcode) kk() uint8     { return uint8(op) }
func (op opcode) nnn() uint16   { return uint16(op) & addressMask }

type handler func(emu *EMU, op opcode) error

// families is keyed by the top nibble. Families 0, 8, E and F share their
// leading nibble between several instructions and dispatch again on the
// low nibble or low byte.
var families = [16]handler{
	0x0: dispatch0,
	0x1: (*EMU).jump,
	0x2: (*EMU).call,
	0x3: (*EMU).skipEqualByte,
	0x4: (*EMU).skipNotEqualByte,
	0x5: (*EMU).skipEqualRegister,
	0x6: (*EMU).loadByte,
	0x7: (*EMU).addByte,
	0x8: dispatch8,
	0x9: (*EMU).skipNotEqualRegister,
	0xA: (*EMU).loadIndex,
	0xB: (*EMU).jumpOffset,
	0xC: (*EMU).random,
	0xD: (*EMU).draw,
	0xE: dispatchE,
	0xF: dispatchF,
}

var table0 = [16]handler{
	0x0: (*EMU).clearScreen,
	0xE: (*EMU).ret,
}

var table8 = [16]handler{
	0x0: (*EMU).loadRegister,
	0x1: (*EMU).or,
	0x2: (*EMU).and,
	0x3: (*EMU).xor,
	0x4: (*EMU).addRegister,
	0x5: (*EMU).sub,
	0x6: (*EMU).shiftRight,
	0x7: (*EMU).subReverse,
	0xE: (*EMU).shiftLeft,
}

var tableE = [16]handler{
	0x1: (*EMU).skipKeyUp,
	0xE: (*EMU).skipKeyDown,
}

var tableF = [256]handler{
	0x07: (*EMU).loadDelay,
	0x0A: (*EMU).waitKey,
	0x15: (*EMU).setDelay,
	0x18: (*EMU).setSound,
	0x1E: (*EMU).addIndex,
	0x29: (*EMU).loadGlyph,
	0x33: (*EMU).storeBCD,
	0x55: (*EMU).storeRegisters,
	0x65: (*EMU).loadRegisters,
}

// The low nibble alone selects within families 0 and E, so 00E0 and 00EE
// are told apart by 0 and E, ExA1 and Ex9E by 1 and E. The remaining bits
// must still match or the opcode is undefined.
func dispatch0(emu *EMU, op opcode) error {
	if op&0x0FF0 != 0x00E0 {
		return emu.undefined(op)
	}
	return route(emu, op, table0[op.n()])
}

func dispatch8(emu *EMU, op opcode) error {
	return route(emu, op, table8[op.n()])
}

func dispatchE(emu *EMU, op opcode) error {
	switch op.kk() {
	case 0x9E, 0xA1:
		return route(emu, op, tableE[op.n()])
	}
	return emu.undefined(op)
}

func dispatchF(emu *EMU, op opcode) error {
	return route(emu, op, tableF[op.kk()])
}

func route(emu *EMU, op opcode, h handler) error {
	if h == nil {
		return emu.undefined(op)
	}
	return h(emu, op)
}

func (emu *EMU) execute(op opcode) error {
	return families[op.family()](emu, op)
}

// undefined handles every opcode without an instruction. Only the program
// counter, which the fetch already advanced, is changed.
func (emu *EMU) undefined(op opcode) error {
	if !emu.strict {
		return nil
	}
	return errors.Wrapf(ErrUndefinedInstruction, "opcode %04X at %03X", uint16(op), emu.pc-2)
}
