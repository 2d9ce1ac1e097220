package cpu

import (
	"github.com/pkg/errors"
)

// 00E0 - CLS
func (emu *EMU) clearScreen(opcode) error {
	emu.display = [Width * Height]uint32{}
	return nil
}

// 00EE - RET
func (emu *EMU) ret(opcode) error {
	if emu.sp == 0 {
		return errors.Wrapf(ErrStackUnderflow, "at %03X", emu.pc-2)
	}
	emu.sp--
	emu.pc = emu.stack[emu.sp]
	return nil
}

// 1nnn - JP addr
func (emu *EMU) jump(op opcode) error {
	emu.pc = op.nnn()
	return nil
}

// 2nnn - CALL addr
func (emu *EMU) call(op opcode) error {
	if int(emu.sp) >= stackDepth {
		return errors.Wrapf(ErrStackOverflow, "calling %03X from %03X", op.nnn(), emu.pc-2)
	}
	emu.stack[emu.sp] = emu.pc
	emu.sp++
	emu.pc = op.nnn()
	return nil
}

func (emu *EMU) skipIf(cond bool) {
	if cond {
		emu.pc += 2
	}
}

// 3xkk - SE Vx, byte
func (emu *EMU) skipEqualByte(op opcode) error {
	emu.skipIf(emu.V[op.x()] == op.kk())
	return nil
}

// 4xkk - SNE Vx, byte
func (emu *EMU) skipNotEqualByte(op opcode) error {
	emu.skipIf(emu.V[op.x()] != op.kk())
	return nil
}

// 5xy0 - SE Vx, Vy
func (emu *EMU) skipEqualRegister(op opcode) error {
	emu.skipIf(emu.V[op.x()] == emu.V[op.y()])
	return nil
}

// 9xy0 - SNE Vx, Vy
func (emu *EMU) skipNotEqualRegister(op opcode) error {
	emu.skipIf(emu.V[op.x()] != emu.V[op.y()])
	return nil
}

// 6xkk - LD Vx, byte
func (emu *EMU) loadByte(op opcode) error {
	emu.V[op.x()] = op.kk()
	return nil
}

// 7xkk - ADD Vx, byte. No carry.
func (emu *EMU) addByte(op opcode) error {
	emu.V[op.x()] += op.kk()
	return nil
}

// 8xy0 - LD Vx, Vy
func (emu *EMU) loadRegister(op opcode) error {
	emu.V[op.x()] = emu.V[op.y()]
	return nil
}

// 8xy1 - OR Vx, Vy
func (emu *EMU) or(op opcode) error {
	emu.V[op.x()] |= emu.V[op.y()]
	return nil
}

// 8xy2 - AND Vx, Vy
func (emu *EMU) and(op opcode) error {
	emu.V[op.x()] &= emu.V[op.y()]
	return nil
}

// 8xy3 - XOR Vx, Vy
func (emu *EMU) xor(op opcode) error {
	emu.V[op.x()] ^= emu.V[op.y()]
	return nil
}

// The flag is written before the result in the arithmetic and shift
// instructions, so with x = F the result is what remains in VF.

// 8xy4 - ADD Vx, Vy. VF = carry.
func (emu *EMU) addRegister(op opcode) error {
	sum := uint16(emu.V[op.x()]) + uint16(emu.V[op.y()])
	emu.V[flag] = boolToFlag(sum > 0xFF)
	emu.V[op.x()] = uint8(sum)
	return nil
}

// 8xy5 - SUB Vx, Vy. VF = Vx > Vy.
func (emu *EMU) sub(op opcode) error {
	vx, vy := emu.V[op.x()], emu.V[op.y()]
	emu.V[flag] = boolToFlag(vx > vy)
	emu.V[op.x()] = vx - vy
	return nil
}

// 8xy6 - SHR Vx. VF = bit shifted out.
func (emu *EMU) shiftRight(op opcode) error {
	vx := emu.V[op.x()]
	emu.V[flag] = vx & 0x01
	emu.V[op.x()] = vx >> 1
	return nil
}

// 8xy7 - SUBN Vx, Vy. VF = Vy > Vx.
func (emu *EMU) subReverse(op opcode) error {
	vx, vy := emu.V[op.x()], emu.V[op.y()]
	emu.V[flag] = boolToFlag(vy > vx)
	emu.V[op.x()] = vy - vx
	return nil
}

// 8xyE - SHL Vx. VF = bit shifted out.
func (emu *EMU) shiftLeft(op opcode) error {
	vx := emu.V[op.x()]
	emu.V[flag] = vx >> 7
	emu.V[op.x()] = vx << 1
	return nil
}

// Annn - LD I, addr
func (emu *EMU) loadIndex(op opcode) error {
	emu.I = op.nnn()
	return nil
}

// Bnnn - JP V0, addr
func (emu *EMU) jumpOffset(op opcode) error {
	emu.pc = (op.nnn() + uint16(emu.V[0])) & addressMask
	return nil
}

// Cxkk - RND Vx, byte
func (emu *EMU) random(op opcode) error {
	emu.V[op.x()] = uint8(emu.rng.Intn(256)) & op.kk()
	return nil
}

// Ex9E - SKP Vx
func (emu *EMU) skipKeyDown(op opcode) error {
	emu.skipIf(emu.keyState[emu.V[op.x()]&0xF])
	return nil
}

// ExA1 - SKNP Vx
func (emu *EMU) skipKeyUp(op opcode) error {
	emu.skipIf(!emu.keyState[emu.V[op.x()]&0xF])
	return nil
}

// Fx07 - LD Vx, DT
func (emu *EMU) loadDelay(op opcode) error {
	emu.V[op.x()] = emu.delayTimer
	return nil
}

// Fx0A - LD Vx, K. Without a pressed key the program counter is rewound,
// so the same instruction runs again on the next cycle.
func (emu *EMU) waitKey(op opcode) error {
	for key, pressed := range emu.keyState {
		if pressed {
			emu.V[op.x()] = uint8(key)
			return nil
		}
	}
	emu.pc -= 2
	return nil
}

// Fx15 - LD DT, Vx
func (emu *EMU) setDelay(op opcode) error {
	emu.delayTimer = emu.V[op.x()]
	return nil
}

// Fx18 - LD ST, Vx
func (emu *EMU) setSound(op opcode) error {
	emu.soundTimer = emu.V[op.x()]
	return nil
}

// Fx1E - ADD I, Vx
func (emu *EMU) addIndex(op opcode) error {
	emu.I += uint16(emu.V[op.x()])
	return nil
}

// Fx29 - LD F, Vx
func (emu *EMU) loadGlyph(op opcode) error {
	emu.I = fontStart + glyphSize*uint16(emu.V[op.x()]&0xF)
	return nil
}

// Fx33 - LD B, Vx
func (emu *EMU) storeBCD(op opcode) error {
	value := emu.V[op.x()]
	emu.writeMemory(emu.I, value/100)
	emu.writeMemory(emu.I+1, value/10%10)
	emu.writeMemory(emu.I+2, value%10)
	return nil
}

// Fx55 - LD [I], Vx
func (emu *EMU) storeRegisters(op opcode) error {
	for i := uint16(0); i <= uint16(op.x()); i++ {
		emu.writeMemory(emu.I+i, emu.V[i])
	}
	return nil
}

// Fx65 - LD Vx, [I]
func (emu *EMU) loadRegisters(op opcode) error {
	for i := uint16(0); i <= uint16(op.x()); i++ {
		emu.V[i] = emu.ReadMemory(emu.I + i)
	}
	return nil
}

func (emu *EMU) writeMemory(addr uint16, value uint8) {
	emu.memory[addr&addressMask] = value
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
