// Package chyp8 turns CHIP-8 instruction words back into assembly text. It
// backs the disasm command and the per-cycle trace log.
package chyp8

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

const programStart = 0x200

// Line is one disassembled instruction.
type Line struct {
	Address uint16
	Opcode  uint16
	Text    string
}

func (l Line) String() string {
	return fmt.Sprintf("%03X  %04X  %s", l.Address, l.Opcode, l.Text)
}

// Lookup returns the instruction matching the word, or nil for words that
// are not part of the instruction set. SE and SNE on registers ignore the
// low nibble, as the machine does.
func Lookup(word uint16) *chip8.Instruction {
	if family := word & 0xF000; family == 0x5000 || family == 0x9000 {
		word &^= 0x000F
	}
	for _, op := range chip8.Opcodes[int(word>>12)] {
		if op.Info.Mask&word == op.Info.Value {
			return op.Instruction
		}
	}
	return nil
}

// Decode returns the assembly text of a single instruction word. Words that
// are not instructions are rendered as data.
func Decode(word uint16) string {
	ins := Lookup(word)
	if ins == nil {
		return fmt.Sprintf("DB $%04X", word)
	}

	name := strings.ToUpper(ins.Name)
	if params := operands(word); params != "" {
		return name + " " + params
	}
	return name
}

// Disassemble decodes a ROM image as loaded at 0x200. A trailing odd byte
// is emitted as data.
func Disassemble(rom []byte) []Line {
	lines := make([]Line, 0, len(rom)/2+1)
	for i := 0; i < len(rom); i += 2 {
		addr := uint16(programStart + i)
		if i+1 >= len(rom) {
			lines = append(lines, Line{
				Address: addr,
				Opcode:  uint16(rom[i]),
				Text:    fmt.Sprintf("DB $%02X", rom[i]),
			})
			break
		}

		word := uint16(rom[i])<<8 | uint16(rom[i+1])
		lines = append(lines, Line{
			Address: addr,
			Opcode:  word,
			Text:    Decode(word),
		})
	}
	return lines
}

// Write prints the disassembly of rom to w, one instruction per line.
func Write(w io.Writer, rom []byte) error {
	for _, line := range Disassemble(rom) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return errors.Wrap(err, "writing disassembly")
		}
	}
	return nil
}

func operands(word uint16) string {
	x := (word & 0x0F00) >> 8
	y := (word & 0x00F0) >> 4
	n := word & 0x000F
	kk := word & 0x00FF
	nnn := word & 0x0FFF

	switch word & 0xF000 {
	case 0x0000:
		return ""
	case 0x1000, 0x2000:
		return fmt.Sprintf("$%03X", nnn)
	case 0x3000, 0x4000, 0x6000, 0x7000, 0xC000:
		return fmt.Sprintf("V%X, $%02X", x, kk)
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0x8000:
		if n == 0x6 || n == 0xE {
			return fmt.Sprintf("V%X", x)
		}
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", nnn)
	case 0xB000:
		return fmt.Sprintf("V0, $%03X", nnn)
	case 0xD000:
		return fmt.Sprintf("V%X, V%X, $%X", x, y, n)
	case 0xE000:
		return fmt.Sprintf("V%X", x)
	}

	switch kk {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x1E:
		return fmt.Sprintf("I, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return ""
}
