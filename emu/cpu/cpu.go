package cpu

import (
	"math/rand"
	"time"
)

const (
	memorySize  = 4096
	addressMask = 0x0FFF

	romStart  = 0x200
	fontStart = 0x050
	fontSize  = 80
	glyphSize = 5

	// MaxROMSize is the largest image LoadROM accepts, 0xFFF - 0x200 bytes.
	MaxROMSize = 0xFFF - romStart

	// Width and Height of the display in pixels.
	Width  = 64
	Height = 32

	stackDepth = 16
	flag       = 0xF

	// PixelOn is the value of a lit display cell, PixelOff an unlit one.
	PixelOn  uint32 = 0xFFFFFFFF
	PixelOff uint32 = 0
)

// FontSet holds the 4x5 glyphs for the hex digits 0-F, five bytes each.
var FontSet = [fontSize]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// EMU is a single CHIP-8 machine. It is not safe for concurrent use, the
// driver owns it and calls Cycle from one goroutine.
type EMU struct {
	opcode     uint16
	memory     [memorySize]uint8
	V          [16]uint8
	I          uint16 //address register
	pc         uint16
	display    [Width * Height]uint32
	delayTimer uint8 //counts down once per cycle
	soundTimer uint8 //same as above
	stack      [stackDepth]uint16
	sp         uint8
	keyState   [16]bool //tells whether key is pressed or not

	loaded bool
	strict bool
	rng    *rand.Rand
	status error
}

// State is a copy of the register file, used for debugging output.
type State struct {
	Opcode     uint16
	V          [16]uint8
	I          uint16
	PC         uint16
	SP         uint8
	Stack      [stackDepth]uint16
	DelayTimer uint8
	SoundTimer uint8
}

// New returns a machine with the font installed and the program counter at
// the start of the ROM region. It has no ROM loaded yet.
func New(opts ...Option) *EMU {
	emu := &EMU{
		pc:     romStart,
		strict: true,
	}
	for _, opt := range opts {
		opt(emu)
	}
	if emu.rng == nil {
		emu.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	emu.loadFont()
	return emu
}

// NewEMU creates a machine and loads the ROM at romPath into it.
func NewEMU(romPath string, opts ...Option) (*EMU, error) {
	emu := New(opts...)
	if err := emu.LoadROM(romPath); err != nil {
		return nil, err
	}
	return emu, nil
}

func (emu *EMU) loadFont() {
	copy(emu.memory[fontStart:fontStart+fontSize], FontSet[:])
}

// Cycle runs one fetch, decode and execute step and then ticks both timers.
// A failing instruction leaves the machine as it was apart from the
// advanced program counter, and the timers are not ticked.
func (emu *EMU) Cycle() error {
	emu.opcode = emu.fetch(emu.pc)
	emu.pc += 2

	if err := emu.execute(opcode(emu.opcode)); err != nil {
		return emu.fail(err)
	}

	emu.delayTimerHandler()
	emu.soundTimerHandler()
	return nil
}

func (emu *EMU) fetch(addr uint16) uint16 {
	hi := emu.memory[addr&addressMask]
	lo := emu.memory[(addr+1)&addressMask]
	return uint16(hi)<<8 | uint16(lo)
}

func (emu *EMU) delayTimerHandler() {
	if emu.delayTimer > 0 {
		emu.delayTimer--
	}
}

func (emu *EMU) soundTimerHandler() {
	if emu.soundTimer > 0 {
		emu.soundTimer--
	}
}

// PeekOpcode returns the instruction the next Cycle will execute.
func (emu *EMU) PeekOpcode() uint16 {
	return emu.fetch(emu.pc)
}

// PC returns the program counter.
func (emu *EMU) PC() uint16 {
	return emu.pc
}

// Display returns the framebuffer. Cells are PixelOn or PixelOff, row-major
// with Width cells per row.
func (emu *EMU) Display() *[Width * Height]uint32 {
	return &emu.display
}

// Pitch is the byte length of one framebuffer row for a given pixel size.
func Pitch(pixelSize int) int {
	return Width * pixelSize
}

// SetKeys replaces the whole keypad state.
func (emu *EMU) SetKeys(keys [16]bool) {
	emu.keyState = keys
}

// SetKey marks a single keypad key as pressed or released.
func (emu *EMU) SetKey(key uint8, pressed bool) {
	emu.keyState[key&0xF] = pressed
}

// SoundActive reports whether the sound timer is running.
func (emu *EMU) SoundActive() bool {
	return emu.soundTimer > 0
}

// ReadMemory returns the byte at addr, wrapped into the 4KB image.
func (emu *EMU) ReadMemory(addr uint16) uint8 {
	return emu.memory[addr&addressMask]
}

// State returns a snapshot of the registers.
func (emu *EMU) State() State {
	return State{
		Opcode:     emu.opcode,
		V:          emu.V,
		I:          emu.I,
		PC:         emu.pc,
		SP:         emu.sp,
		Stack:      emu.stack,
		DelayTimer: emu.delayTimer,
		SoundTimer: emu.soundTimer,
	}
}
