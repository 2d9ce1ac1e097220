package cpu

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func writeROM(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func assertROMRegionEmpty(t *testing.T, emu *EMU) {
	t.Helper()
	for addr := uint16(romStart); addr < memorySize; addr++ {
		if emu.ReadMemory(addr) != 0 {
			t.Fatalf("memory at %03X is %02X, expected 0", addr, emu.ReadMemory(addr))
		}
	}
}

func TestLoadROM(t *testing.T) {
	path := writeROM(t, []byte{0x12, 0x34, 0x56})

	emu := New()
	assert.NoError(t, emu.LoadROM(path))
	assert.Equal(t, uint8(0x12), emu.ReadMemory(0x200))
	assert.Equal(t, uint8(0x56), emu.ReadMemory(0x202))
	assert.Equal(t, uint8(0x00), emu.ReadMemory(0x203))
}

func TestLoadROMMaximumSize(t *testing.T) {
	rom := bytes.Repeat([]byte{0xAB}, MaxROMSize)
	path := writeROM(t, rom)

	emu := New()
	assert.NoError(t, emu.LoadROM(path))
	assert.Equal(t, uint8(0xAB), emu.ReadMemory(0xFFE))
	assert.Equal(t, uint8(0x00), emu.ReadMemory(0xFFF))
}

func TestLoadROMOverflow(t *testing.T) {
	path := writeROM(t, bytes.Repeat([]byte{0xAB}, MaxROMSize+1))

	emu := New()
	err := emu.LoadROM(path)
	assert.True(t, errors.Is(err, ErrRomOverflow))
	assertROMRegionEmpty(t, emu)

	code, _ := emu.Status()
	assert.Equal(t, RomOverflow, code)
}

func TestLoadROMFileNotFound(t *testing.T) {
	emu := New()
	err := emu.LoadROM(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.ErrorContains(t, err, "missing.ch8")
	assertROMRegionEmpty(t, emu)

	code, desc := emu.Status()
	assert.Equal(t, FileNotFound, code)
	assert.Contains(t, desc, "couldn't load the ROM file")
}

func TestLoadOnlyOnce(t *testing.T) {
	emu := New()
	assert.NoError(t, emu.Load(bytes.NewReader([]byte{0x01})))

	err := emu.Load(bytes.NewReader([]byte{0x02}))
	assert.True(t, errors.Is(err, ErrRomLoaded))
	assert.Equal(t, uint8(0x01), emu.ReadMemory(0x200))
}

func TestNewEMU(t *testing.T) {
	path := writeROM(t, []byte{0x60, 0x07})

	emu, err := NewEMU(path, WithStrict(false))
	assert.NoError(t, err)
	assert.NoError(t, emu.Cycle())
	assert.Equal(t, uint8(7), emu.V[0])

	emu, err = NewEMU(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.Error(t, err)
	assert.True(t, emu == nil)
}
