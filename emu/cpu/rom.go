package cpu

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// LoadROM copies the file at filename into memory at 0x200. Nothing is
// written when the file can't be opened or is larger than MaxROMSize.
func (emu *EMU) LoadROM(filename string) error {
	rom, err := os.Open(filename)
	if err != nil {
		return emu.fail(errors.Wrapf(ErrFileNotFound, "opening '%s': %v", filename, err))
	}
	defer rom.Close()

	if err := emu.Load(rom); err != nil {
		return errors.WithMessagef(err, "loading '%s'", filename)
	}
	return nil
}

// Load reads a raw ROM image from r and copies it into memory at 0x200.
func (emu *EMU) Load(r io.Reader) error {
	if emu.loaded {
		return emu.fail(ErrRomLoaded)
	}

	// one extra byte is enough to tell an oversized image apart
	rom, err := io.ReadAll(io.LimitReader(r, MaxROMSize+1))
	if err != nil {
		return emu.fail(errors.Wrapf(ErrFileNotFound, "reading ROM: %v", err))
	}
	if len(rom) > MaxROMSize {
		return emu.fail(errors.Wrapf(ErrRomOverflow, "can't cross %d bytes", MaxROMSize))
	}

	//otherwise its loaded properly, load rom to memory
	copy(emu.memory[romStart:], rom)
	emu.loaded = true
	return nil
}
