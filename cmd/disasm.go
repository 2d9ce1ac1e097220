package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/insides/chyp8"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm `path/ROM`",
	Short: "print the instructions of a ROM",
	Args:  cobra.ExactArgs(1),
	RunE:  Disasm,
}

// chyp8 disasm 'path/to/ROM'
func Disasm(cmd *cobra.Command, args []string) error {
	rom, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrapf(cpu.ErrFileNotFound, "opening '%s': %v", args[0], err)
	}
	if len(rom) > cpu.MaxROMSize {
		return errors.Wrapf(cpu.ErrRomOverflow, "can't cross %d bytes", cpu.MaxROMSize)
	}

	return chyp8.Write(cmd.OutOrStdout(), rom)
}
