package cmd

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/beanboi7/chyp8/chyp"
	"github.com/beanboi7/chyp8/emu/audio"
	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/screen"
)

var startCmd = &cobra.Command{
	Use:   "start `path/ROM`",
	Short: "load and start the Emulator",
	Args:  cobra.ExactArgs(1),
	RunE:  Start,
}

// startConfig holds the settings of the start command after flags, config
// file and environment have been merged.
type startConfig struct {
	refresh  int
	batch    int
	scale    int
	strict   bool
	trace    bool
	beep     string
	fg       string
	bg       string
	romTitle string
}

func init() {
	flags := startCmd.Flags()
	flags.IntP("refresh", "r", 500, "cycles per second")
	flags.Int("batch", 8, "maximum overdue cycles run per frame")
	flags.IntP("scale", "s", 10, "window pixels per CHIP-8 pixel")
	flags.Bool("strict", true, "stop on undefined instructions instead of skipping them")
	flags.Bool("trace", false, "log every executed instruction, needs --debug")
	flags.String("beep", "", "mp3 file played while the sound timer runs")
	flags.String("fg", "white", "colour of lit pixels")
	flags.String("bg", "black", "background colour")

	for _, name := range []string{"refresh", "batch", "scale", "strict", "trace", "beep", "fg", "bg"} {
		cobra.CheckErr(viper.BindPFlag(name, flags.Lookup(name)))
	}
}

func loadStartConfig(romPath string) (startConfig, error) {
	cfg := startConfig{
		refresh:  viper.GetInt("refresh"),
		batch:    viper.GetInt("batch"),
		scale:    viper.GetInt("scale"),
		strict:   viper.GetBool("strict"),
		trace:    viper.GetBool("trace"),
		beep:     viper.GetString("beep"),
		fg:       viper.GetString("fg"),
		bg:       viper.GetString("bg"),
		romTitle: "Chyp8 - " + romPath,
	}
	if cfg.refresh <= 0 {
		return cfg, errors.Errorf("invalid refresh rate %d", cfg.refresh)
	}
	return cfg, nil
}

// delay is the wall-clock time between two cycles.
func (c startConfig) delay() time.Duration {
	return time.Second / time.Duration(c.refresh)
}

// chyp8 start 'path/to/ROM' -r 500
func Start(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	romPath := args[0]

	cfg, err := loadStartConfig(romPath)
	if err != nil {
		return err
	}

	emu, err := cpu.NewEMU(romPath, cpu.WithStrict(cfg.strict))
	if err != nil {
		return errors.Wrap(err, "starting the emulator")
	}
	logger.Info("ROM loaded", log.String("file", romPath), log.String("strict", strconv.FormatBool(cfg.strict)))

	fg, err := screen.Color(cfg.fg)
	if err != nil {
		return err
	}
	bg, err := screen.Color(cfg.bg)
	if err != nil {
		return err
	}

	win, err := screen.NewWindow(screen.Config{
		Title:      cfg.romTitle,
		Scale:      cfg.scale,
		Foreground: fg,
		Background: bg,
	})
	if err != nil {
		return err
	}

	beeper := audio.NewBeeper(logger, cfg.beep)

	driver, err := chyp.New(logger, emu, win, win, beeper, chyp.Options{
		Delay:    cfg.delay(),
		MaxBatch: cfg.batch,
		Trace:    cfg.trace,
	})
	if err != nil {
		return err
	}

	err = driver.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		logger.Info("Emulation cancelled")
		return nil
	}
	if err != nil {
		code, desc := emu.Status()
		logger.Error("Emulation stopped", log.String("status", code.String()), log.String("error", desc))
		return err
	}
	return nil
}
