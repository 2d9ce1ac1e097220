// Package chyp drives a machine: it paces cycles by wall-clock time, feeds
// the keypad, pushes frames to the display and triggers the beeper.
package chyp

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/insides/chyp8"
)

// Display shows frames. Update is called once per loop iteration and is
// where a window processes its events.
type Display interface {
	Closed() bool
	Draw(frame *[cpu.Width * cpu.Height]uint32)
	Update()
}

// Input returns the current keypad state.
type Input interface {
	Poll() [16]bool
}

// Beeper is started each time the sound timer switches on.
type Beeper interface {
	Beep()
}

// Clock is the time source used for pacing.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Options configures a Chyp8 driver.
type Options struct {
	// Delay is the minimum wall-clock time between two cycles.
	Delay time.Duration
	// MaxBatch caps how many overdue cycles run in one loop iteration.
	MaxBatch int
	// Trace logs every executed instruction at debug level.
	Trace bool
	Clock Clock
}

// Chyp8 runs a loaded machine against its collaborators.
type Chyp8 struct {
	emu     *cpu.EMU
	display Display
	input   Input
	beeper  Beeper
	logger  *log.Logger
	opts    Options

	last    time.Time
	beeping bool
	cycles  uint64
}

// New returns a driver for emu. The machine must already hold a ROM.
func New(logger *log.Logger, emu *cpu.EMU, display Display, input Input, beeper Beeper, opts Options) (*Chyp8, error) {
	if opts.Delay <= 0 {
		return nil, errors.Errorf("invalid cycle delay %s", opts.Delay)
	}
	if opts.MaxBatch <= 0 {
		opts.MaxBatch = 1
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}

	return &Chyp8{
		emu:     emu,
		display: display,
		input:   input,
		beeper:  beeper,
		logger:  logger,
		opts:    opts,
	}, nil
}

// Run loops until the context is done, the display is closed or the machine
// fails. A closed display ends the run without error.
func (c *Chyp8) Run(ctx context.Context) error {
	c.last = c.opts.Clock.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if c.display.Closed() {
			c.logger.Debug("Display closed", log.String("cycles", strconv.FormatUint(c.cycles, 10)))
			return nil
		}

		if err := c.tick(); err != nil {
			return err
		}
		c.display.Update()
	}
}

// tick runs the cycles that are due since the last one and redraws if any
// ran.
func (c *Chyp8) tick() error {
	c.emu.SetKeys(c.input.Poll())

	now := c.opts.Clock.Now()
	due := int(now.Sub(c.last) / c.opts.Delay)
	if due == 0 {
		return nil
	}
	if due > c.opts.MaxBatch {
		due = c.opts.MaxBatch
		c.last = now
	} else {
		// keep the part of the elapsed time that did not fill a whole delay
		c.last = c.last.Add(time.Duration(due) * c.opts.Delay)
	}

	for i := 0; i < due; i++ {
		if err := c.step(); err != nil {
			return err
		}
	}

	c.display.Draw(c.emu.Display())
	return nil
}

func (c *Chyp8) step() error {
	pc := c.emu.PC()
	if c.opts.Trace {
		c.logger.Debug("Executing",
			log.Hex("pc", pc),
			log.String("instruction", chyp8.Decode(c.emu.PeekOpcode())))
	}

	if err := c.emu.Cycle(); err != nil {
		return errors.Wrapf(err, "cycle %d", c.cycles)
	}
	c.cycles++

	active := c.emu.SoundActive()
	if active && !c.beeping {
		c.beeper.Beep()
	}
	c.beeping = active
	return nil
}

// Cycles returns how many cycles completed.
func (c *Chyp8) Cycles() uint64 {
	return c.cycles
}
