package chyp

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"github.com/beanboi7/chyp8/emu/cpu"
)

type fakeDisplay struct {
	updates   int
	closeWhen int
	frames    int
	lastFrame [cpu.Width * cpu.Height]uint32
}

func (d *fakeDisplay) Closed() bool { return d.closeWhen > 0 && d.updates >= d.closeWhen }
func (d *fakeDisplay) Update()      { d.updates++ }

func (d *fakeDisplay) Draw(frame *[cpu.Width * cpu.Height]uint32) {
	d.frames++
	d.lastFrame = *frame
}

type fakeInput struct {
	keys [16]bool
}

func (i *fakeInput) Poll() [16]bool { return i.keys }

type fakeBeeper struct {
	beeps int
}

func (b *fakeBeeper) Beep() { b.beeps++ }

// fakeClock advances by step on every call to Now.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func newMachine(t *testing.T, program ...uint16) *cpu.EMU {
	t.Helper()

	var rom []byte
	for _, word := range program {
		rom = append(rom, byte(word>>8), byte(word))
	}
	emu := cpu.New(cpu.WithSeed(1))
	assert.NoError(t, emu.Load(bytes.NewReader(rom)))
	return emu
}

func TestNewRejectsInvalidDelay(t *testing.T) {
	_, err := New(log.NewTestLogger(t), cpu.New(), &fakeDisplay{}, &fakeInput{}, &fakeBeeper{}, Options{})
	assert.ErrorContains(t, err, "invalid cycle delay")
}

func TestRunStopsWhenDisplayCloses(t *testing.T) {
	emu := newMachine(t, 0x7001, 0x1200) // ADD V0, 1; JP 200
	display := &fakeDisplay{closeWhen: 10}
	clock := &fakeClock{step: 2 * time.Millisecond}

	c, err := New(log.NewTestLogger(t), emu, display, &fakeInput{}, &fakeBeeper{}, Options{
		Delay: time.Millisecond,
		Clock: clock,
		Trace: true,
	})
	assert.NoError(t, err)

	assert.NoError(t, c.Run(context.Background()))
	// one cycle per iteration, the batch size caps the two that are due
	assert.Equal(t, uint64(10), c.Cycles())
	assert.Equal(t, 10, display.frames)
	assert.Equal(t, uint8(5), emu.V[0])
}

func TestRunBatchesOverdueCycles(t *testing.T) {
	emu := newMachine(t, 0x7001, 0x1200)
	display := &fakeDisplay{closeWhen: 4}
	clock := &fakeClock{step: 10 * time.Millisecond}

	c, err := New(log.NewTestLogger(t), emu, display, &fakeInput{}, &fakeBeeper{}, Options{
		Delay:    time.Millisecond,
		MaxBatch: 3,
		Clock:    clock,
	})
	assert.NoError(t, err)

	assert.NoError(t, c.Run(context.Background()))
	assert.Equal(t, uint64(12), c.Cycles())
	assert.Equal(t, 4, display.frames)
}

func TestRunCarriesLeftoverTime(t *testing.T) {
	emu := newMachine(t, 0x7001, 0x1200)
	display := &fakeDisplay{closeWhen: 4}
	clock := &fakeClock{step: 3 * time.Millisecond}

	c, err := New(log.NewTestLogger(t), emu, display, &fakeInput{}, &fakeBeeper{}, Options{
		Delay:    2 * time.Millisecond,
		MaxBatch: 8,
		Clock:    clock,
	})
	assert.NoError(t, err)

	assert.NoError(t, c.Run(context.Background()))
	// 12ms elapse over four iterations, the 1ms remainders add up to extra cycles
	assert.Equal(t, uint64(6), c.Cycles())
	assert.Equal(t, 4, display.frames)
}

func TestRunWaitsForDelay(t *testing.T) {
	emu := newMachine(t, 0x1200)
	display := &fakeDisplay{closeWhen: 9}
	clock := &fakeClock{step: time.Millisecond}

	c, err := New(log.NewTestLogger(t), emu, display, &fakeInput{}, &fakeBeeper{}, Options{
		Delay: 3 * time.Millisecond,
		Clock: clock,
	})
	assert.NoError(t, err)

	assert.NoError(t, c.Run(context.Background()))
	assert.Equal(t, uint64(3), c.Cycles())
	assert.Equal(t, 3, display.frames)
}

func TestRunReturnsMachineError(t *testing.T) {
	emu := newMachine(t, 0x6001, 0x00EE)
	display := &fakeDisplay{}

	c, err := New(log.NewTestLogger(t), emu, display, &fakeInput{}, &fakeBeeper{}, Options{
		Delay: time.Millisecond,
		Clock: &fakeClock{step: time.Millisecond},
	})
	assert.NoError(t, err)

	err = c.Run(context.Background())
	assert.True(t, errors.Is(err, cpu.ErrStackUnderflow))
	assert.ErrorContains(t, err, "cycle 1")
	assert.Equal(t, uint64(1), c.Cycles())

	code, _ := emu.Status()
	assert.Equal(t, cpu.StackUnderflow, code)
}

func TestRunHonoursContext(t *testing.T) {
	emu := newMachine(t, 0x1200)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, err := New(log.NewTestLogger(t), emu, &fakeDisplay{}, &fakeInput{}, &fakeBeeper{}, Options{
		Delay: time.Millisecond,
	})
	assert.NoError(t, err)

	err = c.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, uint64(0), c.Cycles())
}

func TestRunFeedsKeypadAndFrames(t *testing.T) {
	emu := newMachine(t,
		0xF30A, // LD V3, K
		0xF329, // LD F, V3
		0xD005, // DRW V0, V0, 5
		0x1206, // JP 206
	)
	input := &fakeInput{}
	input.keys[0x7] = true
	display := &fakeDisplay{closeWhen: 4}

	c, err := New(log.NewTestLogger(t), emu, display, input, &fakeBeeper{}, Options{
		Delay: time.Millisecond,
		Clock: &fakeClock{step: time.Millisecond},
	})
	assert.NoError(t, err)

	assert.NoError(t, c.Run(context.Background()))
	assert.Equal(t, uint8(7), emu.V[3])
	// glyph 7 starts with 0xF0
	assert.Equal(t, cpu.PixelOn, display.lastFrame[0])
	assert.Equal(t, cpu.PixelOn, display.lastFrame[3])
	assert.Equal(t, cpu.PixelOff, display.lastFrame[4])
}

func TestRunBeepsWhenSoundStarts(t *testing.T) {
	emu := newMachine(t,
		0x6002, // 200: LD V0, 2
		0xF018, // 202: LD ST, V0
		0x1204, // 204: JP 204
	)
	beeper := &fakeBeeper{}
	display := &fakeDisplay{closeWhen: 8}

	c, err := New(log.NewTestLogger(t), emu, display, &fakeInput{}, beeper, Options{
		Delay: time.Millisecond,
		Clock: &fakeClock{step: time.Millisecond},
	})
	assert.NoError(t, err)

	assert.NoError(t, c.Run(context.Background()))
	assert.Equal(t, 1, beeper.beeps)
	assert.False(t, emu.SoundActive())
}
