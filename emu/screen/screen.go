package screen

import (
	"image/color"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"github.com/pkg/errors"

	"github.com/beanboi7/chyp8/emu/cpu"
)

// Config describes the emulator window.
type Config struct {
	Title      string
	Scale      int
	Foreground color.RGBA
	Background color.RGBA
}

// Window renders the framebuffer and reads the keypad from the keyboard.
// It has to be created and used on the main thread, inside pixelgl.Run.
type Window struct {
	*pixelgl.Window
	KeyMap map[uint16]pixelgl.Button

	imd   *imdraw.IMDraw
	scale float64
	fg    color.RGBA
	bg    color.RGBA
}

// NewWindow opens a window of 64*scale by 32*scale pixels.
func NewWindow(cfg Config) (*Window, error) {
	if cfg.Scale <= 0 {
		return nil, errors.Errorf("invalid scale %d", cfg.Scale)
	}

	win, err := pixelgl.NewWindow(pixelgl.WindowConfig{
		Title:  cfg.Title,
		Bounds: pixel.R(0, 0, float64(cpu.Width*cfg.Scale), float64(cpu.Height*cfg.Scale)),
		VSync:  true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating window")
	}

	return &Window{
		Window: win,
		KeyMap: KeyMap,
		imd:    imdraw.New(nil),
		scale:  float64(cfg.Scale),
		fg:     cfg.Foreground,
		bg:     cfg.Background,
	}, nil
}

// Poll returns which keypad keys are held down.
func (w *Window) Poll() [16]bool {
	var keys [16]bool
	for key, button := range w.KeyMap {
		keys[key&0xF] = w.Pressed(button)
	}
	return keys
}

// Draw renders a framebuffer. Any nonzero cell is lit. Row 0 is the top of
// the window, pixel's origin is the bottom left.
func (w *Window) Draw(frame *[cpu.Width * cpu.Height]uint32) {
	w.Clear(w.bg)
	w.imd.Clear()
	w.imd.Color = w.fg

	for y := 0; y < cpu.Height; y++ {
		for x := 0; x < cpu.Width; x++ {
			if frame[y*cpu.Width+x] == cpu.PixelOff {
				continue
			}
			top := float64(cpu.Height - y)
			w.imd.Push(
				pixel.V(float64(x)*w.scale, (top-1)*w.scale),
				pixel.V(float64(x+1)*w.scale, top*w.scale),
			)
			w.imd.Rectangle(0)
		}
	}

	w.imd.Draw(w.Window)
}
