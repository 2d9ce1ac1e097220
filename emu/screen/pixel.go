package screen

import (
	"image/color"
	"strings"

	"github.com/faiface/pixel/pixelgl"
	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
)

// KeyMap maps the keypad keys 0-F to keyboard buttons:
//
//	Keypad       Keyboard
//	1 2 3 C      1 2 3 4
//	4 5 6 D      Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
var KeyMap = map[uint16]pixelgl.Button{
	0x1: pixelgl.Key1, 0x2: pixelgl.Key2, 0x3: pixelgl.Key3, 0xC: pixelgl.Key4,
	0x4: pixelgl.KeyQ, 0x5: pixelgl.KeyW, 0x6: pixelgl.KeyE, 0xD: pixelgl.KeyR,
	0x7: pixelgl.KeyA, 0x8: pixelgl.KeyS, 0x9: pixelgl.KeyD, 0xE: pixelgl.KeyF,
	0xA: pixelgl.KeyZ, 0x0: pixelgl.KeyX, 0xB: pixelgl.KeyC, 0xF: pixelgl.KeyV,
}

// Color resolves a colour name such as "white" or "darkgreen".
func Color(name string) (color.RGBA, error) {
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return color.RGBA{}, errors.Errorf("unknown colour '%s'", name)
	}
	return c, nil
}
