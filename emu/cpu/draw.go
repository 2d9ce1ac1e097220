package cpu

// Dxyn - DRW Vx, Vy, nibble
//
// XORs an 8 pixel wide, n rows high sprite read from memory at I onto the
// display at (Vx mod 64, Vy mod 32). Every cell wraps around to the opposite
// edge on its own, so a sprite crossing the right border continues on the
// left of the same row. VF is set when a lit cell is turned off.
func (emu *EMU) draw(op opcode) error {
	xPos := uint16(emu.V[op.x()]) % Width
	yPos := uint16(emu.V[op.y()]) % Height
	height := uint16(op.n())

	emu.V[flag] = 0

	for row := uint16(0); row < height; row++ {
		spriteByte := emu.ReadMemory(emu.I + row)
		y := (yPos + row) % Height

		for col := uint16(0); col < 8; col++ {
			if spriteByte&(0x80>>col) == 0 {
				continue
			}
			x := (xPos + col) % Width
			pixel := &emu.display[y*Width+x]
			if *pixel == PixelOn {
				emu.V[flag] = 1
			}
			*pixel ^= PixelOn
		}
	}
	return nil
}
