package cpu

import "math/rand"

// Option configures a machine in New.
type Option func(*EMU)

// WithStrict controls how unassigned opcodes behave. Strict machines fail
// the cycle with ErrUndefinedInstruction, lenient ones skip the opcode.
// Machines are strict by default.
func WithStrict(strict bool) Option {
	return func(emu *EMU) {
		emu.strict = strict
	}
}

// WithSeed seeds the generator used by the RND instruction.
func WithSeed(seed int64) Option {
	return func(emu *EMU) {
		emu.rng = rand.New(rand.NewSource(seed))
	}
}
