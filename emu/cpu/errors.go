package cpu

import (
	"github.com/pkg/errors"
)

// ErrorCode classifies machine failures for drivers that poll Status.
type ErrorCode uint8

const (
	None ErrorCode = iota
	FileNotFound
	UndefinedInstruction
	RomOverflow
	StackOverflow
	StackUnderflow
	RomLoaded
	Unknown
)

var (
	ErrFileNotFound         = errors.New("couldn't load the ROM file")
	ErrUndefinedInstruction = errors.New("undefined instruction")
	ErrRomOverflow          = errors.New("size of ROM is larger than the memory")
	ErrStackOverflow        = errors.New("call stack overflow")
	ErrStackUnderflow       = errors.New("return with empty call stack")
	ErrRomLoaded            = errors.New("a ROM is already loaded")
)

var codeErrors = []struct {
	code ErrorCode
	err  error
}{
	{FileNotFound, ErrFileNotFound},
	{UndefinedInstruction, ErrUndefinedInstruction},
	{RomOverflow, ErrRomOverflow},
	{StackOverflow, ErrStackOverflow},
	{StackUnderflow, ErrStackUnderflow},
	{RomLoaded, ErrRomLoaded},
}

func (c ErrorCode) String() string {
	switch c {
	case None:
		return "all okay"
	case FileNotFound:
		return ErrFileNotFound.Error()
	case UndefinedInstruction:
		return ErrUndefinedInstruction.Error()
	case RomOverflow:
		return ErrRomOverflow.Error()
	case StackOverflow:
		return ErrStackOverflow.Error()
	case StackUnderflow:
		return ErrStackUnderflow.Error()
	case RomLoaded:
		return ErrRomLoaded.Error()
	default:
		return "unknown error"
	}
}

// CodeOf maps an error returned by the machine to its code.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return None
	}
	for _, ce := range codeErrors {
		if errors.Is(err, ce.err) {
			return ce.code
		}
	}
	return Unknown
}

// Status returns the code of the first failure recorded on the machine and
// a description of it. It stays set once a load or cycle has failed.
func (emu *EMU) Status() (ErrorCode, string) {
	if emu.status == nil {
		return None, None.String()
	}
	return CodeOf(emu.status), emu.status.Error()
}

// Err returns the first recorded failure, or nil.
func (emu *EMU) Err() error {
	return emu.status
}

func (emu *EMU) fail(err error) error {
	if emu.status == nil {
		emu.status = err
	}
	return err
}
