package internal

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrStackOverflow is returned by CALL when all 16 stack slots are in use.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned by RET when the stack is empty.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrProgramTooLarge is returned when a program does not fit above 0x200.
	ErrProgramTooLarge = errors.New("program size exceeds the maximum size")
)

// UnknownOpcodeError reports an opcode that decodes to no instruction. The PC
// has already been advanced past it, so execution may continue.
type UnknownOpcodeError struct {
	Opcode uint16
	PC     uint16
}

// Error implements the interface for error types.
func (e UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0x%04X at 0x%03X", e.Opcode, e.PC)
}

func errProgramSize(n int) error {
	return errors.Wrapf(ErrProgramTooLarge, "%d bytes, limit is %d", n, MaxProgramSize)
}
