package cpu

import "errors"

// Interpreter faults. All of them are terminal for the current run: CHIP-8
// defines no recovery semantics, so Step never skips or retries a faulting
// instruction. Callers match these with errors.Is.
var (
	ErrOutOfBoundsFetch = errors.New("memory access out of bounds")
	ErrUnknownOpcode    = errors.New("unknown opcode")
	ErrStackOverflow    = errors.New("stack overflow")
	ErrStackUnderflow   = errors.New("stack underflow")
	ErrROMTooLarge      = errors.New("rom image too large")
)
