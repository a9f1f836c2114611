// Copyright 2020 Aleksandr Demakin. All rights reserved.

package binfloat

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrInvalidOperand is returned, if an operand of Add is not a well-formed (e, m) pair.
	ErrInvalidOperand = errors.New("invalid operand")
	// ErrOutOfRange is returned, if an argument violates a precondition of
	// MSNZB, Normalize or RoundNearestAndCheck.
	ErrOutOfRange = errors.New("value out of range")
	// ErrInvalidFormat is returned for unsupported (k, p) parameters.
	ErrInvalidFormat = errors.New("invalid format")
)

// OperandError describes a malformed operand.
type OperandError struct {
	// Index is 1 or 2 for the operands of Add, and 0 if unknown.
	Index  int
	E      uint64
	M      *big.Int
	Reason string
}

func (oe *OperandError) Error() string {
	var prefix string
	if oe.Index > 0 {
		prefix = fmt.Sprintf("operand %d: ", oe.Index)
	}
	return fmt.Sprintf("%s%v (%d, %v): %s", prefix, ErrInvalidOperand, oe.E, oe.M, oe.Reason)
}

// Unwrap returns ErrInvalidOperand, so that errors.Is works for operand errors.
func (oe *OperandError) Unwrap() error {
	return ErrInvalidOperand
}

func rangeError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrOutOfRange, fmt.Sprintf(format, args...))
}
