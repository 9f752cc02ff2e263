package source

import (
	"errors"
	"fmt"
)

var (
	// ErrEndBeforeStart matches any *EndBeforeStartError.
	ErrEndBeforeStart = errors.New("end before start")
	// ErrNegativeInput matches any *NegativeInputError.
	ErrNegativeInput = errors.New("negative span input")
)

// EndBeforeStartError is returned when a span is built from bounds with End < Start.
type EndBeforeStartError struct {
	Start uint32
	End   uint32
}

func (e *EndBeforeStartError) Error() string {
	return fmt.Sprintf("the supplied end (%d) is smaller than the start (%d)", e.End, e.Start)
}

func (e *EndBeforeStartError) Is(target error) bool {
	return target == ErrEndBeforeStart
}

// NegativeInputError is returned when a signed start or length is below zero.
// Field is "start" or "length".
type NegativeInputError struct {
	Field string
	Value int
}

func (e *NegativeInputError) Error() string {
	return fmt.Sprintf("%s < 0 (got %d)", e.Field, e.Value)
}

func (e *NegativeInputError) Is(target error) bool {
	return target == ErrNegativeInput
}
