package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks values rejected at the boundary: empty banks,
	// out-of-range choices, non-positive resistances.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState marks operations that are not allowed in the current session state.
	ErrInvalidState = errors.New("invalid state")

	// ErrAnswerLocked is returned when the current question already has an answer.
	ErrAnswerLocked = fmt.Errorf("%w: answer already recorded", ErrInvalidState)

	// ErrSessionFinished is returned for any call on a terminal session.
	ErrSessionFinished = fmt.Errorf("%w: session is finished", ErrInvalidState)
)
