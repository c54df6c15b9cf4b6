package solve

import (
	"errors"
	"fmt"
)

// ErrEmptyQuestion is returned before any external call when the question
// is empty or whitespace.
var ErrEmptyQuestion = errors.New("question is empty")

// ErrInvalidResponse indicates the model returned content that is not JSON
// or does not conform to the solution schema.
type ErrInvalidResponse struct {
	Content string
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid model response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrEngineUnavailable indicates the external model call itself failed
// (network, quota, provider fault).
type ErrEngineUnavailable struct {
	Engine string
	Err    error
}

func (e *ErrEngineUnavailable) Error() string {
	return fmt.Sprintf("model engine %s unavailable: %v", e.Engine, e.Err)
}

func (e *ErrEngineUnavailable) Unwrap() error { return e.Err }
