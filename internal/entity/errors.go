package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Retrieval
	ErrContextNotFound = errors.New("no context found in vector index")

	// Activity validation
	ErrMissingReplyInfo = errors.New("activity is missing conversation or service url")
)

// Pipeline stages, used to tag errors with the point of failure.
type Stage string

const (
	StageRetrieving  Stage = "retrieving"
	StageGenerating  Stage = "generating"
	StageAuthorizing Stage = "authorizing"
	StageDelivering  Stage = "delivering"
)

// StageError is a terminal failure of one pipeline stage. Stage errors are
// logged and end the request; they never propagate to the inbound caller
// and never affect other in-flight requests.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func NewRetrievalError(err error) *StageError {
	return &StageError{Stage: StageRetrieving, Err: err}
}

func NewGenerationError(err error) *StageError {
	return &StageError{Stage: StageGenerating, Err: err}
}

func NewAuthProviderError(err error) *StageError {
	return &StageError{Stage: StageAuthorizing, Err: err}
}

func NewDeliveryError(err error) *StageError {
	return &StageError{Stage: StageDelivering, Err: err}
}
