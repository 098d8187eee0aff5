package pipeline

import (
	"errors"
	"fmt"

	"github.com/fmueller/voxlate/internal/speech"
)

// Stage failures fall into exactly one of these kinds.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = speech.ErrUnauthorized
	ErrRemoteUnavailable = speech.ErrRemoteUnavailable
	ErrIOFailure         = errors.New("i/o failure")
	ErrInvalidInput      = errors.New("invalid input")
)

var kinds = []error{ErrNotFound, ErrUnauthorized, ErrRemoteUnavailable, ErrIOFailure, ErrInvalidInput}

type StageError struct {
	Stage string
	Path  string
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Stage, e.Path, e.Kind, e.Err)
}

func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf reports which failure kind err carries, or nil for errors that did
// not come out of a stage.
func KindOf(err error) error {
	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(stageErr.Kind, kind) {
			return kind
		}
	}
	return nil
}

func remoteKind(err error) error {
	if errors.Is(err, speech.ErrUnauthorized) {
		return ErrUnauthorized
	}
	return ErrRemoteUnavailable
}
