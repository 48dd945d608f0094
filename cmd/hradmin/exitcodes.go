package main

import (
	"errors"

	"github.com/iota-uz/hradmin/pkg/gateway"
	"github.com/iota-uz/hradmin/pkg/serrors"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitRemote     = 4
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

// remoteError classifies a gateway failure: server-side validation maps to exitValidation,
// everything else is a remote failure.
func remoteError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs serrors.ValidationErrors
	if errors.As(err, &fieldErrs) || errors.Is(err, gateway.ErrValidation) {
		return withCode(exitValidation, err)
	}
	return withCode(exitRemote, err)
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}
