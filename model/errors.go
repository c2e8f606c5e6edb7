package model

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad wraps script read, compile and runtime failures.
	ErrLoad = errors.New("model: script load failed")

	// ErrInvalidModel reports a script that ran to completion but did not
	// return a map built through the injected constructors.
	ErrInvalidModel = errors.New("model: script did not return a map")
)

// ScriptError describes a model script failure along with the script it
// came from.
type ScriptError struct {
	Script string
	Base   error
	Err    error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", e.Script, e.Err)
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *ScriptError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether the target matches either the sentinel or the wrapped
// error.
func (e *ScriptError) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if errors.Is(e.Base, target) {
		return true
	}
	return errors.Is(e.Err, target)
}

func scriptError(script string, base, err error) error {
	if err == nil {
		return nil
	}
	return &ScriptError{
		Script: script,
		Base:   base,
		Err:    err,
	}
}
