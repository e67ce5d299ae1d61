// File: lifecycle/errors.go
// Error taxonomy for the lifecycle coordinator: a handful of sentinel
// errors for expected conditions, a *Error{Code, Message, Context}
// type for anything needing caller-supplied context, and a fatal/die
// helper for precondition violations and environment failures, which
// abort the process rather than return.
// Author: trema-go
// License: Apache-2.0
package lifecycle

import (
	"fmt"
	"os"
)

var (
	osStderr = os.Stderr
	osExit   = os.Exit
)

// Sentinel errors for expected, recoverable lifecycle conditions.
var (
	ErrNotInitialized = fmt.Errorf("lifecycle: not initialized")
	ErrAlreadyStarted = fmt.Errorf("lifecycle: already started")
	ErrAlreadyRunning = fmt.Errorf("lifecycle: Init called while already initialized")
)

// Code classifies a structured Error.
type Code int

const (
	CodeUnknown Code = iota
	CodeInvalidArgument
	CodeEnvironmentFailure
	CodeProcessControl
)

// Error is a structured error carrying a code and arbitrary context,
// used where a plain sentinel doesn't give the caller enough to act
// on (e.g. which directory failed to resolve).
type Error struct {
	Code    Code
	Message string
	Context map[string]any
}

func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// NewError constructs a structured Error with an empty context map.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Context: make(map[string]any)}
}

// WithContext attaches a key/value pair and returns the same Error for
// chaining.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// fatal aborts the process on precondition violations and environment
// failures; neither is recoverable. dieFunc is a package variable so
// tests can substitute a panic for the production os.Exit(1).
var dieFunc = func(format string, args ...any) {
	fmt.Fprintf(osStderr, "trema: fatal: "+format+"\n", args...)
	osExit(1)
}

func fatal(format string, args ...any) {
	dieFunc(format, args...)
}
