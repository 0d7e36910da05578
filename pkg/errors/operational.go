// Package errors holds the error types shared by the harness packages.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// OperationalError is returned when the canvas controller rejects a
// dispatched panel operation. It is never retried.
type OperationalError struct {
	Operation string    // panel operation, e.g. setNodeLabel
	Target    string    // node, node/port or link id; empty for canvas-wide ops
	At        time.Time // when the controller rejected the call
	Cause     error
}

// NewOperationalError wraps cause. A nil cause yields nil.
//
//	if err := ctrl.SetNodeLabel(id, label); err != nil {
//	    return NewOperationalError("setNodeLabel", id, err)
//	}
func NewOperationalError(operation, target string, cause error) *OperationalError {
	if cause == nil {
		return nil
	}
	return &OperationalError{
		Operation: operation,
		Target:    target,
		At:        time.Now(),
		Cause:     cause,
	}
}

// Error formats as "[timestamp] operation: target=id: cause"
func (e *OperationalError) Error() string {
	if e == nil {
		return "<nil OperationalError>"
	}
	return fmt.Sprintf("[%s] %s", e.At.Format(time.RFC3339), e.Message())
}

// Message is Error without the timestamp
func (e *OperationalError) Message() string {
	if e.Target != "" {
		return fmt.Sprintf("%s: target=%s: %v", e.Operation, e.Target, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *OperationalError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Describe returns a one-line message for err suited to a status line.
// Operational errors drop their timestamp.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var opErr *OperationalError
	if !errors.As(err, &opErr) || opErr == nil {
		return err.Error()
	}
	// keep any context the caller wrapped around it
	prefix, ok := strings.CutSuffix(err.Error(), opErr.Error())
	if !ok {
		return err.Error()
	}
	return prefix + opErr.Message()
}
