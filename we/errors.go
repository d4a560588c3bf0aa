package we

import (
	"fmt"
)

func UnexpectedCall(call Call) error {
	return fmt.Errorf("unexpected call %T", call)
}

func MethodNotFound(method MethodName) MethodNotFoundError {
	return MethodNotFoundError{Method: method}
}

type MethodNotFoundError struct {
	Method MethodName
}

func (e MethodNotFoundError) Error() string {
	return fmt.Sprintf("unknown method: %s", e.Method)
}

func InvalidArguments(method MethodName, cause error) *InvalidArgumentsError {
	return &InvalidArgumentsError{Method: method, Cause: cause}
}

type InvalidArgumentsError struct {
	Method MethodName
	Cause  error
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Method, e.Cause)
}

func (e *InvalidArgumentsError) Unwrap() error {
	return e.Cause
}

func CallAborted(method MethodName, cause any) *CallAbortedError {
	return &CallAbortedError{Method: method, Cause: cause}
}

// CallAbortedError reports a call that panicked inside its handler. Nothing
// the call did is persisted.
type CallAbortedError struct {
	Method MethodName
	Cause  any
}

func (e *CallAbortedError) Error() string {
	return fmt.Sprintf("call %s aborted: %v", e.Method, e.Cause)
}

func (e *CallAbortedError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}

	return nil
}
