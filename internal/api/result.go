package api

import "fmt"

// CallError is the normalized failure of a gateway call.
//
// Transport failures (unreachable host, timeout, malformed JSON on a
// declared-JSON body, open circuit) carry Transport=true and Status 0.
// Application failures carry the server's message, the HTTP status, and
// optionally per-field validation details keyed by field name.
type CallError struct {
	Message   string
	Details   map[string]string
	Status    int
	Transport bool
}

func (e *CallError) Error() string {
	return e.Message
}

// Result is the outcome of a completed gateway call. Exactly one arm is set:
// Err is nil on success, and Data is the zero value on failure.
type Result[T any] struct {
	Data T
	Err  *CallError
}

// Ok reports whether the call succeeded.
func (r Result[T]) Ok() bool {
	return r.Err == nil
}

func success[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

func failure[T any](err *CallError) Result[T] {
	return Result[T]{Err: err}
}

func transportFailure[T any](format string, args ...any) Result[T] {
	return failure[T](&CallError{
		Message:   fmt.Sprintf(format, args...),
		Transport: true,
	})
}
