package model

import "errors"

// Result is the uniform outcome of every backend call. Callers branch on
// Success; expected failures never surface as panics or returned errors.
type Result[T any] struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	Data          T        `json:"data,omitempty"`
	Errors        []any    `json:"errors,omitempty"`
	MissingFields []string `json:"missingFields,omitempty"`
}

func OK[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Message: message, Data: data}
}

func Fail[T any](message string) Result[T] {
	return Result[T]{Success: false, Message: message}
}

// Err returns nil for a successful result and the message as an error otherwise.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	return errors.New(r.Message)
}

// ErrorBody is the failure payload the backend sends. Some endpoints use
// "message", others "error".
type ErrorBody struct {
	Message       string   `json:"message,omitempty"`
	Error         string   `json:"error,omitempty"`
	Errors        []any    `json:"errors,omitempty"`
	MissingFields []string `json:"missingFields,omitempty"`
}

// Export is a binary document returned by an export endpoint.
type Export struct {
	ContentType string
	Filename    string
	Body        []byte
}
