// Package api defines the uniform response envelope every route answers
// with, and wires Huma's error rendering into it.
package api

// Envelope is the wrapper around every API response body. Exactly one of
// Data and Error is set: Data on success, Error (optionally with a
// machine-readable Code) on failure.
type Envelope[T any] struct {
	Success bool   `doc:"Whether the request succeeded"         json:"success"`
	Data    *T     `doc:"Payload, present only on success"      json:"data,omitempty"`
	Error   string `doc:"Error message, present only on failure" json:"error,omitempty"`
	Code    string `doc:"Machine-readable error code"            json:"code,omitempty"`
}

// OK wraps data in a success envelope.
func OK[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: &data}
}

// Err builds a failure envelope. code may be empty.
func Err(message, code string) Envelope[struct{}] {
	return Envelope[struct{}]{Success: false, Error: message, Code: code}
}
