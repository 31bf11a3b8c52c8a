package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mrops-br/financial-products/internal/app/dto"
)

// ErrNotFound is matched (errors.Is) by a StatusError carrying a 404.
var ErrNotFound = errors.New("product not found")

// TransportError covers network failures, timeouts and bodies that could not
// be decoded. The request may or may not have reached the server.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-2xx answer that does not carry field violations.
type StatusError struct {
	Op      string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: http %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: http %d", e.Op, e.Status)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// ValidationError is a structured rejection: one Violation per property.
type ValidationError struct {
	Op         string
	Status     int
	Message    string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: http %d: %d validation error(s)", e.Op, e.Status, len(e.Violations))
}

// Violation, Constraint and Constraints mirror the API's error body.
type (
	Violation   = dto.Violation
	Constraint  = dto.Constraint
	Constraints = dto.Constraints
)

// errorBody is the 4xx body shape of the products API. Message is decoded
// separately because some servers send it as a list.
type errorBody struct {
	Errors []Violation `json:"errors"`
}

type messageBody struct {
	Message string `json:"message"`
}
