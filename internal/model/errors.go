package model

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors. Callers match them with errors.Is; the typed errors below
// carry details and unwrap to these sentinels.
var (
	ErrNotFound         = errors.New("not found")
	ErrInUse            = errors.New("template in use")
	ErrProtected        = errors.New("template is protected")
	ErrValidationFailed = errors.New("required fields incomplete")
	ErrMalformedInput   = errors.New("malformed input")
	ErrInvalidTemplate  = errors.New("invalid template")
	ErrInvalidResponse  = errors.New("invalid response")
)

// NotFoundError reports a missing template or client.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InUseError reports a template deletion blocked by referencing clients.
type InUseError struct {
	TemplateID string
	Count      int
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("template %s is used by %d client(s)", e.TemplateID, e.Count)
}

func (e *InUseError) Unwrap() error { return ErrInUse }

// ValidationError lists the labels of required items that are not yet
// complete, in template order.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "fill in all required fields to complete: " + strings.Join(e.Missing, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }
