// Package errs holds the error taxonomy shared by connectors, the
// credential store and the sync orchestrator. Callers match with
// errors.As; none of these are retried automatically.
package errs

import (
	"errors"
	"fmt"
)

// ConfigurationError means required credentials or config were absent or
// structurally invalid. It is raised before any network call is attempted.
type ConfigurationError struct {
	Platform string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured: %s", e.Platform, e.Reason)
}

// UpstreamError is a non-success response from an external platform.
type UpstreamError struct {
	Platform string
	Status   int
	Message  string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API request failed: %d - %s", e.Platform, e.Status, e.Message)
}

// WriteError is a batch upsert failure. Batch is the zero-based index of
// the first failing batch; batches committed before it stay committed.
type WriteError struct {
	Batch int
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("upsert failed at batch %d: %v", e.Batch, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ValidationError means a credential payload failed structural validation.
type ValidationError struct {
	Platform string
	Field    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s credentials: missing required field %q", e.Platform, e.Field)
}

// ReconciliationError is an unexpected shape in merge input. The merge
// skips the offending record rather than failing; this type exists for
// callers that want to log the skip.
type ReconciliationError struct {
	Reason string
}

func (e *ReconciliationError) Error() string {
	return "reconciliation: " + e.Reason
}

func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
