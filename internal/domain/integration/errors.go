package integration

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentialMissing indicates no usable credentials exist for a platform
	ErrCredentialMissing = errors.New("integration: platform credentials missing")
	// ErrCredentialNotFound indicates no credential set exists for the tenant
	ErrCredentialNotFound = errors.New("integration: credential set not found")
	// ErrOrderMapping indicates a platform order could not be mapped to a sale record
	ErrOrderMapping = errors.New("integration: order mapping failed")
	// ErrUnknownPlatform indicates a platform code with no registered client
	ErrUnknownPlatform = errors.New("integration: unknown platform")
	// ErrInvalidTenantID indicates a missing or malformed tenant identifier
	ErrInvalidTenantID = errors.New("integration: invalid tenant ID")
)

// RemoteError represents a failure reported by a marketplace API, either as a
// non-2xx HTTP status or as an error envelope inside a 200 response.
type RemoteError struct {
	Platform PlatformCode
	Message  string
	Cause    error
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("integration: %s request failed: %s: %v", e.Platform, e.Message, e.Cause)
	}
	return fmt.Sprintf("integration: %s request failed: %s", e.Platform, e.Message)
}

// Unwrap exposes the underlying transport error, if any
func (e *RemoteError) Unwrap() error {
	return e.Cause
}

// NewRemoteError creates a RemoteError for the given platform
func NewRemoteError(platform PlatformCode, message string, cause error) *RemoteError {
	return &RemoteError{Platform: platform, Message: message, Cause: cause}
}
