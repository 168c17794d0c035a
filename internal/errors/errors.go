package errors

import (
	"fmt"
)

// InvalidCriteriaError represents an error when search criteria violate a
// range or enum constraint
type InvalidCriteriaError struct {
	Field   string
	Message string
}

// Error returns the error message
func (e *InvalidCriteriaError) Error() string {
	return fmt.Sprintf("invalid search criteria for %s: %s", e.Field, e.Message)
}

// VkAPIError represents an error returned by the VK API
type VkAPIError struct {
	Method  string
	Code    int
	Message string
}

// Error returns the error message
func (e *VkAPIError) Error() string {
	return fmt.Sprintf("VK API error during %s (code %d): %s", e.Method, e.Code, e.Message)
}

// AlreadyFavoriteError represents an attempt to favorite a candidate twice
type AlreadyFavoriteError struct {
	UserID      int64
	CandidateID int64
}

// Error returns the error message
func (e *AlreadyFavoriteError) Error() string {
	return fmt.Sprintf("candidate %d is already a favorite of user %d", e.CandidateID, e.UserID)
}

// AlreadyBlockedError represents an attempt to block a candidate twice
type AlreadyBlockedError struct {
	UserID      int64
	CandidateID int64
}

// Error returns the error message
func (e *AlreadyBlockedError) Error() string {
	return fmt.Sprintf("candidate %d is already blocked by user %d", e.CandidateID, e.UserID)
}

// PersistenceError represents a failed storage operation
type PersistenceError struct {
	Op  string
	Err error
}

// Error returns the error message
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// StateError represents an error related to user conversation state
type StateError struct {
	UserID  int64
	Message string
}

// Error returns the error message
func (e *StateError) Error() string {
	return fmt.Sprintf("state error for user %d: %s", e.UserID, e.Message)
}
