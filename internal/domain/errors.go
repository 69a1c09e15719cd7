package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ValidationError represents bad or missing caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e ValidationError) Is(target error) bool {
	_, ok := target.(ValidationError)
	if ok {
		return true
	}
	_, ok = target.(*ValidationError)
	return ok
}

// ErrValidation is the sentinel error for input validation failures.
var ErrValidation = ValidationError{}

// ConflictError represents a uniqueness violation.
type ConflictError struct {
	Resource string
}

func (e ConflictError) Error() string {
	if e.Resource == "" {
		return "already exists"
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

func (e ConflictError) Is(target error) bool {
	_, ok := target.(ConflictError)
	if ok {
		return true
	}
	_, ok = target.(*ConflictError)
	return ok
}

// ErrConflict is the sentinel error for duplicate resources.
var ErrConflict = ConflictError{}

// CredentialError represents a bearer credential that was presented but is
// unusable: wrong scheme, bad signature, expired, or undecodable. A request
// carrying one never downgrades to the anonymous path.
type CredentialError struct {
	Reason string
}

func (e CredentialError) Error() string {
	if e.Reason == "" {
		return "invalid credential"
	}
	return fmt.Sprintf("invalid credential: %s", e.Reason)
}

func (e CredentialError) Is(target error) bool {
	_, ok := target.(CredentialError)
	if ok {
		return true
	}
	_, ok = target.(*CredentialError)
	return ok
}

// ErrCredential is the sentinel error for unusable credentials.
var ErrCredential = CredentialError{}

// IdentityError means the credential decoded fine but the account it asserts
// no longer exists. ClearCredential advises the boundary layer to instruct
// the client to discard its stored credential.
type IdentityError struct {
	AccountID       int64
	ClearCredential bool
}

func (e IdentityError) Error() string {
	return fmt.Sprintf("account %d referenced by credential does not exist", e.AccountID)
}

func (e IdentityError) Is(target error) bool {
	_, ok := target.(IdentityError)
	if ok {
		return true
	}
	_, ok = target.(*IdentityError)
	return ok
}

// ErrIdentity is the sentinel error for orphaned credentials.
var ErrIdentity = IdentityError{}
