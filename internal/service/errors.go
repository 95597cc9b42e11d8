// Package service holds the business logic above the repositories:
// uniqueness checks, the activity status transition, and the two-phase
// registration against the identity provider.
package service

import "errors"

// ErrUsernameTaken is returned when a create or registration targets a
// username that already exists. Handlers translate it into an HTTP 400.
var ErrUsernameTaken = errors.New("username already exists")

// ErrEmailTaken is returned when a registration targets an email that
// already exists.
var ErrEmailTaken = errors.New("email already exists")

// ErrInvalidCredentials is returned on any login mismatch, without
// distinguishing an unknown username from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrRemoteRegistration wraps a failed identity provider call during
// registration. Nothing was written locally when it is returned.
var ErrRemoteRegistration = errors.New("remote registration failed")

// ErrCompensationFailed is returned when the local insert of a
// registration failed and the rollback of the remote account failed too,
// leaving an orphaned account at the identity provider.
var ErrCompensationFailed = errors.New("registration rollback failed, remote account orphaned")

// ErrInvalidPriority is returned when an activity carries a priority
// outside the enumerated levels.
var ErrInvalidPriority = errors.New("invalid priority")
