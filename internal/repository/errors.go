// Package repository implements database access for users and activities
// on top of GORM. Sentinel errors defined here let the service and API
// layers branch on the failure kind instead of matching error text.
package repository

import "errors"

// ErrNotFound is returned when a row looked up by id (or another unique
// column) does not exist. Handlers translate it into an HTTP 404.
var ErrNotFound = errors.New("not found")
