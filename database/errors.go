package database

import "errors"

// Storage-level outcomes shared by every backend.
var (
	ErrNotFound       = errors.New("document not found")
	ErrDuplicate      = errors.New("document already exists")
	ErrSeatsExhausted = errors.New("not enough remaining seats")
	ErrStaleWrite     = errors.New("document changed during update")
	ErrNoCredits      = errors.New("no package credits left")
)
