package repositories

import "errors"

// ErrNotFound is returned by lookups when no row matches, so handlers can
// answer 404 without leaking gorm internals.
var ErrNotFound = errors.New("record not found")
