package model

import "errors"

// ErrNotFound is returned by writes that target a record that doesn't exist.
// Reads return a nil record instead.
var ErrNotFound = errors.New("not found")
