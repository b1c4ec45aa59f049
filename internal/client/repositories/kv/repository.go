// Package kv stores small opaque values in the local database, one row per
// namespace.
package kv

import "errors"

// ErrNotFound is returned by Get when the namespace holds no value.
var ErrNotFound = errors.New("kv: not found")
