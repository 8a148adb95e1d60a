// Package repository declares the data access interfaces used by services.
// Lookups of missing rows return sql.ErrNoRows.
package repository

import "errors"

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")
