// Package repository holds the sentinel errors every storage backend maps its driver errors to.
package repository

import "errors"

var (
	// ErrAlreadyExists is returned when a unique key (user email) is taken.
	ErrAlreadyExists = errors.New("error already exists")
	// ErrNotFound is returned when the requested row does not exist or belongs to another user.
	ErrNotFound = errors.New("error not found")
	// ErrReferenceNotFound is returned when a row points at a parent that no longer exists,
	// e.g. a holding inserted for a deleted user.
	ErrReferenceNotFound = errors.New("error referenced row not found")
)
