package db

import (
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal database error")
	ErrConflict = errors.New("conflicting row")
)

// DB groups every storage capability the federation engine consumes.
type DB interface {
	Actors
	Objects
	Follows
	Social
	Sequences
	Peers
}
