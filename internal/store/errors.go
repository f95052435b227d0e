package store

import "github.com/kitaplik/kitaplik-server/internal/errors"

// Persistence sentinels. These alias the application error values so a
// store error carries its HTTP semantics all the way up without translation
// layers in between.
var (
	ErrNotFound      = errors.ErrNotFound
	ErrAlreadyExists = errors.ErrConflict
	ErrAlreadyLinked = errors.ErrAlreadyLinked
)
