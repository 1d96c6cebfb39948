package model

import "errors"

// ErrMissingCollaborator is returned by constructors handed a nil dependency.
var ErrMissingCollaborator = errors.New("missing collaborator")
