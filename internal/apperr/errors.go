package apperr

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotInKnowledgeBase  = errors.New("not inside a knowledge base")
	ErrTargetNotFound      = errors.New("link target not found")
	ErrUnknownRelationship = errors.New("unknown relationship")
)
