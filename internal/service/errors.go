package service

import "errors"

// Intake rejections. Each maps to one fixed user-facing reason and an HTTP
// status at the handler layer.
var (
	ErrNoFile          = errors.New("no file")
	ErrMissingTitle    = errors.New("missing title")
	ErrMissingCategory = errors.New("missing category")
	ErrWrongType       = errors.New("wrong type")
	ErrTooLarge        = errors.New("too large")
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrMediaNotFound    = errors.New("media not found")
	ErrInvalidKey       = errors.New("invalid category key")
	ErrReservedKey      = errors.New("reserved category key")
	ErrNestingTooDeep   = errors.New("categories nest one level only")
	ErrNotAnImage       = errors.New("only images can be featured")
)
