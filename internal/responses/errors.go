package responses

import "errors"

var (
	ErrNotFound     = errors.New("response not found")
	ErrDuplicate    = errors.New("response id already exists")
	ErrInvalidInput = errors.New("invalid input")
)
