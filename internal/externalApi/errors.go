package externalApi

import "errors"

var (
	ErrNotFound     = errors.New("error not found")
	ErrInvalidPrice = errors.New("error invalid price")
	ErrBadStatus    = errors.New("error unexpected response status")
)
