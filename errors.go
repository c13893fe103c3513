package mcp23017

import "errors"

var (
	ErrInvalidPort     = errors.New("invalid port")
	ErrNotSupported    = errors.New("not supported")
	ErrInterruptPinSet = errors.New("interrupt pin has already been set")
)
