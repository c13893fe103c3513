package keypad

import "errors"

var (
	ErrInvalidPins = errors.New("keypad: invalid pin configuration")
	ErrSamePort    = errors.New("keypad: rows and columns must be on different ports")
)
