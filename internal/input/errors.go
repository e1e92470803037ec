package input

import "errors"

var (
	ErrInvalidSlot = errors.New("hotbar slot out of range")
	ErrKeyNotHeld  = errors.New("key is not held")
)
