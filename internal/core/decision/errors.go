package decision

import "errors"

var (
	ErrUnknownState    = errors.New("unknown game state")
	ErrUnknownPriority = errors.New("unknown priority")
)
