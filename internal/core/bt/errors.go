package bt

import "errors"

// Construction errors. They are reported by NewTree and Definition.Build,
// never by Tick.
var (
	ErrNilNode          = errors.New("nil node")
	ErrNilFunc          = errors.New("leaf has no function")
	ErrNoChildren       = errors.New("composite has no children")
	ErrInvalidThreshold = errors.New("parallel success threshold out of range")
	ErrSharedNode       = errors.New("node has more than one parent")
	ErrUnknownNode      = errors.New("unknown node")
	ErrUnknownNodeType  = errors.New("unknown node type")
	ErrUnknownAction    = errors.New("unknown action")
	ErrUnknownCondition = errors.New("unknown condition")
	ErrInvalidParam     = errors.New("invalid node parameter")
)
