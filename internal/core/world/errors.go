package world

import "errors"

var (
	ErrMalformedPerception = errors.New("malformed perception payload")
	ErrMalformedDetection  = errors.New("malformed detection")
)
