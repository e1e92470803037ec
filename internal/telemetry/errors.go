package telemetry

import "errors"

var ErrAlreadyRunning = errors.New("telemetry server already running")
