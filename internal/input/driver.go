package input

import (
	"time"
)

// Key names a keyboard key. Printable keys use their character, special keys
// use the lower case names below.
type Key string

const (
	KeySpace Key = "space"
	KeyCtrl  Key = "ctrl"
	KeyShift Key = "shift"
	KeyTab   Key = "tab"
)

type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return "unknown"
	}
}

// Driver is the OS level input device. Implementations live outside this
// package; Recorder is the in-memory one.
type Driver interface {
	KeyDown(k Key) error
	KeyUp(k Key) error
	ButtonDown(b Button) error
	ButtonUp(b Button) error
	MoveTo(x, y int) error
	Position() (x, y int)
	Scroll(dy int) error
}

// Sleeper blocks for d. Controllers use it for every hold and pause.
type Sleeper interface {
	Sleep(d time.Duration)
}

type SleeperFunc func(d time.Duration)

func (f SleeperFunc) Sleep(d time.Duration) { f(d) }

// RealSleeper sleeps on the wall clock.
var RealSleeper Sleeper = SleeperFunc(time.Sleep)
