package input

import (
	"math"
	"time"
)

const (
	// MoveStep is the interval between intermediate positions of smooth moves.
	MoveStep = 10 * time.Millisecond

	DefaultSmoothMove = 200 * time.Millisecond
	AimDuration       = 150 * time.Millisecond
	ClickPause        = 50 * time.Millisecond
	DragPause         = 100 * time.Millisecond
	DefaultLookTurn   = 500 * time.Millisecond

	// PixelsPerDegree is a rough horizontal calibration for LookAround.
	PixelsPerDegree = 2.5
)

// Offset is a relative mouse movement.
type Offset struct {
	DX, DY float64
}

// Mouse translates aiming and shooting intents into pointer movement.
type Mouse struct {
	driver      Driver
	sleep       Sleeper
	sensitivity float64
}

func NewMouse(driver Driver, sleep Sleeper, sensitivity float64) *Mouse {
	if sensitivity <= 0 {
		sensitivity = 1
	}
	return &Mouse{driver: driver, sleep: sleep, sensitivity: sensitivity}
}

func (m *Mouse) Position() (int, int) { return m.driver.Position() }

func (m *Mouse) Sensitivity() float64 { return m.sensitivity }

func (m *Mouse) SetSensitivity(s float64) { m.sensitivity = s }

// MoveTo jumps to (x, y), or glides there over d with ease-out cubic when
// smooth is set. The final position is always exactly (x, y).
func (m *Mouse) MoveTo(x, y int, smooth bool, d time.Duration) error {
	if smooth {
		if err := m.glide(x, y, d); err != nil {
			return err
		}
	}
	return m.driver.MoveTo(x, y)
}

func (m *Mouse) glide(x, y int, d time.Duration) error {
	startX, startY := m.driver.Position()
	dx := float64(x - startX)
	dy := float64(y - startY)

	steps := int(d / MoveStep)
	for i := 0; i < steps; i++ {
		t := float64(i+1) / float64(steps)
		eased := 1 - math.Pow(1-t, 3)
		nx := int(float64(startX) + dx*eased)
		ny := int(float64(startY) + dy*eased)
		if err := m.driver.MoveTo(nx, ny); err != nil {
			return err
		}
		m.sleep.Sleep(MoveStep)
	}
	return nil
}

// MoveRelative shifts the pointer by (dx, dy) scaled by sensitivity.
func (m *Mouse) MoveRelative(dx, dy float64) error {
	x, y := m.driver.Position()
	return m.driver.MoveTo(x+int(dx*m.sensitivity), y+int(dy*m.sensitivity))
}

// Click presses and releases b n times with a short pause after each click.
func (m *Mouse) Click(b Button, n int) error {
	for i := 0; i < n; i++ {
		if err := m.driver.ButtonDown(b); err != nil {
			return err
		}
		if err := m.driver.ButtonUp(b); err != nil {
			return err
		}
		m.sleep.Sleep(ClickPause)
	}
	return nil
}

func (m *Mouse) LeftClick() error   { return m.Click(ButtonLeft, 1) }
func (m *Mouse) RightClick() error  { return m.Click(ButtonRight, 1) }
func (m *Mouse) DoubleClick() error { return m.Click(ButtonLeft, 2) }

func (m *Mouse) Press(b Button) error   { return m.driver.ButtonDown(b) }
func (m *Mouse) Release(b Button) error { return m.driver.ButtonUp(b) }

// Drag holds b while gliding to (x, y).
func (m *Mouse) Drag(x, y int, b Button) error {
	if err := m.driver.ButtonDown(b); err != nil {
		return err
	}
	m.sleep.Sleep(DragPause)
	err := m.MoveTo(x, y, true, DefaultSmoothMove)
	m.sleep.Sleep(DragPause)
	if upErr := m.driver.ButtonUp(b); err == nil {
		err = upErr
	}
	return err
}

func (m *Mouse) Scroll(dy int) error { return m.driver.Scroll(dy) }

// AimAt moves the crosshair onto a screen position.
func (m *Mouse) AimAt(x, y int, smooth bool) error {
	return m.MoveTo(x, y, smooth, AimDuration)
}

// Shoot holds the left button for d.
func (m *Mouse) Shoot(d time.Duration) error {
	return m.hold(ButtonLeft, d)
}

// AimDownSights holds the right button for d.
func (m *Mouse) AimDownSights(d time.Duration) error {
	return m.hold(ButtonRight, d)
}

func (m *Mouse) hold(b Button, d time.Duration) error {
	if err := m.driver.ButtonDown(b); err != nil {
		return err
	}
	m.sleep.Sleep(d)
	return m.driver.ButtonUp(b)
}

// QuickShoot aims smoothly at (x, y) and fires a short burst.
func (m *Mouse) QuickShoot(x, y int) error {
	if err := m.AimAt(x, y, true); err != nil {
		return err
	}
	m.sleep.Sleep(100 * time.Millisecond)
	return m.Shoot(100 * time.Millisecond)
}

// SprayControl fires for d while applying pattern offsets evenly spaced in
// time to counter recoil.
func (m *Mouse) SprayControl(pattern []Offset, d time.Duration) error {
	if err := m.driver.ButtonDown(ButtonLeft); err != nil {
		return err
	}
	var err error
	if len(pattern) > 0 {
		step := d / time.Duration(len(pattern))
		for _, off := range pattern {
			if err = m.MoveRelative(off.DX, off.DY); err != nil {
				break
			}
			m.sleep.Sleep(step)
		}
	}
	if upErr := m.driver.ButtonUp(ButtonLeft); err == nil {
		err = upErr
	}
	return err
}

// LookAround turns horizontally by degrees (positive is right) over d.
func (m *Mouse) LookAround(degrees float64, d time.Duration) error {
	total := float64(int(degrees * PixelsPerDegree))
	steps := int(d / MoveStep)
	if steps == 0 {
		return m.MoveRelative(total, 0)
	}
	perStep := total / float64(steps)
	for i := 0; i < steps; i++ {
		if err := m.MoveRelative(perStep, 0); err != nil {
			return err
		}
		m.sleep.Sleep(MoveStep)
	}
	return nil
}
