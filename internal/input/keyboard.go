package input

import (
	"fmt"
	"strconv"
	"time"
)

const (
	DefaultKeyDelay  = 50 * time.Millisecond
	DefaultPressHold = 100 * time.Millisecond
	DefaultMoveHold  = time.Second
	DefaultCrouch    = 500 * time.Millisecond
	DefaultVoiceHold = 2 * time.Second

	HotbarSlots = 6
)

// Keyboard translates game intents into key presses.
type Keyboard struct {
	driver Driver
	sleep  Sleeper
	delay  time.Duration
}

func NewKeyboard(driver Driver, sleep Sleeper, delay time.Duration) *Keyboard {
	if delay <= 0 {
		delay = DefaultKeyDelay
	}
	return &Keyboard{driver: driver, sleep: sleep, delay: delay}
}

func (k *Keyboard) Delay() time.Duration { return k.delay }

// Press holds key for d then releases it.
func (k *Keyboard) Press(key Key, d time.Duration) error {
	if err := k.driver.KeyDown(key); err != nil {
		return err
	}
	k.sleep.Sleep(d)
	return k.driver.KeyUp(key)
}

// Tap presses key for the configured key delay.
func (k *Keyboard) Tap(key Key) error {
	return k.Press(key, k.delay)
}

// Type sends each rune of text as a press and release followed by delay.
func (k *Keyboard) Type(text string, delay time.Duration) error {
	for _, r := range text {
		key := Key(string(r))
		if err := k.driver.KeyDown(key); err != nil {
			return err
		}
		if err := k.driver.KeyUp(key); err != nil {
			return err
		}
		k.sleep.Sleep(delay)
	}
	return nil
}

// Combination holds all keys together for d and releases them in reverse.
func (k *Keyboard) Combination(keys []Key, d time.Duration) error {
	for i, key := range keys {
		if err := k.driver.KeyDown(key); err != nil {
			_ = k.release(keys[:i])
			return err
		}
	}
	k.sleep.Sleep(d)
	return k.release(keys)
}

func (k *Keyboard) release(keys []Key) error {
	var first error
	for i := len(keys) - 1; i >= 0; i-- {
		if err := k.driver.KeyUp(keys[i]); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Hold presses key until Release is called.
func (k *Keyboard) Hold(key Key) error    { return k.driver.KeyDown(key) }
func (k *Keyboard) Release(key Key) error { return k.driver.KeyUp(key) }

func (k *Keyboard) MoveForward(d time.Duration) error  { return k.Press("w", d) }
func (k *Keyboard) MoveBackward(d time.Duration) error { return k.Press("s", d) }
func (k *Keyboard) MoveLeft(d time.Duration) error     { return k.Press("a", d) }
func (k *Keyboard) MoveRight(d time.Duration) error    { return k.Press("d", d) }

func (k *Keyboard) Jump() error                     { return k.Tap(KeySpace) }
func (k *Keyboard) Crouch(d time.Duration) error    { return k.Press(KeyCtrl, d) }
func (k *Keyboard) Sprint(d time.Duration) error    { return k.Press(KeyShift, d) }
func (k *Keyboard) Reload() error                   { return k.Tap("r") }
func (k *Keyboard) Interact() error                 { return k.Tap("e") }
func (k *Keyboard) OpenInventory() error            { return k.Tap(KeyTab) }
func (k *Keyboard) OpenMap() error                  { return k.Tap("g") }
func (k *Keyboard) VoiceChat(d time.Duration) error { return k.Press("v", d) }

// SelectHotbar taps the digit for slot, which must be 1 through HotbarSlots.
func (k *Keyboard) SelectHotbar(slot int) error {
	if slot < 1 || slot > HotbarSlots {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	return k.Tap(Key(strconv.Itoa(slot)))
}
