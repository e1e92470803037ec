package input

import (
	"fmt"
	"sync"
	"time"
)

type EventKind string

const (
	EventKeyDown    EventKind = "key_down"
	EventKeyUp      EventKind = "key_up"
	EventButtonDown EventKind = "button_down"
	EventButtonUp   EventKind = "button_up"
	EventMove       EventKind = "move"
	EventScroll     EventKind = "scroll"
	EventSleep      EventKind = "sleep"
)

// Event is a single recorded primitive.
type Event struct {
	Kind   EventKind
	Key    Key
	Button Button
	X, Y   int
	DY     int
	Wait   time.Duration
}

func (e Event) String() string {
	switch e.Kind {
	case EventKeyDown, EventKeyUp:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Key)
	case EventButtonDown, EventButtonUp:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Button)
	case EventMove:
		return fmt.Sprintf("move(%d,%d)", e.X, e.Y)
	case EventScroll:
		return fmt.Sprintf("scroll(%d)", e.DY)
	case EventSleep:
		return fmt.Sprintf("sleep(%s)", e.Wait)
	default:
		return string(e.Kind)
	}
}

// Recorder is a Driver and Sleeper that only remembers what it was asked to
// do. It backs dry runs and tests. With a non-zero limit only the most recent
// events are kept.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	limit  int
	x, y   int
	held   map[Key]bool
	slept  time.Duration
}

func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit, held: make(map[Key]bool)}
}

func (r *Recorder) record(e Event) {
	r.events = append(r.events, e)
	if r.limit > 0 && len(r.events) > r.limit {
		r.events = append(r.events[:0], r.events[len(r.events)-r.limit:]...)
	}
}

func (r *Recorder) KeyDown(k Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.held[k] = true
	r.record(Event{Kind: EventKeyDown, Key: k})
	return nil
}

// KeyUp fails with ErrKeyNotHeld for a key that is not down, as a stuck or
// doubled release would be on a real device.
func (r *Recorder) KeyUp(k Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.held[k] {
		return fmt.Errorf("%w: %s", ErrKeyNotHeld, k)
	}
	delete(r.held, k)
	r.record(Event{Kind: EventKeyUp, Key: k})
	return nil
}

func (r *Recorder) ButtonDown(b Button) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Event{Kind: EventButtonDown, Button: b})
	return nil
}

func (r *Recorder) ButtonUp(b Button) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Event{Kind: EventButtonUp, Button: b})
	return nil
}

func (r *Recorder) MoveTo(x, y int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.x, r.y = x, y
	r.record(Event{Kind: EventMove, X: x, Y: y})
	return nil
}

func (r *Recorder) Position() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.x, r.y
}

func (r *Recorder) Scroll(dy int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Event{Kind: EventScroll, DY: dy})
	return nil
}

// Sleep records the wait without blocking.
func (r *Recorder) Sleep(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slept += d
	r.record(Event{Kind: EventSleep, Wait: d})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Filter returns recorded events of the given kinds, in order.
func (r *Recorder) Filter(kinds ...EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		for _, k := range kinds {
			if e.Kind == k {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func (r *Recorder) Held(k Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.held[k]
}

// Slept is the total of all recorded sleeps.
func (r *Recorder) Slept() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slept
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.held = make(map[Key]bool)
	r.slept = 0
}
