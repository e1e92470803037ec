package input

import (
	"github.com/zeusync/raidbot/internal/core/observability/log"
)

// LoggingDriver logs every primitive at debug level before passing it on.
type LoggingDriver struct {
	next Driver
	log  log.Log
}

func NewLoggingDriver(next Driver, logger log.Log) *LoggingDriver {
	return &LoggingDriver{next: next, log: logger.Named("input")}
}

func (d *LoggingDriver) KeyDown(k Key) error {
	d.log.Debug("key down", log.String("key", string(k)))
	return d.fail("key down", d.next.KeyDown(k))
}

func (d *LoggingDriver) KeyUp(k Key) error {
	d.log.Debug("key up", log.String("key", string(k)))
	return d.fail("key up", d.next.KeyUp(k))
}

func (d *LoggingDriver) ButtonDown(b Button) error {
	d.log.Debug("button down", log.Stringer("button", b))
	return d.fail("button down", d.next.ButtonDown(b))
}

func (d *LoggingDriver) ButtonUp(b Button) error {
	d.log.Debug("button up", log.Stringer("button", b))
	return d.fail("button up", d.next.ButtonUp(b))
}

func (d *LoggingDriver) MoveTo(x, y int) error {
	d.log.Debug("move", log.Int("x", x), log.Int("y", y))
	return d.fail("move", d.next.MoveTo(x, y))
}

func (d *LoggingDriver) Position() (int, int) {
	return d.next.Position()
}

func (d *LoggingDriver) Scroll(dy int) error {
	d.log.Debug("scroll", log.Int("dy", dy))
	return d.fail("scroll", d.next.Scroll(dy))
}

func (d *LoggingDriver) fail(op string, err error) error {
	if err != nil {
		d.log.Warn("input primitive failed", log.String("op", op), log.Error(err))
	}
	return err
}
