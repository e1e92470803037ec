package feed

import (
	"context"
	"errors"
	"io"

	"github.com/zeusync/raidbot/internal/core/world"
)

// ErrRejected marks a single perception that could not be decoded. The
// source stays usable; callers skip the frame and call Next again.
var ErrRejected = errors.New("perception rejected")

// Source yields perceptions in frame order. Next returns io.EOF once the feed
// is exhausted and ctx.Err() when cancelled.
type Source interface {
	Next(ctx context.Context) (world.Perception, error)
}

// Channel adapts an in-process detector that pushes perceptions.
type Channel struct {
	ch    <-chan world.Perception
	frame uint64
}

func NewChannel(ch <-chan world.Perception) *Channel {
	return &Channel{ch: ch}
}

func (c *Channel) Next(ctx context.Context) (world.Perception, error) {
	select {
	case <-ctx.Done():
		return world.Perception{}, ctx.Err()
	case p, ok := <-c.ch:
		if !ok {
			return world.Perception{}, io.EOF
		}
		c.frame = nextFrame(c.frame, &p)
		return p, nil
	}
}

// nextFrame numbers p after last unless the producer numbered it already.
func nextFrame(last uint64, p *world.Perception) uint64 {
	if p.Frame == 0 {
		p.Frame = last + 1
	}
	return p.Frame
}
