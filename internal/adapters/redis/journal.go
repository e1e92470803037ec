package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/zeusync/raidbot/internal/agent"
	"github.com/zeusync/raidbot/internal/core/events"
)

const (
	defaultPrefix = "raidbot"
	defaultMaxLen = 10000
	appendTimeout = 500 * time.Millisecond
)

// Journal appends every frame report to a capped Redis stream so a run can be
// inspected after the fact.
type Journal struct {
	client *backend.Client
	prefix string
	maxLen int64
	sub    events.Subscription
}

type Option func(*Journal)

// WithPrefix sets the key prefix of the stream.
func WithPrefix(prefix string) Option {
	return func(j *Journal) {
		j.prefix = prefix
	}
}

// WithMaxLen caps the stream length; older entries are trimmed. Zero keeps
// everything.
func WithMaxLen(n int64) Option {
	return func(j *Journal) {
		j.maxLen = n
	}
}

func New(address, password string, db int, opts ...Option) *Journal {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

func NewFromClient(client *backend.Client, opts ...Option) *Journal {
	j := &Journal{
		client: client,
		prefix: defaultPrefix,
		maxLen: defaultMaxLen,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Key is the stream key.
func (j *Journal) Key() string {
	return j.prefix + ":journal"
}

func (j *Journal) Ping(ctx context.Context) error {
	if err := j.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis journal unreachable: %w", err)
	}
	return nil
}

// Append writes one report to the stream.
func (j *Journal) Append(ctx context.Context, r agent.FrameReport) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal frame report: %w", err)
	}
	args := &backend.XAddArgs{
		Stream: j.Key(),
		Values: map[string]any{
			"run_id":   r.RunID,
			"frame":    strconv.FormatUint(r.Frame, 10),
			"action":   r.Decision.Action,
			"priority": r.Decision.Priority.String(),
			"report":   data,
		},
	}
	if j.maxLen > 0 {
		args.MaxLen = j.maxLen
		args.Approx = true
	}
	if err := j.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to append to journal: %w", err)
	}
	return nil
}

// Recent returns up to n of the latest reports, oldest first.
func (j *Journal) Recent(ctx context.Context, n int64) ([]agent.FrameReport, error) {
	msgs, err := j.client.XRevRangeN(ctx, j.Key(), "+", "-", n).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	out := make([]agent.FrameReport, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		raw, ok := msgs[i].Values["report"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: entry %s has no report", ErrCorruptEntry, msgs[i].ID)
		}
		var r agent.FrameReport
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("%w: entry %s: %v", ErrCorruptEntry, msgs[i].ID, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Len is the number of entries currently in the stream.
func (j *Journal) Len(ctx context.Context) (int64, error) {
	return j.client.XLen(ctx, j.Key()).Result()
}

// Attach appends every frame report published on bus.
func (j *Journal) Attach(bus events.Bus) error {
	sub, err := bus.Subscribe(events.FrameProcessed, func(e events.Event) error {
		r, ok := e.Data().(agent.FrameReport)
		if !ok {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		defer cancel()
		return j.Append(ctx, r)
	})
	if err != nil {
		return err
	}
	j.sub = sub
	return nil
}

// Close detaches from the bus and closes the client.
func (j *Journal) Close() error {
	if j.sub != nil {
		_ = j.sub.Cancel()
	}
	return j.client.Close()
}
