package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"screams/internal/models"
	"screams/internal/observability"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	fieldKind  = "kind"
	fieldEvent = "event"
)

// StreamConfig names the Redis stream and consumer group reactions run from.
type StreamConfig struct {
	Stream   string
	Group    string
	Consumer string
	// Block is how long one read waits for new entries.
	Block time.Duration
	// ClaimIdle is how long an entry may sit unacked with another consumer
	// before this one takes it over.
	ClaimIdle time.Duration
	BatchSize int64
	MaxLen    int64
}

// DefaultStreamConfig returns the production stream layout. Each process
// gets its own consumer name.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Stream:    "changes",
		Group:     "reactors",
		Consumer:  "reactor-" + uuid.NewString(),
		Block:     2 * time.Second,
		ClaimIdle: time.Minute,
		BatchSize: 32,
		MaxLen:    100000,
	}
}

func (c StreamConfig) withDefaults() StreamConfig {
	d := DefaultStreamConfig()
	if c.Stream == "" {
		c.Stream = d.Stream
	}
	if c.Group == "" {
		c.Group = d.Group
	}
	if c.Consumer == "" {
		c.Consumer = d.Consumer
	}
	if c.Block <= 0 {
		c.Block = d.Block
	}
	if c.ClaimIdle <= 0 {
		c.ClaimIdle = d.ClaimIdle
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.MaxLen <= 0 {
		c.MaxLen = d.MaxLen
	}
	return c
}

// RedisBus appends events to a Redis stream so reactions run outside the
// request that made the change. An entry is acknowledged only once its
// reaction succeeded or failed permanently; anything else stays pending and
// is delivered again.
type RedisBus struct {
	rdb    *redis.Client
	policy RetryPolicy
	cfg    StreamConfig
}

// NewRedisBus creates a bus on the provided Redis client.
func NewRedisBus(rdb *redis.Client, policy RetryPolicy, cfg StreamConfig) *RedisBus {
	return &RedisBus{rdb: rdb, policy: policy, cfg: cfg.withDefaults()}
}

func (b *RedisBus) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = b.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: b.cfg.Stream,
		MaxLen: b.cfg.MaxLen,
		Approx: true,
		Values: map[string]interface{}{fieldKind: string(e.Kind), fieldEvent: payload},
	}).Err()
	if err != nil {
		return models.NewStoreUnavailableError(err)
	}
	observability.EventsPublished.WithLabelValues(string(e.Kind), "redis").Inc()
	return nil
}

// Subscribe joins the consumer group and hands decoded events to h until ctx
// is cancelled. The group starts at the beginning of the stream, so events
// appended before the first subscriber are not lost.
func (b *RedisBus) Subscribe(ctx context.Context, h Handler) error {
	err := b.rdb.XGroupCreateMkStream(ctx, b.cfg.Stream, b.cfg.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group %s: %w", b.cfg.Group, err)
	}

	go b.consume(ctx, h)
	return nil
}

func (b *RedisBus) consume(ctx context.Context, h Handler) {
	for ctx.Err() == nil {
		b.claimAbandoned(ctx)

		// Own pending entries first: these failed earlier or were just claimed.
		left, err := b.readAndDeliver(ctx, h, "0", -1)
		if err != nil {
			b.pause(ctx, err)
			continue
		}
		if left > 0 {
			b.wait(ctx)
			continue
		}
		if _, err := b.readAndDeliver(ctx, h, ">", b.cfg.Block); err != nil {
			b.pause(ctx, err)
		}
	}
}

// claimAbandoned moves entries left unacked by dead consumers to this one.
func (b *RedisBus) claimAbandoned(ctx context.Context) {
	_, _, err := b.rdb.XAutoClaimJustID(ctx, &redis.XAutoClaimArgs{
		Stream:   b.cfg.Stream,
		Group:    b.cfg.Group,
		Consumer: b.cfg.Consumer,
		MinIdle:  b.cfg.ClaimIdle,
		Start:    "0-0",
		Count:    b.cfg.BatchSize,
	}).Result()
	if err != nil && ctx.Err() == nil {
		observability.Logger.WarnContext(ctx, "claiming abandoned change events failed",
			slog.String("error", err.Error()),
		)
	}
}

// readAndDeliver reports how many of the entries it read were left pending.
func (b *RedisBus) readAndDeliver(ctx context.Context, h Handler, start string, block time.Duration) (int, error) {
	streams, err := b.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    b.cfg.Group,
		Consumer: b.cfg.Consumer,
		Streams:  []string{b.cfg.Stream, start},
		Count:    b.cfg.BatchSize,
		Block:    block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	left := 0
	for _, s := range streams {
		for _, msg := range s.Messages {
			if !b.deliver(ctx, h, msg) {
				left++
				continue
			}
			if err := b.rdb.XAck(ctx, b.cfg.Stream, b.cfg.Group, msg.ID).Err(); err != nil {
				return left, err
			}
		}
	}
	return left, nil
}

func (b *RedisBus) pause(ctx context.Context, err error) {
	if ctx.Err() != nil {
		return
	}
	observability.RedisErrors.WithLabelValues("xreadgroup").Inc()
	observability.Logger.WarnContext(ctx, "reading change stream failed",
		slog.String("stream", b.cfg.Stream),
		slog.String("error", err.Error()),
	)
	b.wait(ctx)
}

func (b *RedisBus) wait(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(b.cfg.Block):
	}
}

// deliver runs the reaction for msg and reports whether the entry is done
// with, either handled or not worth retrying.
func (b *RedisBus) deliver(ctx context.Context, h Handler, msg redis.XMessage) (done bool) {
	defer func() {
		if r := recover(); r != nil {
			observability.Logger.ErrorContext(ctx, "panic in change consumer",
				slog.String("entry", msg.ID),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			done = false
		}
	}()

	raw, _ := msg.Values[fieldEvent].(string)
	var e Event
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		observability.Logger.WarnContext(ctx, "dropping undecodable change event",
			slog.String("entry", msg.ID),
			slog.String("error", err.Error()),
		)
		return true
	}
	if e.Kind == "" {
		kind, _ := msg.Values[fieldKind].(string)
		e.Kind = Kind(kind)
	}

	err := Dispatch(ctx, h, e, b.policy)
	switch {
	case err == nil:
		return true
	case models.IsStoreUnavailable(err):
		observability.Logger.WarnContext(ctx, "change reaction left pending",
			slog.String("event", string(e.Kind)),
			slog.String("id", e.ID),
			slog.String("entry", msg.ID),
			slog.String("error", err.Error()),
		)
		return false
	default:
		observability.Logger.ErrorContext(ctx, "change reaction failed",
			slog.String("event", string(e.Kind)),
			slog.String("id", e.ID),
			slog.String("entry", msg.ID),
			slog.String("error", err.Error()),
		)
		return true
	}
}
