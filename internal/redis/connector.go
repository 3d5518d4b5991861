package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/omnibox/internal/logger"
	"github.com/MrSnakeDoc/omnibox/internal/utils"
)

// ConnectOptions configures the client and the startup ping loop.
type ConnectOptions struct {
	Addr         string
	User         string
	Password     string
	RedisDB      int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int

	ConnectTimeout time.Duration // budget for the whole ping loop
	RetryInterval  time.Duration // first backoff, doubled after each failure
	MaxWait        time.Duration // backoff cap
	PingTimeout    time.Duration // per attempt
	WarnThreshold  int           // failed attempts logged as warnings before switching to errors
}

// urgentWindow is the remaining budget under which retries log as errors.
const urgentWindow = 10 * time.Second

var errInvalidOptions = errors.New("invalid redis connect options")

// Validate reports the first unusable retry setting.
func (o ConnectOptions) Validate() error {
	checks := []struct {
		name string
		bad  bool
		val  any
	}{
		{"ConnectTimeout", o.ConnectTimeout <= 0, o.ConnectTimeout},
		{"RetryInterval", o.RetryInterval <= 0, o.RetryInterval},
		{"MaxWait", o.MaxWait <= 0, o.MaxWait},
		{"PingTimeout", o.PingTimeout <= 0, o.PingTimeout},
		{"WarnThreshold", o.WarnThreshold < 0, o.WarnThreshold},
	}
	for _, c := range checks {
		if c.bad {
			return fmt.Errorf("%w: %s = %v", errInvalidOptions, c.name, c.val)
		}
	}
	return nil
}

func (o ConnectOptions) clientOptions() *redis.Options {
	return &redis.Options{
		Addr:         o.Addr,
		Username:     o.User,
		Password:     o.Password,
		DB:           o.RedisDB,
		DialTimeout:  o.DialTimeout,
		ReadTimeout:  o.ReadTimeout,
		WriteTimeout: o.WriteTimeout,
		PoolSize:     o.PoolSize,
	}
}

// New creates the client backing the history store and the search cache.
// It pings with exponential backoff until Redis answers, ConnectTimeout
// runs out or ctx is done. A client is only returned once reachable.
func New(ctx context.Context, opts ConnectOptions, log logger.Logger) (*redis.Client, error) {
	if err := opts.Validate(); err != nil {
		log.Error("refusing to connect to redis", logger.Error(err))
		return nil, err
	}

	c := &connector{
		client: redis.NewClient(opts.clientOptions()),
		opts:   opts,
		log:    log.With(logger.String("addr", opts.Addr)),
	}
	if err := c.await(ctx); err != nil {
		utils.Close(c.client)
		return nil, err
	}
	return c.client, nil
}

type connector struct {
	client *redis.Client
	opts   ConnectOptions
	log    logger.Logger
}

func (c *connector) await(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, c.opts.ConnectTimeout)
	defer cancel()

	c.log.Info("connecting to redis", logger.Duration("timeout", c.opts.ConnectTimeout))
	start := time.Now()
	wait := c.opts.RetryInterval

	for attempt := 1; ; attempt++ {
		err := c.ping(ctx)
		if err == nil {
			c.logConnected(attempt, time.Since(start))
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			c.log.Error("redis unavailable, giving up",
				logger.Int("attempts", attempt),
				logger.Duration("timeout", c.opts.ConnectTimeout),
				logger.Error(err))
			return fmt.Errorf("redis unavailable at %s after %d attempts (timeout: %v): %w",
				c.opts.Addr, attempt, c.opts.ConnectTimeout, err)
		case <-timer.C:
			c.logRetry(attempt, timeLeft(ctx), wait, err)
			wait = nextBackoff(wait, c.opts.MaxWait)
		}
	}
}

func (c *connector) ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, c.opts.PingTimeout)
	defer cancel()
	return c.client.Ping(pingCtx).Err()
}

func (c *connector) logConnected(attempts int, elapsed time.Duration) {
	if attempts == 1 {
		c.log.Info("connected to redis")
		return
	}
	c.log.Warn("connected to redis after retry",
		logger.Int("attempts", attempts),
		logger.Duration("elapsed", elapsed))
}

func (c *connector) logRetry(attempt int, remaining, next time.Duration, err error) {
	fields := []logger.Field{
		logger.Int("attempt", attempt),
		logger.Duration("next_retry_in", next),
		logger.Error(err),
	}
	switch {
	case remaining < urgentWindow:
		c.log.Error("redis still down, timeout approaching",
			append(fields, logger.Duration("remaining", remaining))...)
	case attempt <= c.opts.WarnThreshold:
		c.log.Warn("redis connection failed, retrying", fields...)
	default:
		c.log.Error("redis still unavailable", fields...)
	}
}

// nextBackoff doubles wait, capped at maxWait.
func nextBackoff(wait, maxWait time.Duration) time.Duration {
	return min(wait*2, maxWait)
}

func timeLeft(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	return time.Until(deadline)
}
