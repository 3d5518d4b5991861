package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/omnibox/internal/logger"
)

// job is the loop shared by the reloaders and the garbage collector: run
// on every tick and on every manual trigger until stopped.
type job struct {
	name     string
	interval time.Duration
	trigger  <-chan struct{} // may be nil
	logger   logger.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
}

func newJob(name string, interval time.Duration, trigger <-chan struct{}, log logger.Logger) *job {
	return &job{
		name:     name,
		interval: interval,
		trigger:  trigger,
		logger:   log.With(logger.String("job", name)),
		stopCh:   make(chan struct{}),
	}
}

// loop runs fn in a goroutine until Stop is called or ctx is done.
func (j *job) loop(ctx context.Context, fn func(context.Context) error) {
	ticker := time.NewTicker(j.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
			case <-j.trigger:
				j.logger.Info("manual run triggered")
			case <-j.stopCh:
				return
			case <-ctx.Done():
				return
			}
			if err := fn(ctx); err != nil {
				j.logger.Error(j.name+" failed", logger.Error(err))
			}
		}
	}()
}

// Stop ends the loop. It is safe to call more than once.
func (j *job) Stop() {
	j.stopOnce.Do(func() { close(j.stopCh) })
}
