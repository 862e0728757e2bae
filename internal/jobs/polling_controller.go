package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var (
	ErrControllerStopped = errors.New("polling controller is stopped")
	ErrAlreadyStarted    = errors.New("polling controller is already started")
)

// defaultRefreshTimeout bounds a single scheduled refresh.
const defaultRefreshTimeout = 2 * time.Minute

type State string

const (
	Stopped State = "stopped"
	Running State = "running"
	Paused  State = "paused"
)

func (s State) gaugeValue() float64 {
	switch s {
	case Running:
		return 1
	case Paused:
		return 2
	default:
		return 0
	}
}

// Fetcher is a two-phase refresh. Fetch may block on I/O without holding service locks; the
// returned apply installs the result.
type Fetcher interface {
	Fetch(ctx context.Context) (apply func(), err error)
}

// PollingController refreshes one service on a fixed interval and can be paused, resumed
// and stopped.
type PollingController struct {
	name     string
	interval time.Duration
	fetcher  Fetcher
	cron     *cron.Cron
	logger   *slog.Logger
	metrics  *Metrics

	// gate is held from the post-fetch state check through apply. Pause and Stop take it
	// before changing state, so no result is applied once they return. Acquired before mu.
	gate sync.Mutex

	mu      sync.Mutex
	state   State
	retired bool
	baseCtx context.Context
}

// NewPollingController creates a Stopped controller. metrics may be nil.
func NewPollingController(
	name string,
	interval time.Duration,
	fetcher Fetcher,
	logger *slog.Logger,
	metrics *Metrics,
) *PollingController {
	logger = logger.With("component", "polling", "service", name)
	chainLogger := cronLogger{logger: logger}

	return &PollingController{
		name:     name,
		interval: interval,
		fetcher:  fetcher,
		cron: cron.New(cron.WithLogger(chainLogger), cron.WithChain(
			cron.Recover(chainLogger),
			cron.SkipIfStillRunning(chainLogger),
		)),
		logger:  logger,
		metrics: metrics,
		state:   Stopped,
	}
}

func (c *PollingController) Name() string {
	return c.name
}

func (c *PollingController) Interval() time.Duration {
	return c.interval
}

func (c *PollingController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start performs one refresh and then schedules a refresh every interval.
// A stopped controller cannot be started again.
func (c *PollingController) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.retired {
		c.mu.Unlock()
		return fmt.Errorf("start %s: %w", c.name, ErrControllerStopped)
	}
	if c.state != Stopped {
		c.mu.Unlock()
		return fmt.Errorf("start %s: %w", c.name, ErrAlreadyStarted)
	}

	if _, err := c.cron.AddFunc(fmt.Sprintf("@every %s", c.interval), c.scheduledTick); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("schedule %s every %s: %w", c.name, c.interval, err)
	}
	c.baseCtx = context.WithoutCancel(ctx)
	c.setStateLocked(Running)
	c.mu.Unlock()

	// The first refresh error is already logged; polling goes on regardless.
	_ = c.refresh(ctx)

	c.cron.Start()
	c.logger.InfoContext(ctx, "Polling started", "interval", c.interval.String())
	return nil
}

// Pause makes scheduled ticks no-ops. The schedule keeps running. An apply already in
// progress finishes first.
func (c *PollingController) Pause(ctx context.Context) error {
	c.gate.Lock()
	defer c.gate.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Paused:
		return nil
	case Stopped:
		return fmt.Errorf("pause %s: %w", c.name, ErrControllerStopped)
	}

	c.setStateLocked(Paused)
	c.logger.InfoContext(ctx, "Polling paused")
	return nil
}

// Resume returns to Running and refreshes once before returning.
// Resuming a running controller does nothing.
func (c *PollingController) Resume(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case Running:
		c.mu.Unlock()
		return nil
	case Stopped:
		c.mu.Unlock()
		return fmt.Errorf("resume %s: %w", c.name, ErrControllerStopped)
	}
	c.setStateLocked(Running)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "Polling resumed")
	return c.refresh(ctx)
}

// Stop cancels the schedule for good and waits for a running tick to finish or ctx to expire.
// A refresh already in flight completes but its result is discarded.
func (c *PollingController) Stop(ctx context.Context) {
	c.gate.Lock()
	c.mu.Lock()
	if c.retired {
		c.mu.Unlock()
		c.gate.Unlock()
		return
	}
	c.retired = true
	c.setStateLocked(Stopped)
	c.mu.Unlock()
	c.gate.Unlock()

	select {
	case <-c.cron.Stop().Done():
	case <-ctx.Done():
		c.logger.WarnContext(ctx, "Polling stop did not wait for the running refresh", "error", ctx.Err())
	}
	c.logger.InfoContext(ctx, "Polling stopped")
}

// Tick is one scheduled invocation. It is a no-op unless the controller is Running.
func (c *PollingController) Tick(ctx context.Context) error {
	if c.State() != Running {
		c.metrics.observeTick(c.name, outcomeSkipped)
		return nil
	}
	return c.refresh(ctx)
}

func (c *PollingController) scheduledTick() {
	c.mu.Lock()
	base := c.baseCtx
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(base, defaultRefreshTimeout)
	defer cancel()

	_ = c.Tick(ctx)
}

func (c *PollingController) refresh(ctx context.Context) error {
	start := time.Now()
	apply, err := c.fetcher.Fetch(ctx)
	c.metrics.observeDuration(c.name, time.Since(start).Seconds())

	if err != nil {
		c.metrics.observeTick(c.name, outcomeFailed)
		c.logger.ErrorContext(ctx, "Polling refresh failed", "error", err)
		return err
	}

	c.gate.Lock()
	defer c.gate.Unlock()

	if state := c.State(); state != Running {
		c.metrics.observeTick(c.name, outcomeDiscarded)
		c.logger.InfoContext(ctx, "Polling refresh discarded", "state", string(state))
		return nil
	}

	apply()
	c.metrics.observeTick(c.name, outcomeApplied)
	return nil
}

func (c *PollingController) setStateLocked(state State) {
	c.state = state
	c.metrics.setState(c.name, state)
}
