// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package scan

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/tracing"
)

const defaultInterval = 200 * time.Millisecond

var (
	ErrAlreadyStarted = errors.New("capture already started")
	ErrStopped        = errors.New("capture stopped")
)

// Result is one decoded code.
type Result struct {
	Text      string
	Token     string
	DecodedAt time.Time
}

// Capture polls a FrameSource and emits the first code it decodes, then
// stops reading frames until the consumer calls Ack.
type Capture struct {
	source   FrameSource
	decoder  Decoder
	interval time.Duration

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}

	paused atomic.Bool
	ack    chan struct{}

	stopOnce sync.Once
	stopErr  error

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Start launches the polling loop. The returned channel is closed when the
// loop exits, on Stop or when ctx ends.
func (c *Capture) Start(ctx context.Context) (<-chan Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return nil, ErrStopped
	}

	if c.started {
		return nil, ErrAlreadyStarted
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.started = true

	results := make(chan Result)
	go c.run(ctx, results)

	return results, nil
}

// Ack resumes intake after a result has been handled. It is a no-op when
// the loop is not paused.
func (c *Capture) Ack() {
	if c.paused.CompareAndSwap(true, false) {
		c.ack <- struct{}{}
	}
}

// Stop cancels the loop, waits for it to exit and releases the frame source.
// It is safe to call more than once and before Start.
func (c *Capture) Stop() error {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		c.stopped = true
		cancel := c.cancel
		c.mu.Unlock()

		if cancel != nil {
			cancel()
			<-c.done
		}

		c.stopErr = c.source.Close()
	})

	return c.stopErr
}

func (c *Capture) run(ctx context.Context, results chan<- Result) {
	defer close(c.done)
	defer close(results)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		text, ok := c.poll(ctx)
		if !ok {
			continue
		}

		c.paused.Store(true)

		select {
		case results <- Result{Text: text, Token: TokenFromText(text), DecodedAt: time.Now().UTC()}:
		case <-ctx.Done():
			return
		}

		select {
		case <-c.ack:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Capture) poll(ctx context.Context) (string, bool) {
	img, err := c.source.NextFrame(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoFrame) && ctx.Err() == nil {
			c.logger.Warnf("failed to read frame: %v", err)
		}
		return "", false
	}

	text, err := c.decoder.Decode(img)
	if err != nil {
		if !errors.Is(err, ErrNoCode) {
			c.logger.Warnf("failed to decode frame: %v", err)
		}
		return "", false
	}

	return text, text != ""
}

func NewCapture(source FrameSource, decoder Decoder, interval time.Duration, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Capture {
	c := new(Capture)

	c.source = source
	c.decoder = decoder
	c.interval = interval
	if c.interval <= 0 {
		c.interval = defaultInterval
	}

	c.done = make(chan struct{})
	c.ack = make(chan struct{}, 1)

	c.tracer = tracer
	c.monitor = monitor
	c.logger = logger

	return c
}
