// Package nulldev provides clock-paced capture and playback devices that
// need no sound hardware. They are used for headless runs and tests.
package nulldev

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/haivivi/cwlink/pkg/audio/pcm"
)

// ErrStopped is returned when reading or writing a stopped device.
var ErrStopped = errors.New("nulldev: device stopped")

// Capture produces one frame per Interval, like a microphone would.
type Capture struct {
	// Interval between frames. Zero means real time (1024/44100 s).
	Interval time.Duration
	// Source fills each captured frame. Nil captures silence.
	Source func(*pcm.Frame)

	mu     sync.Mutex
	ticker *time.Ticker
	done   chan struct{}
	frames atomic.Int64
}

func (c *Capture) interval() time.Duration {
	if c.Interval > 0 {
		return c.Interval
	}
	return pcm.F32Mono44K.FrameDuration()
}

// Start starts the clock.
func (c *Capture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticker != nil {
		return nil
	}
	c.ticker = time.NewTicker(c.interval())
	c.done = make(chan struct{})
	return nil
}

// Stop stops the clock and wakes a blocked ReadFrame.
func (c *Capture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticker == nil {
		return nil
	}
	c.ticker.Stop()
	close(c.done)
	c.ticker = nil
	return nil
}

// ReadFrame blocks until the next tick and fills f.
func (c *Capture) ReadFrame(f *pcm.Frame) error {
	c.mu.Lock()
	t, done := c.ticker, c.done
	c.mu.Unlock()
	if t == nil {
		return ErrStopped
	}
	select {
	case <-t.C:
	case <-done:
		return ErrStopped
	}
	if c.Source != nil {
		c.Source(f)
	} else {
		f.Clear()
	}
	c.frames.Add(1)
	return nil
}

// Frames returns the number of frames captured so far.
func (c *Capture) Frames() int64 {
	return c.frames.Load()
}

// Playback accepts frames and discards them after handing them to Sink.
type Playback struct {
	// Interval paces WriteFrame. Zero accepts frames immediately.
	Interval time.Duration
	// Sink observes every written frame. It must not retain f.
	Sink func(f *pcm.Frame)

	mu      sync.Mutex
	active  atomic.Bool
	closed  bool
	starts  atomic.Int64
	stops   atomic.Int64
	written atomic.Int64
}

// Start starts playback.
func (p *Playback) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrStopped
	}
	if p.active.CompareAndSwap(false, true) {
		p.starts.Add(1)
	}
	return nil
}

// Stop stops playback.
func (p *Playback) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active.CompareAndSwap(true, false) {
		p.stops.Add(1)
	}
	return nil
}

// Active reports whether playback is running.
func (p *Playback) Active() bool {
	return p.active.Load()
}

// WriteFrame plays f. It fails when playback is stopped, as a real stream
// would.
func (p *Playback) WriteFrame(f *pcm.Frame) error {
	if !p.active.Load() {
		return ErrStopped
	}
	if p.Interval > 0 {
		time.Sleep(p.Interval)
	}
	if p.Sink != nil {
		p.Sink(f)
	}
	p.written.Add(1)
	return nil
}

// Close stops playback for good.
func (p *Playback) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.active.Store(false)
	return nil
}

// Closed reports whether Close was called.
func (p *Playback) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Starts returns how many times playback went from stopped to active.
func (p *Playback) Starts() int64 { return p.starts.Load() }

// Stops returns how many times playback went from active to stopped.
func (p *Playback) Stops() int64 { return p.stops.Load() }

// Written returns the number of frames played.
func (p *Playback) Written() int64 { return p.written.Load() }
