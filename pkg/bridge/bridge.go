// Package bridge runs one intercom session: it connects to the peer, streams
// keyer tone or microphone audio out, and plays the peer's audio back.
//
// After the connection is up two goroutines run. The send loop is paced by
// the capture device: every captured frame is one tick in which operator
// events are applied, the keyer is evaluated at element boundaries, and at
// most one frame is sent. The receive loop plays incoming frames and stops
// playback on the mute marker.
//
//	b := bridge.New(bridge.Config{Port: 5000}, capture, playback)
//	go b.Run(ctx)
//	b.Post(keyer.Press(keyer.KeyDit))
package bridge

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/haivivi/cwlink/pkg/audio/pcm"
	"github.com/haivivi/cwlink/pkg/keyer"
	"github.com/haivivi/cwlink/pkg/link"
)

// DefaultQuitTimeout bounds how long a quit waits for the peer to close its
// side before the connection is closed forcibly.
const DefaultQuitTimeout = 2 * time.Second

// Config describes one session.
type Config struct {
	// Port to listen on or connect to.
	Port int
	// Host to connect to. Empty makes this side the server.
	Host string
	// BindHost is the server's listen address. Empty listens on all
	// interfaces.
	BindHost string
	// Keyer is the initial speed and frequency.
	Keyer keyer.Config
	// SidetonePrime is the number of silent frames written before local
	// sidetone when playback restarts.
	SidetonePrime int
	// QuitTimeout overrides DefaultQuitTimeout when positive.
	QuitTimeout time.Duration
}

// Role returns the role selected by c.
func (c Config) Role() Role {
	if c.Host == "" {
		return RoleServer
	}
	return RoleClient
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(b *Bridge) {
		b.logger = l
	}
}

// WithRecorder tees every played peer frame to r.
func WithRecorder(r Recorder) Option {
	return func(b *Bridge) {
		b.rec = r
	}
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) Option {
	return func(b *Bridge) {
		b.sessionID = id
	}
}

// Bridge is the duplex audio pipeline of one session.
type Bridge struct {
	cfg       Config
	capture   Capture
	play      *player
	rec       Recorder
	logger    Logger
	sessionID string

	session  *Session
	settings *keyer.Settings
	machine  *keyer.Machine
	framer   pcm.Framer
	tone     pcm.Frame

	events chan keyer.Event
	done   chan struct{}

	framesSent atomic.Int64
	framesRecv atomic.Int64
	mutesSent  atomic.Int64
	mutesRecv  atomic.Int64

	recvErrMu sync.Mutex
	recvErr   error
}

// New creates a bridge. Run starts it.
func New(cfg Config, capture Capture, playback Playback, opts ...Option) *Bridge {
	b := &Bridge{
		cfg:     cfg,
		capture: capture,
		play:    &player{dev: playback},
		logger:  DefaultLogger(),
		events:  make(chan keyer.Event, 256),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.sessionID == "" {
		b.sessionID = uuid.NewString()
	}
	if b.cfg.QuitTimeout <= 0 {
		b.cfg.QuitTimeout = DefaultQuitTimeout
	}
	b.session = newSession(cfg.Role(), b.sessionID, cfg.Host, cfg.Port, link.OutboundIP())
	b.settings = keyer.NewSettings(cfg.Keyer)
	b.machine = keyer.NewMachine(keyer.WithBusy(b.play.active))
	return b
}

// Post queues an operator event without blocking. The event is dropped
// when the queue is full or Run has returned.
func (b *Bridge) Post(ev keyer.Event) {
	select {
	case <-b.done:
		return
	default:
	}
	select {
	case b.events <- ev:
	default:
		b.logger.DebugPrintf("event queue full, dropped %v", ev)
	}
}

// Done is closed when Run returns.
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

// Snapshot returns the current display state.
func (b *Bridge) Snapshot() Snapshot {
	c := b.settings.Load()
	return Snapshot{
		Role:           b.session.Role(),
		SessionID:      b.session.ID(),
		Connected:      b.session.Connected(),
		LocalAddr:      b.session.LocalAddr(),
		PeerAddr:       b.session.PeerAddr(),
		Host:           b.cfg.Host,
		Port:           b.session.Port(),
		Speed:          c.Speed,
		Frequency:      c.Frequency,
		State:          b.machine.State(),
		PlaybackActive: b.play.active(),
		FramesSent:     b.framesSent.Load(),
		FramesReceived: b.framesRecv.Load(),
		MutesSent:      b.mutesSent.Load(),
		MutesReceived:  b.mutesRecv.Load(),
	}
}

var errQuit = errors.New("bridge: quit")

// Run connects to the peer and streams until the operator quits, ctx is
// cancelled, or the peer goes away. A quit or a disconnect returns nil;
// device and connection setup failures are returned. Run may be called
// once.
func (b *Bridge) Run(ctx context.Context) error {
	defer close(b.done)

	conn, err := b.connect(ctx)
	if err != nil {
		b.play.close()
		if errors.Is(err, errQuit) {
			b.logger.InfoPrintf("quit before a peer connected")
			return nil
		}
		return err
	}
	b.session.attach(conn)
	b.logger.InfoPrintf("connected to %s (%s)", b.session.PeerAddr(), b.session.Role())

	if err := b.capture.Start(); err != nil {
		b.session.disconnect()
		conn.Close()
		b.play.close()
		return b.logger.Errorf("start capture: %w", err)
	}

	recvDone := make(chan struct{})
	go func() {
		defer close(recvDone)
		b.recvLoop(conn)
	}()

	err = b.sendLoop(ctx, conn, recvDone)
	if err != nil {
		b.session.disconnect()
		conn.Close()
	}
	<-recvDone
	if serr := b.capture.Stop(); serr != nil {
		b.logger.WarnPrintf("stop capture: %v", serr)
	}
	b.logger.InfoPrintf("session ended: sent=%d received=%d", b.framesSent.Load(), b.framesRecv.Load())

	if err != nil {
		return err
	}
	b.recvErrMu.Lock()
	defer b.recvErrMu.Unlock()
	return b.recvErr
}

type dialResult struct {
	conn *link.Conn
	err  error
}

// connect listens or dials on a helper goroutine while operator events keep
// being drained: speed and frequency apply, keying is discarded, and quit
// aborts.
func (b *Bridge) connect(ctx context.Context) (*link.Conn, error) {
	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	result := make(chan dialResult, 1)
	go func() {
		c, err := b.establish(cctx)
		result <- dialResult{c, err}
	}()

	abort := func() (*link.Conn, error) {
		cancel()
		if r := <-result; r.conn != nil {
			r.conn.Close()
		}
		return nil, errQuit
	}

	for {
		select {
		case r := <-result:
			if r.err != nil && ctx.Err() != nil {
				return nil, errQuit
			}
			return r.conn, r.err
		case ev := <-b.events:
			if ev.Key == keyer.KeyQuit && ev.Down {
				return abort()
			}
			b.settings.Apply(ev)
		case <-ctx.Done():
			return abort()
		}
	}
}

func (b *Bridge) establish(ctx context.Context) (*link.Conn, error) {
	if b.cfg.Role() == RoleClient {
		b.logger.InfoPrintf("connecting to %s:%d", b.cfg.Host, b.cfg.Port)
		c, err := link.Dial(ctx, b.cfg.Host, b.cfg.Port)
		if err != nil {
			return nil, b.logger.Errorf("connect: %w", err)
		}
		return c, nil
	}

	ln, err := link.Listen(ctx, b.cfg.BindHost, b.cfg.Port)
	if err != nil {
		return nil, b.logger.Errorf("listen: %w", err)
	}
	defer ln.Close()
	b.session.listening(ln.Addr())
	b.logger.InfoPrintf("waiting for a peer on %s (%s)", ln.Addr(), b.session.LocalAddr())

	c, err := ln.Accept(ctx)
	if err != nil {
		return nil, b.logger.Errorf("accept: %w", err)
	}
	return c, nil
}

func (b *Bridge) sendLoop(ctx context.Context, conn *link.Conn, recvDone <-chan struct{}) error {
	var mic pcm.Frame
	for {
		if err := b.capture.ReadFrame(&mic); err != nil {
			return b.logger.Errorf("read capture: %w", err)
		}
		quit := b.drainEvents()
		if !b.session.Connected() {
			b.logger.InfoPrintf("peer disconnected")
			return nil
		}
		if quit || ctx.Err() != nil {
			b.quit(conn, recvDone)
			return nil
		}
		if err := b.tick(conn, &mic); err != nil {
			if errors.Is(err, link.ErrConnection) {
				b.logger.WarnPrintf("%v", err)
				b.session.disconnect()
				conn.Close()
				return nil
			}
			return err
		}
	}
}

// drainEvents applies every queued operator event. It reports whether quit
// was requested.
func (b *Bridge) drainEvents() (quit bool) {
	for {
		select {
		case ev := <-b.events:
			switch {
			case ev.Key == keyer.KeyQuit:
				quit = quit || ev.Down
			case b.settings.Apply(ev):
				if ev.Down {
					c := b.settings.Load()
					b.logger.DebugPrintf("speed=%d frequency=%d", c.Speed, c.Frequency)
				}
			default:
				from := b.machine.State()
				if b.machine.Handle(ev) {
					b.logger.DebugPrintf("%v: %v -> %v", ev.Key, from, b.machine.State())
				}
			}
		default:
			return quit
		}
	}
}

// tick produces at most one outgoing frame. The keyer is evaluated only when
// less than a frame of tone is queued, so elements play back to back.
func (b *Bridge) tick(conn *link.Conn, mic *pcm.Frame) error {
	if b.machine.State() == keyer.Voice {
		b.framer.Reset()
		_, err := b.send(conn, mic)
		return err
	}

	if b.framer.Pending() < pcm.FrameSamples {
		out := b.machine.Next(b.settings.Load())
		switch {
		case out.Mute:
			return b.mute(conn)
		case out.Voice:
			b.framer.Reset()
			_, err := b.send(conn, mic)
			return err
		case len(out.Samples) > 0:
			b.framer.Push(out.Samples)
		}
	}

	if !b.framer.Pop(&b.tone) {
		return nil
	}
	return b.sidetone(conn)
}

// mute sends the padded tail of the last element, then one mute marker, and
// stops local playback.
func (b *Bridge) mute(conn *link.Conn) error {
	if b.framer.Flush(&b.tone) {
		if err := b.sidetone(conn); err != nil {
			return err
		}
	}
	sent, err := b.send(conn, &pcm.MuteMarker)
	if err != nil {
		return err
	}
	if sent {
		b.mutesSent.Add(1)
	}
	if err := b.play.stop(); err != nil {
		return b.logger.Errorf("stop playback: %w", err)
	}
	return nil
}

func (b *Bridge) sidetone(conn *link.Conn) error {
	if _, err := b.send(conn, &b.tone); err != nil {
		return err
	}
	if err := b.play.write(&b.tone, b.cfg.SidetonePrime); err != nil {
		return b.logger.Errorf("play sidetone: %w", err)
	}
	return nil
}

// send writes f while connected. It reports whether f went out.
func (b *Bridge) send(conn *link.Conn, f *pcm.Frame) (bool, error) {
	if !b.session.Connected() {
		return false, nil
	}
	if err := conn.Send(f); err != nil {
		return false, err
	}
	b.framesSent.Add(1)
	return true, nil
}

// quit half-closes the connection and waits for the receive loop to see the
// peer close its side.
func (b *Bridge) quit(conn *link.Conn, recvDone <-chan struct{}) {
	b.logger.InfoPrintf("quit")
	if b.session.Connected() {
		if err := conn.CloseWrite(); err != nil {
			b.logger.WarnPrintf("close write: %v", err)
		}
		b.session.disconnect()
	}
	select {
	case <-recvDone:
	case <-time.After(b.cfg.QuitTimeout):
		b.logger.WarnPrintf("peer did not close within %v", b.cfg.QuitTimeout)
		conn.Close()
	}
}

func (b *Bridge) recvLoop(conn *link.Conn) {
	defer func() {
		b.session.disconnect()
		if err := b.play.close(); err != nil {
			b.logger.WarnPrintf("close playback: %v", err)
		}
		conn.Close()
	}()

	var f pcm.Frame
	for {
		if err := conn.Recv(&f); err != nil {
			if errors.Is(err, link.ErrClosed) {
				b.logger.InfoPrintf("peer closed the connection")
			} else {
				b.logger.WarnPrintf("%v", err)
			}
			return
		}
		b.framesRecv.Add(1)

		if f.IsMute() {
			b.mutesRecv.Add(1)
			if err := b.play.stop(); err != nil {
				b.setRecvErr(b.logger.Errorf("stop playback: %w", err))
				return
			}
			continue
		}
		if err := b.play.write(&f, PeerPrime); err != nil {
			b.setRecvErr(b.logger.Errorf("play: %w", err))
			return
		}
		if b.rec != nil {
			if err := b.rec.WriteFrame(&f); err != nil {
				b.logger.WarnPrintf("record: %v", err)
				b.rec = nil
			}
		}
	}
}

func (b *Bridge) setRecvErr(err error) {
	b.recvErrMu.Lock()
	defer b.recvErrMu.Unlock()
	if b.recvErr == nil {
		b.recvErr = err
	}
}
