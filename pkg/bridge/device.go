package bridge

import (
	"sync"

	"github.com/haivivi/cwlink/pkg/audio/pcm"
)

// Capture is the microphone. ReadFrame blocks until one full frame has been
// captured and so paces the send loop.
type Capture interface {
	Start() error
	Stop() error
	ReadFrame(f *pcm.Frame) error
}

// Playback is the speaker. It has a stopped state distinct from active;
// writes are only valid while active. WriteFrame blocks until the device
// accepts the frame.
type Playback interface {
	Start() error
	Stop() error
	Active() bool
	WriteFrame(f *pcm.Frame) error
	Close() error
}

// Recorder receives a copy of every peer frame that is played.
type Recorder interface {
	WriteFrame(f *pcm.Frame) error
}

// PeerPrime is the number of silent frames written ahead of peer audio when
// playback restarts after a mute marker.
const PeerPrime = 4

var silence pcm.Frame

// resume starts a stopped playback device and writes prime silent frames
// ahead of the real audio.
func resume(p Playback, prime int) error {
	if p.Active() {
		return nil
	}
	if err := p.Start(); err != nil {
		return err
	}
	for range prime {
		if err := p.WriteFrame(&silence); err != nil {
			return err
		}
	}
	return nil
}

// player serializes the receive loop and the sidetone on one playback
// device, so a stop from one side cannot land between the other's resume
// and write.
type player struct {
	mu     sync.Mutex
	dev    Playback
	closed bool
}

func (p *player) write(f *pcm.Frame, prime int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	if err := resume(p.dev, prime); err != nil {
		return err
	}
	return p.dev.WriteFrame(f)
}

func (p *player) stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || !p.dev.Active() {
		return nil
	}
	return p.dev.Stop()
}

func (p *player) active() bool {
	return p.dev.Active()
}

func (p *player) close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if p.dev.Active() {
		p.dev.Stop()
	}
	return p.dev.Close()
}
