package portaudio

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	pa "github.com/gordonklaus/portaudio"

	"github.com/haivivi/cwlink/pkg/audio/pcm"
)

// ErrStreamClosed is returned by operations on a closed stream.
var ErrStreamClosed = errors.New("portaudio: stream closed")

func open(name string, input bool, buf []float32) (*pa.Stream, error) {
	info, err := lookup(name, input)
	if err != nil {
		return nil, err
	}
	f := pcm.F32Mono44K
	var p pa.StreamParameters
	if input {
		p = pa.HighLatencyParameters(info, nil)
		p.Input.Channels = f.Channels()
		p.Output.Channels = 0
	} else {
		p = pa.HighLatencyParameters(nil, info)
		p.Input.Channels = 0
		p.Output.Channels = f.Channels()
	}
	p.SampleRate = float64(f.SampleRate())
	p.FramesPerBuffer = pcm.FrameSamples

	s, err := pa.OpenStream(p, buf)
	if err != nil {
		return nil, fmt.Errorf("portaudio: open %s: %w", info.Name, err)
	}
	return s, nil
}

// InputStream captures frames from an input device.
type InputStream struct {
	stream *pa.Stream
	buf    []float32
	mu     sync.Mutex
	closed bool
}

// NewInputStream opens the named input device, or the default one when name
// is empty. The stream is created stopped.
func NewInputStream(name string) (*InputStream, error) {
	buf := make([]float32, pcm.FrameSamples)
	s, err := open(name, true, buf)
	if err != nil {
		return nil, err
	}
	return &InputStream{stream: s, buf: buf}, nil
}

// Start starts capturing.
func (is *InputStream) Start() error {
	is.mu.Lock()
	defer is.mu.Unlock()
	if is.closed {
		return ErrStreamClosed
	}
	return is.stream.Start()
}

// Stop stops capturing.
func (is *InputStream) Stop() error {
	is.mu.Lock()
	defer is.mu.Unlock()
	if is.closed {
		return nil
	}
	return is.stream.Stop()
}

// ReadFrame blocks until one frame has been captured. Input overflow is
// reported by PortAudio when the reader falls behind; the frame is still
// valid so it is not treated as an error.
func (is *InputStream) ReadFrame(f *pcm.Frame) error {
	is.mu.Lock()
	defer is.mu.Unlock()
	if is.closed {
		return ErrStreamClosed
	}
	if err := is.stream.Read(); err != nil && !errors.Is(err, pa.InputOverflowed) {
		return err
	}
	copy(f[:], is.buf)
	return nil
}

// Format returns the PCM format.
func (is *InputStream) Format() pcm.Format {
	return pcm.F32Mono44K
}

// Close stops and closes the stream.
func (is *InputStream) Close() error {
	is.mu.Lock()
	defer is.mu.Unlock()
	if is.closed {
		return nil
	}
	is.closed = true
	return is.stream.Close()
}

// OutputStream plays frames to an output device. It starts stopped; the
// bridge starts it on the first frame to play and stops it on mute.
type OutputStream struct {
	stream *pa.Stream
	buf    []float32
	active atomic.Bool
	mu     sync.Mutex
	closed bool
}

// NewOutputStream opens the named output device, or the default one when
// name is empty.
func NewOutputStream(name string) (*OutputStream, error) {
	buf := make([]float32, pcm.FrameSamples)
	s, err := open(name, false, buf)
	if err != nil {
		return nil, err
	}
	return &OutputStream{stream: s, buf: buf}, nil
}

// Start starts playback.
func (o *OutputStream) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrStreamClosed
	}
	if o.active.Load() {
		return nil
	}
	if err := o.stream.Start(); err != nil {
		return err
	}
	o.active.Store(true)
	return nil
}

// Stop stops playback after the queued audio has played.
func (o *OutputStream) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || !o.active.Load() {
		return nil
	}
	o.active.Store(false)
	return o.stream.Stop()
}

// Active reports whether playback is running.
func (o *OutputStream) Active() bool {
	return o.active.Load()
}

// WriteFrame blocks until PortAudio has accepted f. Output underflow means
// the device ran dry before this write and is not an error.
func (o *OutputStream) WriteFrame(f *pcm.Frame) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrStreamClosed
	}
	copy(o.buf, f[:])
	if err := o.stream.Write(); err != nil && !errors.Is(err, pa.OutputUnderflowed) {
		return err
	}
	return nil
}

// Format returns the PCM format.
func (o *OutputStream) Format() pcm.Format {
	return pcm.F32Mono44K
}

// Close stops and closes the stream.
func (o *OutputStream) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	o.active.Store(false)
	return o.stream.Close()
}
