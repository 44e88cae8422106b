// Package wavrec records played frames to a 16-bit mono WAV file.
package wavrec

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/haivivi/cwlink/pkg/audio/pcm"
)

const bitDepth = 16

// ErrClosed is returned when writing to a closed recorder.
var ErrClosed = errors.New("wavrec: recorder closed")

// Recorder appends frames to a WAV file. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	file   *os.File
	enc    *wav.Encoder
	buf    *audio.IntBuffer
	frames int
	closed bool
}

// Create creates (or truncates) the WAV file at path.
func Create(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("wavrec: %w", err)
	}
	format := pcm.F32Mono44K
	return &Recorder{
		file: f,
		enc:  wav.NewEncoder(f, format.SampleRate(), bitDepth, format.Channels(), 1),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: format.Channels(), SampleRate: format.SampleRate()},
			Data:           make([]int, pcm.FrameSamples),
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteFrame appends one frame. Samples are clipped to [-1, 1].
func (r *Recorder) WriteFrame(f *pcm.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	for i, v := range f {
		r.buf.Data[i] = toInt16(v)
	}
	if err := r.enc.Write(r.buf); err != nil {
		return fmt.Errorf("wavrec: write: %w", err)
	}
	r.frames++
	return nil
}

// Frames returns the number of frames written.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Close finalizes the WAV header and closes the file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.enc.Close()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("wavrec: close: %w", err)
	}
	return nil
}

func toInt16(v float32) int {
	v = max(-1, min(1, v))
	return int(math.Round(float64(v) * math.MaxInt16))
}
