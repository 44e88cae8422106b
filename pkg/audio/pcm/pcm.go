package pcm

import (
	"encoding/binary"
	"errors"
	"math"
	"time"
)

const (
	// F32Mono44K represents 32-bit float samples; rate=44100; channels=1.
	// It is the only format carried on the intercom link.
	F32Mono44K Format = iota
)

const (
	// FrameSamples is the number of samples in one Frame.
	FrameSamples = 1024

	// FrameBytes is the encoded size of one Frame on the wire.
	FrameBytes = FrameSamples * 4
)

// ErrShortFrame is returned when decoding fewer than FrameBytes bytes.
var ErrShortFrame = errors.New("pcm: short frame")

// Format represents an audio format configuration.
type Format int

// SampleRate returns the sample rate in Hz for this format.
func (f Format) SampleRate() int {
	switch f {
	case F32Mono44K:
		return 44100
	}
	panic("pcm: invalid audio type")
}

// Channels returns the number of audio channels for this format.
func (f Format) Channels() int {
	switch f {
	case F32Mono44K:
		return 1
	}
	panic("pcm: invalid audio type")
}

// Depth returns the bit depth for this format.
func (f Format) Depth() int {
	switch f {
	case F32Mono44K:
		return 32
	}
	panic("pcm: invalid audio type")
}

// Samples returns the number of samples in the given number of bytes.
func (f Format) Samples(bytes int64) int64 {
	return bytes * 8 / int64(f.Channels()) / int64(f.Depth())
}

// SamplesInDuration returns the number of samples in the given duration,
// rounded to the nearest sample.
func (f Format) SamplesInDuration(d time.Duration) int64 {
	return int64(math.Round(float64(f.SampleRate()) * d.Seconds()))
}

// SamplesInSeconds returns round(rate × seconds).
func (f Format) SamplesInSeconds(seconds float64) int {
	return int(math.Round(float64(f.SampleRate()) * seconds))
}

// BytesInDuration returns the number of bytes in the given duration.
func (f Format) BytesInDuration(d time.Duration) int64 {
	return f.SamplesInDuration(d) * int64(f.Channels()) * int64(f.Depth()) / 8
}

// Duration returns the duration of the given number of bytes.
func (f Format) Duration(bytes int64) time.Duration {
	return time.Duration(f.Samples(bytes)) * time.Second / time.Duration(f.SampleRate())
}

// FrameDuration returns the playing time of one Frame.
func (f Format) FrameDuration() time.Duration {
	return f.Duration(FrameBytes)
}

// String returns a human-readable string representation of the format.
func (f Format) String() string {
	switch f {
	case F32Mono44K:
		return "audio/F32; rate=44100; channels=1"
	}
	panic("pcm: invalid audio type")
}

// Frame is the unit of audio crossing both the device and the network
// boundary.
type Frame [FrameSamples]float32

// MuteMarker is the in-band "stop your playback" signal. Every sample is
// exactly 1.0, which captured or synthesized audio never sustains for a
// whole frame.
var MuteMarker = func() Frame {
	var f Frame
	for i := range f {
		f[i] = 1
	}
	return f
}()

// IsMute reports whether every sample equals exactly 1.0.
func (f *Frame) IsMute() bool {
	for _, s := range f {
		if s != 1 {
			return false
		}
	}
	return true
}

// Clear zeroes the frame.
func (f *Frame) Clear() {
	*f = Frame{}
}

// PutBytes encodes the frame into b in native byte order. b must hold at
// least FrameBytes bytes.
func (f *Frame) PutBytes(b []byte) {
	_ = b[FrameBytes-1]
	for i, s := range f {
		binary.NativeEndian.PutUint32(b[i*4:], math.Float32bits(s))
	}
}

// SetBytes decodes FrameBytes bytes of native-order float32 samples.
func (f *Frame) SetBytes(b []byte) error {
	if len(b) < FrameBytes {
		return ErrShortFrame
	}
	for i := range f {
		f[i] = math.Float32frombits(binary.NativeEndian.Uint32(b[i*4:]))
	}
	return nil
}
