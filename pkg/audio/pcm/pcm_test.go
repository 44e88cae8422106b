package pcm

import (
	"math"
	"testing"
	"time"
)

func TestFormat_F32Mono44K(t *testing.T) {
	f := F32Mono44K
	if got := f.SampleRate(); got != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", got)
	}
	if got := f.Channels(); got != 1 {
		t.Errorf("Channels() = %d, want 1", got)
	}
	if got := f.Depth(); got != 32 {
		t.Errorf("Depth() = %d, want 32", got)
	}
	if got := f.Samples(FrameBytes); got != FrameSamples {
		t.Errorf("Samples(%d) = %d, want %d", FrameBytes, got, FrameSamples)
	}
	if got := f.BytesInDuration(time.Second); got != 44100*4 {
		t.Errorf("BytesInDuration(1s) = %d, want %d", got, 44100*4)
	}
	want := time.Duration(FrameSamples) * time.Second / 44100
	if got := f.FrameDuration(); got != want {
		t.Errorf("FrameDuration() = %v, want %v", got, want)
	}
}

func TestFormat_SamplesInSeconds(t *testing.T) {
	tests := []struct {
		seconds float64
		want    int
	}{
		{0, 0},
		{1, 44100},
		{1.2 / 15, 3528},
		{3.6 / 15, 10584},
		{1.2 / 7, 7560},
	}
	for _, tt := range tests {
		if got := F32Mono44K.SamplesInSeconds(tt.seconds); got != tt.want {
			t.Errorf("SamplesInSeconds(%v) = %d, want %d", tt.seconds, got, tt.want)
		}
	}
}

func TestMuteMarker(t *testing.T) {
	m := MuteMarker
	if !m.IsMute() {
		t.Fatal("MuteMarker.IsMute() = false")
	}

	var silence Frame
	if silence.IsMute() {
		t.Error("silence is a mute marker")
	}

	almost := MuteMarker
	almost[FrameSamples-1] = math.Nextafter32(1, 0)
	if almost.IsMute() {
		t.Error("frame with one sample below 1.0 is a mute marker")
	}

	var peak Frame
	for i := range peak {
		peak[i] = float32(math.Sin(2 * math.Pi * float64(i) / 4))
	}
	if peak.IsMute() {
		t.Error("full-scale sine is a mute marker")
	}
}

func TestFrame_Bytes(t *testing.T) {
	var f Frame
	for i := range f {
		f[i] = float32(i)/FrameSamples*2 - 1
	}
	f[7] = 1
	f[8] = float32(math.Inf(-1))

	buf := make([]byte, FrameBytes)
	f.PutBytes(buf)

	var got Frame
	if err := got.SetBytes(buf); err != nil {
		t.Fatalf("SetBytes: %v", err)
	}
	for i := range f {
		if math.Float32bits(got[i]) != math.Float32bits(f[i]) {
			t.Fatalf("sample %d = %v, want %v", i, got[i], f[i])
		}
	}

	if err := got.SetBytes(buf[:FrameBytes-1]); err != ErrShortFrame {
		t.Errorf("SetBytes(short) = %v, want ErrShortFrame", err)
	}
}

func TestFrame_MuteMarkerBytes(t *testing.T) {
	buf := make([]byte, FrameBytes)
	m := MuteMarker
	m.PutBytes(buf)

	var got Frame
	if err := got.SetBytes(buf); err != nil {
		t.Fatal(err)
	}
	if !got.IsMute() {
		t.Error("decoded mute marker is not mute")
	}
}

func TestFrame_Clear(t *testing.T) {
	f := MuteMarker
	f.Clear()
	for i, s := range f {
		if s != 0 {
			t.Fatalf("sample %d = %v after Clear", i, s)
		}
	}
}
