package keyer

import (
	"math"

	"github.com/haivivi/cwlink/pkg/audio/pcm"
)

// Tones holds the element buffers for one keyer setting.
type Tones struct {
	Short []float32 // one dit, 1.2/speed seconds
	Long  []float32 // one dah, 3.6/speed seconds
	Gap   []float32 // silence between elements, 1.2/speed seconds
}

// Synthesize builds the element buffers for c. Every tone starts at phase
// zero, so consecutive elements are not phase continuous.
func Synthesize(c Config) Tones {
	c = c.Clamp()
	f := pcm.F32Mono44K
	speed := float64(c.Speed)
	return Tones{
		Short: sine(f.SamplesInSeconds(1.2/speed), c.Frequency, f.SampleRate()),
		Long:  sine(f.SamplesInSeconds(3.6/speed), c.Frequency, f.SampleRate()),
		Gap:   make([]float32, f.SamplesInSeconds(1.2/speed)),
	}
}

// Dit returns a dit followed by the element gap.
func (t Tones) Dit() []float32 {
	return concat(t.Short, t.Gap)
}

// Dah returns a dah followed by the element gap.
func (t Tones) Dah() []float32 {
	return concat(t.Long, t.Gap)
}

func sine(n, freq, rate int) []float32 {
	out := make([]float32, n)
	step := 2 * math.Pi * float64(freq) / float64(rate)
	for i := range out {
		out[i] = float32(math.Sin(step * float64(i)))
	}
	return out
}

func concat(a, b []float32) []float32 {
	out := make([]float32, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
