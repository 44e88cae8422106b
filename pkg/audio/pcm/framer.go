package pcm

// Framer cuts runs of samples of arbitrary length into whole Frames.
//
// Tone elements are rarely a multiple of FrameSamples long. The framer keeps
// the remainder so frame boundaries on the wire stay aligned, and Flush pads
// the final partial frame with silence.
//
// A Framer is not safe for concurrent use.
type Framer struct {
	buf []float32
}

// Push appends samples to the pending queue.
func (fr *Framer) Push(samples []float32) {
	fr.buf = append(fr.buf, samples...)
}

// Pending returns the number of queued samples.
func (fr *Framer) Pending() int {
	return len(fr.buf)
}

// Pop fills f with the next whole frame. It returns false when fewer than
// FrameSamples samples are queued.
func (fr *Framer) Pop(f *Frame) bool {
	if len(fr.buf) < FrameSamples {
		return false
	}
	copy(f[:], fr.buf[:FrameSamples])
	fr.shift(FrameSamples)
	return true
}

// Flush fills f with the remaining samples padded with zeros. It returns
// false when nothing is queued. Call Pop first to drain whole frames.
func (fr *Framer) Flush(f *Frame) bool {
	if len(fr.buf) == 0 {
		return false
	}
	n := copy(f[:], fr.buf)
	clear(f[n:])
	fr.shift(n)
	return true
}

// Reset discards all queued samples.
func (fr *Framer) Reset() {
	fr.buf = fr.buf[:0]
}

func (fr *Framer) shift(n int) {
	rest := copy(fr.buf, fr.buf[n:])
	fr.buf = fr.buf[:rest]
}
