// Package buffer provides a thread-safe ring buffer that keeps a sliding
// window of the most recent items.
//
// The terminal console uses it to hold the last log lines while the screen
// is owned by the frame renderer:
//
//	rb := buffer.RingN[string](200)
//	rb.Add("bridge: connected")
//	lines := rb.Last(10)
package buffer
