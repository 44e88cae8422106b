// Package pcm defines the audio format and frame type exchanged between the
// two intercom endpoints.
//
// Audio is mono 32-bit float at 44100 Hz, cut into fixed 1024-sample frames.
// A frame is 4096 bytes on the wire in native byte order, with no header.
//
// Key types:
//   - Format: sample rate, channels, bit depth and duration helpers
//   - Frame: one 1024-sample block, with byte encoding helpers
//   - MuteMarker: the all-1.0 control frame meaning "stop your playback"
//   - Framer: cuts arbitrary sample runs into aligned frames
//
// Example usage:
//
//	var fr pcm.Framer
//	fr.Push(tone)
//
//	var f pcm.Frame
//	for fr.Pop(&f) {
//	    send(&f)
//	}
//	if fr.Flush(&f) {
//	    send(&f)
//	}
package pcm
