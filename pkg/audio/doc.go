// Package audio groups the audio sub-packages:
//
//   - pcm: the wire format, 1024-sample float32 frames at 44.1 kHz, and the
//     framer that cuts sample runs into frames
//   - portaudio: capture and playback on sound card devices
//   - nulldev: clock-paced stand-ins for headless runs and tests
//   - wavrec: WAV recording of played frames
//
// Capture and playback both move whole frames:
//
//	in, _ := portaudio.NewInputStream("")
//	in.Start()
//	var f pcm.Frame
//	in.ReadFrame(&f)
package audio
