// Package portaudio opens the capture and playback devices used by the
// bridge through PortAudio.
//
// Streams are blocking: ReadFrame returns once a full 1024-sample frame has
// been captured and WriteFrame returns once PortAudio has accepted one.
// Requires the portaudio library installed via pkg-config
// (apt install portaudio19-dev, brew install portaudio).
package portaudio

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	pa "github.com/gordonklaus/portaudio"
)

var (
	initMu  sync.Mutex
	initCnt int
)

// Initialize initializes the PortAudio library. Each successful call must be
// paired with Terminate.
func Initialize() error {
	initMu.Lock()
	defer initMu.Unlock()
	if err := pa.Initialize(); err != nil {
		return fmt.Errorf("portaudio: initialize: %w", err)
	}
	initCnt++
	return nil
}

// Terminate releases one Initialize.
func Terminate() error {
	initMu.Lock()
	defer initMu.Unlock()
	if initCnt == 0 {
		return nil
	}
	initCnt--
	return pa.Terminate()
}

// DeviceInfo describes an audio device.
type DeviceInfo struct {
	Index             int     `json:"index" yaml:"index"`
	Name              string  `json:"name" yaml:"name"`
	HostAPI           string  `json:"host_api" yaml:"host_api"`
	MaxInputChannels  int     `json:"max_input_channels" yaml:"max_input_channels"`
	MaxOutputChannels int     `json:"max_output_channels" yaml:"max_output_channels"`
	DefaultSampleRate float64 `json:"default_sample_rate" yaml:"default_sample_rate"`
	HighInputLatency  string  `json:"high_input_latency,omitempty" yaml:"high_input_latency,omitempty"`
	HighOutputLatency string  `json:"high_output_latency,omitempty" yaml:"high_output_latency,omitempty"`
	IsDefaultInput    bool    `json:"default_input,omitempty" yaml:"default_input,omitempty"`
	IsDefaultOutput   bool    `json:"default_output,omitempty" yaml:"default_output,omitempty"`
}

// Devices returns the available audio devices. Initialize must have been
// called.
func Devices() ([]DeviceInfo, error) {
	devices, err := pa.Devices()
	if err != nil {
		return nil, fmt.Errorf("portaudio: list devices: %w", err)
	}
	var defIn, defOut = -1, -1
	if d, err := pa.DefaultInputDevice(); err == nil {
		defIn = d.Index
	}
	if d, err := pa.DefaultOutputDevice(); err == nil {
		defOut = d.Index
	}

	out := make([]DeviceInfo, 0, len(devices))
	for _, d := range devices {
		info := DeviceInfo{
			Index:             d.Index,
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			MaxOutputChannels: d.MaxOutputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			IsDefaultInput:    d.Index == defIn,
			IsDefaultOutput:   d.Index == defOut,
		}
		if d.HostApi != nil {
			info.HostAPI = d.HostApi.Name
		}
		if d.MaxInputChannels > 0 {
			info.HighInputLatency = d.DefaultHighInputLatency.String()
		}
		if d.MaxOutputChannels > 0 {
			info.HighOutputLatency = d.DefaultHighOutputLatency.String()
		}
		out = append(out, info)
	}
	return out, nil
}

// PrintDevices writes a human readable device list to w.
func PrintDevices(w io.Writer) error {
	devices, err := Devices()
	if err != nil {
		return err
	}
	for _, d := range devices {
		marker := ""
		if d.IsDefaultInput {
			marker += " [DEFAULT INPUT]"
		}
		if d.IsDefaultOutput {
			marker += " [DEFAULT OUTPUT]"
		}
		fmt.Fprintf(w, "%d: %s (%s)%s\n", d.Index, d.Name, d.HostAPI, marker)
		fmt.Fprintf(w, "   Input channels: %d, Output channels: %d\n", d.MaxInputChannels, d.MaxOutputChannels)
		fmt.Fprintf(w, "   Default sample rate: %.0f Hz\n", d.DefaultSampleRate)
	}
	return nil
}

var errNoDevice = errors.New("portaudio: device not found")

// lookup resolves a device by index or name prefix. An empty name selects
// the default input or output device.
func lookup(name string, input bool) (*pa.DeviceInfo, error) {
	if name == "" {
		var (
			d   *pa.DeviceInfo
			err error
		)
		if input {
			d, err = pa.DefaultInputDevice()
		} else {
			d, err = pa.DefaultOutputDevice()
		}
		if err != nil {
			return nil, fmt.Errorf("portaudio: default device: %w", err)
		}
		return d, nil
	}
	devices, err := pa.Devices()
	if err != nil {
		return nil, fmt.Errorf("portaudio: list devices: %w", err)
	}
	d := match(devices, name, input)
	if d == nil {
		return nil, fmt.Errorf("%w: %s", errNoDevice, name)
	}
	return d, nil
}

// match picks the device whose index equals name, or the first one whose
// name starts with name. Devices without channels in the requested
// direction are skipped.
func match(devices []*pa.DeviceInfo, name string, input bool) *pa.DeviceInfo {
	usable := func(d *pa.DeviceInfo) bool {
		if input {
			return d.MaxInputChannels > 0
		}
		return d.MaxOutputChannels > 0
	}
	if i, err := strconv.Atoi(name); err == nil {
		for _, d := range devices {
			if d.Index == i && usable(d) {
				return d
			}
		}
		return nil
	}
	for _, d := range devices {
		if strings.HasPrefix(d.Name, name) && usable(d) {
			return d
		}
	}
	return nil
}
