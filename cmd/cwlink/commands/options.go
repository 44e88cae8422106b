package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/haivivi/cwlink/pkg/cli"
	"github.com/haivivi/cwlink/pkg/keyer"
)

// recordAuto names a recording after the session in the recordings dir.
const recordAuto = "auto"

// runOptions is the station configuration after merging the context and the
// command-line flags.
type runOptions struct {
	Console      string
	Audio        string
	InputDevice  string
	OutputDevice string
	Monitor      string
	Record       string
	Bind         string
	Speed        int
	Frequency    int
	Prime        int
}

func defaultRunOptions() runOptions {
	return runOptions{
		Console:   "window",
		Audio:     "portaudio",
		Speed:     keyer.DefaultSpeed,
		Frequency: keyer.DefaultFrequency,
	}
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("console", "", "operator console: window, terminal or none")
	f.String("audio", "", "audio backend: portaudio or null")
	f.String("input-device", "", "input device index or name prefix (default device if empty)")
	f.String("output-device", "", "output device index or name prefix (default device if empty)")
	f.String("monitor", "", "serve the status API on this address, e.g. 127.0.0.1:8089")
	f.String("record", "", `record peer audio to this WAV file ("auto" for the recordings dir)`)
	f.String("bind", "", "listen address for the server (default all interfaces)")
	f.Int("speed", 0, fmt.Sprintf("keyer speed in WPM (%d-%d)", keyer.MinSpeed, keyer.MaxSpeed))
	f.Int("freq", 0, fmt.Sprintf("tone frequency in Hz (%d-%d)", keyer.MinFrequency, keyer.MaxFrequency))
	f.Int("prime", 0, "silent frames written before local sidetone")
}

// resolveRunOptions applies the context and then the changed flags to the
// defaults. Either may be nil.
func resolveRunOptions(ctx *cli.Context, flags *pflag.FlagSet) (runOptions, error) {
	o := defaultRunOptions()
	if ctx != nil {
		setString(&o.Console, ctx.Console)
		setString(&o.Audio, ctx.Audio)
		setString(&o.InputDevice, ctx.InputDevice)
		setString(&o.OutputDevice, ctx.OutputDevice)
		setString(&o.Monitor, ctx.Monitor)
		setString(&o.Record, ctx.Record)
		setInt(&o.Speed, ctx.Speed)
		setInt(&o.Frequency, ctx.Frequency)
		setInt(&o.Prime, ctx.SidetonePrime)
	}

	var err error
	strFlag := func(name string, dst *string) {
		if err == nil && flags != nil && flags.Changed(name) {
			*dst, err = flags.GetString(name)
		}
	}
	intFlag := func(name string, dst *int) {
		if err == nil && flags != nil && flags.Changed(name) {
			*dst, err = flags.GetInt(name)
		}
	}
	strFlag("console", &o.Console)
	strFlag("audio", &o.Audio)
	strFlag("input-device", &o.InputDevice)
	strFlag("output-device", &o.OutputDevice)
	strFlag("monitor", &o.Monitor)
	strFlag("record", &o.Record)
	strFlag("bind", &o.Bind)
	intFlag("speed", &o.Speed)
	intFlag("freq", &o.Frequency)
	intFlag("prime", &o.Prime)
	if err != nil {
		return o, err
	}

	if !slices.Contains(cli.Consoles, o.Console) {
		return o, fmt.Errorf("console: %q is not one of %v", o.Console, cli.Consoles)
	}
	if !slices.Contains(cli.AudioBackends, o.Audio) {
		return o, fmt.Errorf("audio: %q is not one of %v", o.Audio, cli.AudioBackends)
	}
	if o.Prime < 0 {
		return o, fmt.Errorf("prime: %d is negative", o.Prime)
	}
	return o, nil
}

// keyerConfig returns the starting keyer setting, clamped to its limits.
func (o runOptions) keyerConfig() keyer.Config {
	return keyer.Config{Speed: o.Speed, Frequency: o.Frequency}.Clamp()
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
