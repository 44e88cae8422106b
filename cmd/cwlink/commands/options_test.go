package commands

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/haivivi/cwlink/pkg/cli"
	"github.com/haivivi/cwlink/pkg/keyer"
)

func newFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addRunFlags(cmd)
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestResolveRunOptions_Defaults(t *testing.T) {
	o, err := resolveRunOptions(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if o != defaultRunOptions() {
		t.Errorf("got %+v, want defaults", o)
	}
	if got := o.keyerConfig(); got != keyer.DefaultConfig() {
		t.Errorf("keyerConfig() = %+v", got)
	}
}

func TestResolveRunOptions_FlagsOverrideContext(t *testing.T) {
	ctx := &cli.Context{
		Speed:       20,
		Frequency:   700,
		Console:     "terminal",
		Audio:       "null",
		InputDevice: "USB",
		Record:      "auto",
	}
	cmd := newFlagCmd(t, "--speed=25", "--console=none", "--monitor=127.0.0.1:8089", "--prime=2", "--bind=127.0.0.1")

	o, err := resolveRunOptions(ctx, cmd.Flags())
	if err != nil {
		t.Fatal(err)
	}
	want := runOptions{
		Console:     "none",
		Audio:       "null",
		InputDevice: "USB",
		Monitor:     "127.0.0.1:8089",
		Record:      "auto",
		Bind:        "127.0.0.1",
		Speed:       25,
		Frequency:   700,
		Prime:       2,
	}
	if o != want {
		t.Errorf("got %+v\nwant %+v", o, want)
	}
}

func TestResolveRunOptions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		ctx  *cli.Context
		args []string
	}{
		{"bad_console_flag", nil, []string{"--console=gui"}},
		{"bad_audio_flag", nil, []string{"--audio=alsa"}},
		{"bad_console_context", &cli.Context{Console: "gui"}, nil},
		{"negative_prime", nil, []string{"--prime=-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newFlagCmd(t, tt.args...)
			if _, err := resolveRunOptions(tt.ctx, cmd.Flags()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunOptions_KeyerConfigClamps(t *testing.T) {
	o := defaultRunOptions()
	o.Speed = 99
	o.Frequency = 100
	got := o.keyerConfig()
	if got.Speed != keyer.MaxSpeed || got.Frequency != keyer.MinFrequency {
		t.Errorf("keyerConfig() = %+v", got)
	}
}
