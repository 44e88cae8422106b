package commands

import (
	"github.com/spf13/cobra"

	"github.com/haivivi/cwlink/pkg/audio/portaudio"
	"github.com/haivivi/cwlink/pkg/cli"
)

var devicesOutput string

// devicesCmd lists the PortAudio devices
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio devices",
	Long: `List the audio devices PortAudio can open.

Pass a device index or a name prefix to --input-device or --output-device
to use a device other than the default.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cli.ParseOutputFormat(devicesOutput)
		if err != nil {
			return err
		}
		if err := portaudio.Initialize(); err != nil {
			return err
		}
		defer portaudio.Terminate()

		if format == cli.FormatText {
			return portaudio.PrintDevices(cmd.OutOrStdout())
		}
		devices, err := portaudio.Devices()
		if err != nil {
			return err
		}
		return cli.Output(devices, cli.OutputOptions{
			Format: format,
			Writer: cmd.OutOrStdout(),
			Indent: "  ",
		})
	},
}

func init() {
	devicesCmd.Flags().StringVarP(&devicesOutput, "output", "o", "text", "output format: text, yaml or json")
}
