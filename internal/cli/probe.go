package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errSilentExit signals a non-zero exit without an error message; the
// command already printed its outcome.
var errSilentExit = errors.New("silent exit")

// probeCmd represents the probe command.
var probeCmd = &cobra.Command{
	Use:           "probe",
	SilenceErrors: true,
	Short:         "Check whether the clipboard currently holds an image",
	Long: `Probe runs the cheap, non-destructive image-presence check and reports
the result. The exit code is 0 when an image is present and 1 otherwise, so
the command can gate scripts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService()
		if svc.HasImage(cmd.Context()) {
			fmt.Fprintln(cmd.OutOrStdout(), "image")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "no image")
		return errSilentExit
	},
}

func init() {
	RootCmd.AddCommand(probeCmd)
}
