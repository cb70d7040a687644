package cli

import (
	"github.com/spf13/cobra"
)

// clearCmd represents the clear command.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the clipboard",
	Long: `Clear empties the clipboard. The operation is best-effort: a failure in
the underlying tool is logged at debug level and never reported as an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		newService().Clear(cmd.Context())
		logger.Info("clipboard cleared")
		return nil
	},
}

// warmCmd represents the warm command.
var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Pre-initialize the platform clipboard helper",
	Long: `Warm primes whatever helper runtime the platform strategy depends on
(the PowerShell assembly load on Windows, the AppleScript component on macOS)
so the first real paste is not penalized by cold start. Failures are ignored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		newService().WarmUp(cmd.Context())
		logger.Info("clipboard helper warmed up")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(clearCmd)
	RootCmd.AddCommand(warmCmd)
}
