package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clipimg/clipimg/internal/types"
)

// diagnoseCmd represents the diagnose command.
var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Report clipboard state across every known format identifier",
	Long: `Diagnose runs the presence probe, a full fetch, and a sweep of all known
format identifiers on this platform, reporting byte length and success per
identifier. Use it to investigate "no image found" reports in the field.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService()
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "probe: has image = %v\n", svc.HasImage(cmd.Context()))

		img, err := svc.Fetch(cmd.Context())
		switch {
		case errors.Is(err, types.ErrNoImage):
			fmt.Fprintln(out, "fetch: no image")
		case err != nil:
			fmt.Fprintf(out, "fetch: error: %v\n", err)
		default:
			fmt.Fprintf(out, "fetch: %d bytes, format %s\n", len(img.Bytes), img.Format)
		}

		for _, r := range svc.Sweep(cmd.Context()) {
			if r.Err != nil {
				fmt.Fprintf(out, "sweep %-20s error: %v\n", r.Identifier, r.Err)
				continue
			}
			fmt.Fprintf(out, "sweep %-20s %d bytes\n", r.Identifier, r.Bytes)
		}

		logger.Debug("diagnose finished", zap.Bool("fetch_ok", err == nil))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(diagnoseCmd)
}
