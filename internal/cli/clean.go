package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clipimg/clipimg/internal/config"
	"github.com/clipimg/clipimg/internal/storage"
)

// cleanCmd represents the clean command.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete saved images older than the retention window",
	Long: `Clean applies the retention policy on demand: saved images whose filename
timestamp is older than retention_days are deleted, along with their history
records. A retention of 0 disables deletion.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.RetentionDays <= 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "retention disabled (retention_days = 0)")
			return nil
		}
		dir, err := assetsDir(workspaceFlag)
		if err != nil {
			return err
		}
		writer := storage.NewWriter(dir, cfg.RetentionDays, logger)
		cutoff, removed := writer.Cleanup()
		pruneHistory(cutoff)

		fmt.Fprintf(cmd.OutOrStdout(), "removed %d stale image(s)\n", removed)
		return nil
	},
}

// pruneHistory drops history records older than the cutoff. Best-effort like
// the file cleanup it mirrors.
func pruneHistory(cutoff time.Time) {
	paths, err := config.GetPaths()
	if err != nil {
		return
	}
	hist, err := storage.OpenHistory(paths.DBFile, logger)
	if err != nil {
		return
	}
	defer hist.Close()
	if n, err := hist.Prune(cutoff); err != nil {
		logger.Debug("history prune failed", zap.Error(err))
	} else if n > 0 {
		logger.Debug("history records pruned", zap.Int("count", n))
	}
}

func init() {
	cleanCmd.Flags().StringVar(&workspaceFlag, "workspace", "", "workspace root (default is the current directory)")
	RootCmd.AddCommand(cleanCmd)
}
