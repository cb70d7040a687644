package cli

import (
	"errors"
	"fmt"

	atotto "github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clipimg/clipimg/internal/config"
	"github.com/clipimg/clipimg/internal/storage"
	"github.com/clipimg/clipimg/internal/types"
)

var (
	workspaceFlag string
	markdownFlag  bool
	copyPathFlag  bool
)

// pasteCmd represents the paste command.
var pasteCmd = &cobra.Command{
	Use:   "paste",
	Short: "Save the clipboard image into the workspace and print its path",
	Long: `Paste fetches the image currently on the clipboard, writes it into the
workspace assets directory as image_<timestamp>.<format>, and prints the
resulting path. Stale images are removed according to the retention policy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPaste(cmd)
	},
}

func runPaste(cmd *cobra.Command) error {
	svc := newService()

	img, err := svc.Fetch(cmd.Context())
	if errors.Is(err, types.ErrNoImage) {
		logger.Warn("no image on the clipboard; copy an image and try again")
		return err
	}
	if err != nil {
		logger.Error("clipboard access failed", zap.Error(err))
		return err
	}

	dir, err := assetsDir(workspaceFlag)
	if err != nil {
		return err
	}
	writer := storage.NewWriter(dir, cfg.RetentionDays, logger)

	rec, err := writer.Save(img)
	if err != nil {
		logger.Error("failed to save image", zap.Error(err))
		return err
	}
	recordSave(rec)

	cutoff, removed := writer.Cleanup()
	if removed > 0 {
		pruneHistory(cutoff)
	}

	out := rec.Path
	if markdownFlag {
		out = fmt.Sprintf("![](%s)", rec.Path)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)

	if copyPathFlag {
		// Handing the path back on the clipboard replaces the image, which
		// is exactly what a paste-into-editor flow wants.
		if err := atotto.WriteAll(out); err != nil {
			logger.Warn("failed to copy path to clipboard", zap.Error(err))
		}
	}

	logger.Info("image saved",
		zap.String("path", rec.Path),
		zap.String("format", string(rec.Format)),
		zap.Int64("bytes", rec.Size))
	return nil
}

// recordSave appends to the history database. History is a convenience; a
// failure here never fails the paste.
func recordSave(rec *types.SaveRecord) {
	paths, err := config.GetPaths()
	if err != nil {
		logger.Debug("history unavailable", zap.Error(err))
		return
	}
	hist, err := storage.OpenHistory(paths.DBFile, logger)
	if err != nil {
		logger.Debug("history unavailable", zap.Error(err))
		return
	}
	defer hist.Close()
	if err := hist.Record(rec); err != nil {
		logger.Debug("failed to record save", zap.Error(err))
	}
}

func init() {
	for _, c := range []*cobra.Command{pasteCmd, RootCmd} {
		c.Flags().StringVar(&workspaceFlag, "workspace", "", "workspace root (default is the current directory)")
		c.Flags().BoolVar(&markdownFlag, "markdown", false, "print a markdown image reference instead of the bare path")
		c.Flags().BoolVar(&copyPathFlag, "copy", false, "copy the printed path back onto the clipboard")
	}
	RootCmd.AddCommand(pasteCmd)
}
