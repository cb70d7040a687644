package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clipimg/clipimg/internal/config"
	"github.com/clipimg/clipimg/internal/storage"
)

var historyLimit int

// historyCmd represents the history command.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently saved clipboard images",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := config.GetPaths()
		if err != nil {
			return err
		}
		hist, err := storage.OpenHistory(paths.DBFile, logger)
		if err != nil {
			return err
		}
		defer hist.Close()

		records, err := hist.Recent(historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no saved images")
			return nil
		}
		for _, rec := range records {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-5s %8d B  %s\n",
				rec.Created.Format("2006-01-02 15:04:05"), rec.Format, rec.Size, rec.Path)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum records to list (0 for all)")
	RootCmd.AddCommand(historyCmd)
}
