// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docsweep/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent conversion passes from the journal",
	Long: `History reads the SQLite journal written by convert --journal and lists
the most recent passes, newest first. With --run it lists the per-file
results of one pass instead.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(viper.GetViper(), cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("journal.path")
		if path == "" {
			return errors.New("no journal configured (use --journal or journal.path)")
		}
		j, err := journal.Open(path)
		if err != nil {
			return err
		}
		defer j.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runID, _ := cmd.Flags().GetInt64("run")
		asJSON, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()

		if runID > 0 {
			files, err := j.Files(cmd.Context(), runID)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out, files)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "STATUS\tSOURCE\tDURATION\tDETAIL")
			for _, f := range files {
				detail := f.Error
				if detail == "" && len(f.Targets) > 0 {
					detail = fmt.Sprint(f.Targets)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Status, f.Source, f.Duration.Round(time.Millisecond), detail)
			}
			return tw.Flush()
		}

		runs, err := j.Runs(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(out, runs)
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RUN\tSTARTED\tDIR\tCONVERTED\tSKIPPED\tFAILED\tUNSUPPORTED\tPDF")
		for _, r := range runs {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
				r.ID, r.StartedAt.Local().Format(time.DateTime), r.Dir,
				r.Converted, r.Skipped, r.Failed, r.Unsupported, r.Final)
		}
		return tw.Flush()
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	historyCmd.Flags().String("journal", "", "SQLite history file written by convert --journal")
	historyCmd.Flags().Int("limit", 20, "maximum number of passes to list")
	historyCmd.Flags().Int64("run", 0, "list the files of this pass instead")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}
