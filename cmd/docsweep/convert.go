// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docsweep/internal/logging"
)

var convertCmd = &cobra.Command{
	Use:   "convert [dir]",
	Short: "Convert the documents in a directory once",
	Long: `Convert scans the directory (default: current directory) and writes a PDF
next to every .docx and a CSV per sheet next to every .xlsx whose target does
not exist yet. Documents are rendered concurrently; workbooks are exported
while the renders run. One status line is printed per file, followed by a
summary.

Per-file failures do not change the exit status unless --strict is set.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(viper.GetViper(), cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFrom(viper.GetViper(), args)
		if err != nil {
			return err
		}
		log := logging.New(viper.GetString("log.level"), os.Stderr)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, _ := cmd.Flags().GetString("report")
		p, err := newPass(ctx, cfg, report, cmd.OutOrStdout(), log)
		if err != nil {
			return err
		}
		defer p.close()

		summary, err := p.run(ctx)
		if err != nil {
			return err
		}
		if strict, _ := cmd.Flags().GetBool("strict"); strict && summary.HasFailures() {
			return fmt.Errorf("%d of %d files failed to convert", summary.Failed, summary.Total())
		}
		return nil
	},
}

func init() {
	addPassFlags(convertCmd.Flags())
	convertCmd.Flags().String("report", "", "write a YAML summary of the pass to this file")
	convertCmd.Flags().Bool("strict", false, "exit non-zero when any file fails to convert")

	rootCmd.AddCommand(convertCmd)
}
