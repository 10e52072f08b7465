// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docsweep/internal/logging"
	"github.com/pdiddy/docsweep/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Convert documents as they appear in a directory",
	Long: `Watch runs a conversion pass and then runs another whenever a .docx or
.xlsx file is created or written in the directory, until interrupted. Bursts
of changes are coalesced into one pass.`,
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

		p, err := newPass(ctx, cfg, "", cmd.OutOrStdout(), log)
		if err != nil {
			return err
		}
		defer p.close()

		debounce, _ := cmd.Flags().GetDuration("debounce")
		w := watch.New(cfg.Convert.Dir, func(ctx context.Context) error {
			_, err := p.run(ctx)
			return err
		}, watch.WithDebounce(debounce), watch.WithLogger(log))
		return w.Watch(ctx)
	},
}

func init() {
	addPassFlags(watchCmd.Flags())
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period after the last change before a pass starts")

	rootCmd.AddCommand(watchCmd)
}
