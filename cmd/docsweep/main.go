// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docsweep CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the docsweep CLI.
var rootCmd = &cobra.Command{
	Use:   "docsweep",
	Short: "Convert office documents in a directory to PDF and CSV",
	Long: `docsweep scans a directory for office documents and converts the ones it
can into standard interchange formats next to the source: Word documents
(.docx) become PDF, Excel workbooks (.xlsx) become one CSV per sheet.

Files whose target already exists are skipped, so running docsweep repeatedly
over the same directory only converts what is new. PowerPoint files are
reported as unsupported and existing PDFs are left alone.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docsweep.yaml or ~/.config/docsweep/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "diagnostic log level: debug, info, warn, error")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docsweep")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docsweep"))
		}
	}

	viper.SetEnvPrefix("DOCSWEEP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
