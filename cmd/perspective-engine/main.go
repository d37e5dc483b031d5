// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the perspective-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/perspective-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .env and .secrets/ at startup.
var loadedSecrets secrets.Store

// rootCmd is the base command for the perspective-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "perspective-engine",
	Short: "Turn interview transcripts into referenced perspective articles",
	Long: `perspective-engine runs a literature-backed scientific writing pipeline:
it searches PubMed for candidate references, drafts a perspective article
from an interview transcript, inserts and resolves citation markers,
reviews narrative flow, and ranks supporting references per key sentence.

Each stage is a subcommand (search, analyze, draft, mark, match, review,
improve, rank, papers); pipeline composes them into a full run.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env first so the secrets directory can override it.
		godotenv.Load()
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./perspective-engine.yaml or ~/.config/perspective-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("perspective-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "perspective-engine"))
		}
	}

	viper.SetEnvPrefix("PERSPECTIVE_ENGINE")
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
