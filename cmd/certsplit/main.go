// Copyright VeeTech Ltd., 2026. All rights reserved.

// Package main is the entry point for the certsplit CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the certsplit CLI.
var rootCmd = &cobra.Command{
	Use:   "certsplit",
	Short: "Split scanned certificate bundles into per-certificate PDFs",
	Long: `certsplit takes a scanned PDF bundle of calibration and test
certificates, finds where each certificate starts, extracts its metadata
(tag number, serial number, due date, certificate type), and writes one
named PDF per certificate.

Each operation is a subcommand: process runs the split pipeline, profile
prints or saves the pattern profile driving detection and extraction, and
history lists recent runs from the ledger.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./certsplit.yaml or ~/.config/certsplit/certsplit.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("certsplit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "certsplit"))
		}
	}

	viper.SetEnvPrefix("CERTSPLIT")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
