package main

import (
	"fmt"
	"github.com/spf13/cobra"
	"os"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "makarapreneur",
	Short:         "Makarapreneur event backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
