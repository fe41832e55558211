// Package main provides the entry point for the translation gateway admin CLI tool.
package main

import (
	"fmt"
	"os"

	"translategw/cmd/gwctl/commands"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gwctl",
		Short: "Translation Gateway Administration Tool",
		Long: `Translation Gateway Administration Tool

A CLI for operating a running translation gateway.
Provides commands for health checks, warming the upstream client, and
issuing translations from the command line.`,

		Run: func(cmd *cobra.Command, _ []string) {
			// Show help if no subcommand provided
			if err := cmd.Help(); err != nil {
				fmt.Printf("Error showing help: %v\n", err)
			}
		},
	}

	rootCmd.PersistentFlags().String("addr", commands.DefaultGatewayAddr, "base URL of the gateway")

	rootCmd.AddCommand(commands.HealthCmd())
	rootCmd.AddCommand(commands.WarmCmd())
	rootCmd.AddCommand(commands.TranslateCmd())
	rootCmd.AddCommand(commands.VersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
