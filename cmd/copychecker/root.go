package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for CopyChecker.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copychecker",
		Short: "Proofreading tool for web page copy",
		Long: `CopyChecker proofreads the visible text of web pages and local HTML files.

It extracts the text of a page, including same-origin frames, shadow roots
and hidden elements, and reports double spaces as well as spelling and
grammar issues found by a LanguageTool-compatible service.

Reports are kept in a local history so that later scans of the same page
can be compared.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
