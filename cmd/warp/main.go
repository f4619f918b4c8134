// Package main implements the warp CLI.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
	"golang.org/x/term"

	"warp/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "warp",
	Short: "Accelerator IR pass driver",
	Long:  `warp runs transformation passes over accelerator IR snapshots, outlining inline launch regions into standalone kernel modules`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(passesCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	configureColor()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func configureColor() {
	if env.Str("NO_COLOR") != "" {
		color.NoColor = true
		return
	}
	switch env.Str("WARP_COLOR") {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
