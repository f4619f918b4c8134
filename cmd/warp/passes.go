package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"warp/internal/driver"
)

var passesCmd = &cobra.Command{
	Use:   "passes",
	Short: "List registered passes",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := driver.DefaultRegistry()
		nameColor := color.New(color.FgCyan, color.Bold)
		for _, name := range reg.Names() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n    %s\n", nameColor.Sprint(name), reg.Doc(name))
		}
		return nil
	},
}
