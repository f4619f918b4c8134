package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"warp/internal/driver"
	"warp/internal/ir"
)

var (
	outlineOutput   string
	outlineManifest string
	outlineUI       string
	outlineDump     bool
	outlineVerbose  bool
)

func init() {
	outlineCmd.Flags().StringVarP(&outlineOutput, "output", "o", "", "output snapshot path (default: overwrite input)")
	outlineCmd.Flags().StringVar(&outlineManifest, "manifest", "", "pipeline manifest (default: ./warp.toml when present)")
	outlineCmd.Flags().StringVar(&outlineUI, "ui", "auto", "progress rendering (auto|plain|fancy)")
	outlineCmd.Flags().BoolVar(&outlineDump, "dump", false, "print the transformed module to stdout")
	outlineCmd.Flags().BoolVar(&outlineVerbose, "verbose", false, "log pass timing")
}

var outlineCmd = &cobra.Command{
	Use:   "outline [flags] <snapshot.wir>",
	Short: "Run the pass pipeline over an IR snapshot",
	Long:  "Run the configured pass pipeline (by default gpu-outline-kernels) over a .wir snapshot and write the transformed snapshot back.",
	Args:  cobra.ExactArgs(1),
	RunE:  outlineExecution,
}

func outlineExecution(cmd *cobra.Command, args []string) error {
	input := args[0]
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	g, root, err := ir.DecodeModule(data)
	if err != nil {
		return err
	}

	manifest, err := driver.LoadManifest(driver.FindManifest(outlineManifest))
	if err != nil {
		return err
	}
	passes := manifest.Pipeline.Passes

	if outlineVerbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		driver.SetLogger(log)
	}

	if err := runPipeline(cmd, g, root, passes); err != nil {
		return err
	}
	if err := driver.ValidateModule(context.Background(), g, root); err != nil {
		return fmt.Errorf("transformed module failed validation: %w", err)
	}

	if outlineDump {
		if err := ir.DumpModule(os.Stdout, g, root, ir.DumpOptions{}); err != nil {
			return err
		}
	}

	out, err := ir.EncodeModule(g, root)
	if err != nil {
		return err
	}
	target := outlineOutput
	if target == "" {
		target = manifest.Output.Path
	}
	if target == "" {
		target = input
	}
	if err := os.WriteFile(target, out, 0o644); err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d passes)\n", target, len(passes))
	}
	return nil
}

func runPipeline(cmd *cobra.Command, g *ir.Graph, root ir.ModuleID, passes []string) error {
	fancy := outlineUI == "fancy" || (outlineUI == "auto" && isTerminal(os.Stdout) && len(passes) > 1)
	if fancy {
		return runPipelineWithUI(g, root, passes)
	}
	pipeline := driver.Pipeline{Registry: driver.DefaultRegistry()}
	return pipeline.Run(g, root, passes)
}
