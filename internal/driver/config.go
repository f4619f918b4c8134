package driver

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"
)

// Manifest is a warp.toml pipeline definition.
type Manifest struct {
	Pipeline PipelineSection `toml:"pipeline"`
	Output   OutputSection   `toml:"output"`
}

// PipelineSection lists the passes to run, in order.
type PipelineSection struct {
	Passes []string `toml:"passes"`
}

// OutputSection configures where the transformed snapshot is written.
type OutputSection struct {
	Path string `toml:"path"`
}

// DefaultManifest returns the pipeline used when no warp.toml is given:
// just the outlining pass.
func DefaultManifest() Manifest {
	var m Manifest
	m.Pipeline.Passes = []string{"gpu-outline-kernels"}
	return m
}

// LoadManifest parses a warp.toml file. A missing [pipeline] section falls
// back to the default pass list. The WARP_PASSES environment variable
// (comma-separated) overrides the manifest.
func LoadManifest(path string) (Manifest, error) {
	m := DefaultManifest()
	if path != "" {
		var cfg Manifest
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if meta.IsDefined("pipeline", "passes") {
			m.Pipeline.Passes = cfg.Pipeline.Passes
		}
		if meta.IsDefined("output", "path") {
			m.Output.Path = cfg.Output.Path
		}
	}
	if override := env.Str("WARP_PASSES"); override != "" {
		var passes []string
		for _, p := range strings.Split(override, ",") {
			if p = strings.TrimSpace(p); p != "" {
				passes = append(passes, p)
			}
		}
		m.Pipeline.Passes = passes
	}
	return m, nil
}

// FindManifest returns path when set, otherwise warp.toml in the current
// directory when present, otherwise "".
func FindManifest(path string) string {
	if path != "" {
		return path
	}
	if _, err := os.Stat("warp.toml"); err == nil {
		return "warp.toml"
	}
	return ""
}
