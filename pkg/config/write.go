package config

import (
	"fmt"
	"os"

	gotoml "github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// starter is the config skeleton `deadwood init` writes.
type starter struct {
	Targets        []string       `yaml:"targets" toml:"targets"`
	Exclude        []string       `yaml:"exclude" toml:"exclude"`
	RetainPatterns []string       `yaml:"retain_patterns" toml:"retain_patterns"`
	EntryPoints    []string       `yaml:"entry_points" toml:"entry_points"`
	Report         map[string]any `yaml:"report" toml:"report"`
	Android        map[string]any `yaml:"android" toml:"android"`
}

func starterFrom(cfg *Config) starter {
	return starter{
		Targets:        []string{"app/src/main"},
		Exclude:        cfg.Exclude,
		RetainPatterns: []string{},
		EntryPoints:    []string{},
		Report: map[string]any{
			"format":   cfg.Report.Format,
			"group_by": cfg.Report.GroupBy,
		},
		Android: map[string]any{
			"parse_manifest":         cfg.Android.ParseManifest,
			"parse_layouts":          cfg.Android.ParseLayouts,
			"auto_retain_components": cfg.Android.AutoRetainComponents,
			"component_patterns":     cfg.Android.ComponentPatterns,
		},
	}
}

// WriteStarter writes a starter config file; asTOML picks the encoding
// (TOML via go-toml when true, YAML otherwise), whatever the extension.
func WriteStarter(path string, asTOML bool) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	s := starterFrom(Default())

	var data []byte
	var err error
	if asTOML {
		data, err = gotoml.Marshal(s)
	} else {
		data, err = yaml.Marshal(s)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
