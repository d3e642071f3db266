// Package config loads analyzer configuration from YAML, TOML, or JSON
// files, validates it against a schema, and merges CLI overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	koanfjson "github.com/knadh/koanf/parsers/json"
	koanftoml "github.com/knadh/koanf/parsers/toml"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds every analyzer option a config file can set.
type Config struct {
	Targets        []string `koanf:"targets"`
	Exclude        []string `koanf:"exclude"`
	RetainPatterns []string `koanf:"retain_patterns"`
	EntryPoints    []string `koanf:"entry_points"`

	Report    ReportConfig    `koanf:"report"`
	Detection DetectionConfig `koanf:"detection"`
	Android   AndroidConfig   `koanf:"android"`
	Cache     CacheConfig     `koanf:"cache"`
}

// ReportConfig controls output.
type ReportConfig struct {
	Format         string `koanf:"format"`   // terminal, json, sarif, toon
	GroupBy        string `koanf:"group_by"` // file, code, severity
	ShowCode       bool   `koanf:"show_code"`
	FailOnFindings bool   `koanf:"fail_on_findings"`
}

// DetectionConfig toggles individual detectors.
type DetectionConfig struct {
	UnusedClass       bool `koanf:"unused_class"`
	WriteOnly         bool `koanf:"write_only"`
	UnusedParam       bool `koanf:"unused_param"`
	UnusedEnumCase    bool `koanf:"unused_enum_case"`
	SealedVariant     bool `koanf:"sealed_variant"`
	RedundantOverride bool `koanf:"redundant_override"`
	IntentExtra       bool `koanf:"intent_extra"`
	UnusedResources   bool `koanf:"unused_resources"`
}

// AndroidConfig controls XML parsing and component retention.
type AndroidConfig struct {
	ParseManifest        bool     `koanf:"parse_manifest"`
	ParseLayouts         bool     `koanf:"parse_layouts"`
	AutoRetainComponents bool     `koanf:"auto_retain_components"`
	ComponentPatterns    []string `koanf:"component_patterns"`
}

// CacheConfig controls the incremental parse cache.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
}

// Default returns the defaults applied before any file or flag.
func Default() *Config {
	return &Config{
		Exclude: []string{
			"**/build/**",
			"**/generated/**",
			"**/.gradle/**",
			"**/.idea/**",
		},
		Report: ReportConfig{
			Format:   "terminal",
			GroupBy:  "file",
			ShowCode: true,
		},
		Detection: DetectionConfig{
			UnusedClass:       true,
			WriteOnly:         true,
			UnusedEnumCase:    true,
			SealedVariant:     true,
			RedundantOverride: true,
			IntentExtra:       true,
		},
		Android: AndroidConfig{
			ParseManifest:        true,
			ParseLayouts:         true,
			AutoRetainComponents: true,
			ComponentPatterns: []string{
				"*Activity", "*Fragment", "*Service", "*BroadcastReceiver",
				"*ContentProvider", "*ViewModel", "*Application", "*Worker",
			},
		},
	}
}

// defaultNames is the discovery order inside the project root.
var defaultNames = []string{
	".deadcode.yml", ".deadcode.yaml", ".deadcode.toml",
	"deadcode.yml", "deadcode.yaml", "deadcode.toml",
}

// Load reads configuration with the documented precedence: the explicit
// --config path when given, otherwise the first default-named file in the
// project root, otherwise pure defaults.
func Load(explicitPath, projectRoot string) (*Config, error) {
	path := explicitPath
	if path == "" {
		for _, name := range defaultNames {
			candidate := filepath.Join(projectRoot, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	return loadFile(cfg, path)
}

func loadFile(cfg *Config, path string) (*Config, error) {
	k := koanf.New(".")
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := validate(k.Raw()); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return koanfyaml.Parser(), nil
	case ".toml":
		return koanftoml.Parser(), nil
	case ".json":
		return koanfjson.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
}
