// Package config loads the server settings from an HCL or YAML file.
package config

import (
	"bytes"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/nlsls/pkg/nls"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultManifestPattern = "**/package.json"
	DefaultLogLevel        = "info"
)

var DefaultTriggerCharacters = []string{"%", "."}

// Config holds the server settings. Unset fields fall back to the defaults
// through the accessor methods, so a zero Config is usable.
type Config struct {
	// ManifestPattern selects manifests relative to a workspace folder
	ManifestPattern string `json:"manifest_pattern,omitempty" yaml:"manifest_pattern,omitempty" hcl:"manifest_pattern,optional"`
	// LocalizationFile is the name of the localization file next to each manifest
	LocalizationFile  string   `json:"localization_file,omitempty" yaml:"localization_file,omitempty" hcl:"localization_file,optional"`
	TriggerCharacters []string `json:"trigger_characters,omitempty" yaml:"trigger_characters,omitempty" hcl:"trigger_characters,optional"`
	Diagnostics       *bool    `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty" hcl:"diagnostics,optional"`
	Watch             *bool    `json:"watch,omitempty" yaml:"watch,omitempty" hcl:"watch,optional"`
	LogLevel          string   `json:"log_level,omitempty" yaml:"log_level,omitempty" hcl:"log_level,optional"`
}

func Default() *Config {
	return &Config{}
}

func (c *Config) GetManifestPattern() string {
	if c == nil || c.ManifestPattern == "" {
		return DefaultManifestPattern
	}
	return c.ManifestPattern
}

// ManifestName is the last segment of the manifest pattern, package.json by default.
func (c *Config) ManifestName() string {
	return path.Base(c.GetManifestPattern())
}

func (c *Config) GetLocalizationFile() string {
	if c == nil || c.LocalizationFile == "" {
		return nls.DefaultFileName
	}
	return c.LocalizationFile
}

func (c *Config) GetTriggerCharacters() []string {
	if c == nil || len(c.TriggerCharacters) == 0 {
		return append([]string{}, DefaultTriggerCharacters...)
	}
	return append([]string{}, c.TriggerCharacters...)
}

func (c *Config) DiagnosticsEnabled() bool {
	return c == nil || c.Diagnostics == nil || *c.Diagnostics
}

func (c *Config) WatchEnabled() bool {
	return c == nil || c.Watch == nil || *c.Watch
}

// Level returns the configured log level, info when unset or invalid.
func (c *Config) Level() zerolog.Level {
	if c == nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.ManifestPattern != "" && !doublestar.ValidatePattern(c.ManifestPattern) {
		result = multierror.Append(result, errors.Errorf("manifest_pattern %q is not a valid glob", c.ManifestPattern))
	}

	if c.LocalizationFile != "" {
		if strings.ContainsAny(c.LocalizationFile, `/\`) {
			result = multierror.Append(result, errors.Errorf("localization_file %q must be a file name, not a path", c.LocalizationFile))
		} else if filepath.Ext(c.LocalizationFile) != ".json" {
			result = multierror.Append(result, errors.Errorf("localization_file %q must be a .json file", c.LocalizationFile))
		}
	}

	for i, ch := range c.TriggerCharacters {
		if len([]rune(ch)) != 1 {
			result = multierror.Append(result, errors.Errorf("trigger_characters[%d] %q must be a single character", i, ch))
		}
	}

	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			result = multierror.Append(result, errors.Errorf("log_level %q: %w", c.LogLevel, err))
		}
	}

	return result.ErrorOrNil()
}

// Load reads the config at path from fsys. YAML is used for .yaml and .yml
// files, HCL for everything else. An empty path returns the defaults.
func Load(fsys afero.Fs, path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg *Config
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		cfg, err = parseYAML(data)
	} else {
		cfg, err = parseHCL(data, path)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating %s: %w", path, err)
	}

	return cfg, nil
}

func parseYAML(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		// an empty document is the default config
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

func parseHCL(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, evalContext(), &cfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &cfg, nil
}

// evalContext exposes the process environment as env.NAME and the built in
// defaults as default.NAME.
func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !hclsyntax.ValidIdentifier(k) {
			continue
		}
		env[k] = cty.StringVal(v)
	}

	triggers := make([]cty.Value, 0, len(DefaultTriggerCharacters))
	for _, ch := range DefaultTriggerCharacters {
		triggers = append(triggers, cty.StringVal(ch))
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
			"default": cty.ObjectVal(map[string]cty.Value{
				"manifest_pattern":   cty.StringVal(DefaultManifestPattern),
				"localization_file":  cty.StringVal(nls.DefaultFileName),
				"trigger_characters": cty.ListVal(triggers),
				"log_level":          cty.StringVal(DefaultLogLevel),
			}),
		},
	}
}
