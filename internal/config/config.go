// Package config loads the effective configuration a check runs with:
// per-rule severity/options overrides, the scope hierarchy, and the two
// failure-threshold knobs, from multiple sources with the following
// priority (highest to lowest):
//  1. CLI flags (applied by the caller, not this package)
//  2. Environment variables (MARKUPLINT_* prefix)
//  3. Config file (closest .markuplint.toml or markuplint.toml)
//  4. Built-in defaults
//
// Config file discovery follows a cascading pattern similar to Ruff:
// starting from the target file's directory, walk up the filesystem
// until a config file is found. The closest config wins (no merging).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tinovyatkin/markuplint/internal/rules"
	"github.com/tinovyatkin/markuplint/internal/scope"
)

// ConfigFileNames defines the config file names to search for, in priority order.
var ConfigFileNames = []string{".markuplint.toml", "markuplint.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "MARKUPLINT_"

// RuleSetting is one rule's override, as authored in TOML: a severity
// string ("error" | "warning" | "info" | "off") plus arbitrary
// rule-specific options, matching the public API's `{severity, options}`
// per-rule shape directly.
type RuleSetting struct {
	Severity string         `koanf:"severity"`
	Message  string         `koanf:"message"`
	Options  map[string]any `koanf:",remain"`
}

// ScopeSetting is one scope overlay, as authored in TOML. At most one of
// Element, Files, or Components should be set.
type ScopeSetting struct {
	ID          string                 `koanf:"id"`
	Name        string                 `koanf:"name"`
	Description string                 `koanf:"description"`
	ParentID    string                 `koanf:"parent"`
	Element     string                 `koanf:"element"`
	Files       string                 `koanf:"files"`
	Components  []string               `koanf:"components"`
	Enabled     bool                   `koanf:"enabled"`
	Rules       map[string]RuleSetting `koanf:"rules"`
}

// Config is the complete effective configuration for a check, per the
// public API's `{rules, scopes, failOnWarnings, maxWarnings}` shape.
type Config struct {
	Rules map[string]RuleSetting `koanf:"rules"`
	Scopes []ScopeSetting `koanf:"scopes"`

	FailOnWarnings bool `koanf:"fail-on-warnings"`
	MaxWarnings    int  `koanf:"max-warnings"`

	// ConfigFile is the path to the config file that was loaded (if any).
	// This is metadata, not loaded from config.
	ConfigFile string `koanf:"-"`
}

// Default returns the default configuration: no rule overrides, no
// scopes, warnings never fail a build.
func Default() *Config {
	return &Config{
		Rules:          map[string]RuleSetting{},
		FailOnWarnings: false,
		MaxWarnings:    0,
	}
}

// Load loads configuration for a target file path. It discovers the
// closest config file, loads it, and applies environment variable
// overrides.
func Load(targetPath string) (*Config, error) {
	return loadWithConfigPath(Discover(targetPath))
}

// LoadFromFile loads configuration from a specific config file path.
// Unlike Load, it does not perform config discovery.
func LoadFromFile(configPath string) (*Config, error) {
	return loadWithConfigPath(configPath)
}

func loadWithConfigPath(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}

	// MARKUPLINT_FAIL_ON_WARNINGS -> fail-on-warnings
	// MARKUPLINT_MAX_WARNINGS -> max-warnings
	if err := k.Load(env.Provider(EnvPrefix, ".", envKeyTransform), nil); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.ConfigFile = configPath
	return cfg, nil
}

// knownHyphenatedKeys maps dot-separated patterns to their hyphenated
// equivalents. Add new entries here when adding top-level keys with
// hyphenated names.
var knownHyphenatedKeys = map[string]string{
	"fail.on.warnings": "fail-on-warnings",
	"max.warnings":     "max-warnings",
}

// envKeyTransform converts environment variable names to config keys.
// MARKUPLINT_FAIL_ON_WARNINGS -> fail-on-warnings
func envKeyTransform(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", ".")
	for pattern, replacement := range knownHyphenatedKeys {
		s = strings.ReplaceAll(s, pattern, replacement)
	}
	return s
}

// Discover finds the closest config file for a target file path. It
// walks up the directory tree from the target's directory, checking for
// config files at each level. Returns empty string if no config file is
// found.
func Discover(targetPath string) string {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}

	dir := filepath.Dir(absPath)

	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if fileExists(configPath) {
				return configPath
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ToRuleConfig converts the TOML-facing RuleSetting to the scope
// package's RuleConfig, the shape Config/Resolve operate on. A blank or
// unrecognized severity string leaves Severity at its zero value
// (SeverityError) rather than erroring — a RuleSetting with only Options
// set should still author error-severity options, not silently downgrade
// the rule; a setting that wants a different severity must say so.
func (rs RuleSetting) ToRuleConfig() scope.RuleConfig {
	cfg := scope.RuleConfig{Options: rs.Options, Message: rs.Message}
	if rs.Severity != "" {
		if sev, err := rules.ParseSeverity(rs.Severity); err == nil {
			cfg.Severity = sev
		}
	}
	return cfg
}

// ToRuleConfigs converts a TOML-facing rule settings map to the scope
// package's map[string]RuleConfig shape.
func ToRuleConfigs(settings map[string]RuleSetting) map[string]scope.RuleConfig {
	out := make(map[string]scope.RuleConfig, len(settings))
	for id, rs := range settings {
		out[id] = rs.ToRuleConfig()
	}
	return out
}

// ToScope converts one TOML-facing ScopeSetting to a scope.Scope, ready
// to Register.
func (ss ScopeSetting) ToScope() scope.Scope {
	return scope.Scope{
		ID:              ss.ID,
		Name:            ss.Name,
		Description:     ss.Description,
		ParentID:        ss.ParentID,
		ElementSelector: ss.Element,
		FileGlob:        ss.Files,
		ComponentNames:  ss.Components,
		Rules:           ToRuleConfigs(ss.Rules),
		Enabled:         ss.Enabled,
	}
}

// BuildScopeRegistry registers every Config.Scopes entry into a fresh
// scope.Registry, in the order they were declared — parents must be
// declared before their children, per scope.Registry.Register's own
// contract.
func (c *Config) BuildScopeRegistry() (*scope.Registry, error) {
	reg := scope.NewRegistry()
	for _, ss := range c.Scopes {
		if err := reg.Register(ss.ToScope()); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
