// Package config defines the compile-time configuration surface listed in
// spec.md §6 and loads it from an optional rock.yaml project file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PackageType distinguishes a binary (needs `main`) from a library
// package (no entry point required).
type PackageType string

const (
	PackageBin PackageType = "bin"
	PackageLib PackageType = "lib"
)

// ProjectConfig is the `project_config` block of spec.md §6.
type ProjectConfig struct {
	Name     string `yaml:"name"`
	BasePath string `yaml:"base_path"`
}

// Config is every recognized compiler option from spec.md §6.
type Config struct {
	ProjectConfig ProjectConfig      `yaml:"project"`
	PackageType   PackageType        `yaml:"package_type"`
	Externs       map[string]string  `yaml:"externs"`
	EntryPoint    string             `yaml:"entry_point"`
	ShowTokens    bool               `yaml:"show_tokens"`
	ShowAST       bool               `yaml:"show_ast"`
	ShowHIR       bool               `yaml:"show_hir"`
	ShowIR        bool               `yaml:"show_ir"`
	ShowState     bool               `yaml:"show_state"`
	Verbose       bool               `yaml:"verbose"`
	BuildFolder   string             `yaml:"build_folder"`
	Std           bool               `yaml:"std"`
	REPL          bool               `yaml:"repl"`
}

// Default returns a Config with the defaults the original driver used: a
// binary package building into ./build, stdlib prelude included.
func Default() *Config {
	return &Config{
		PackageType: PackageBin,
		Externs:     map[string]string{},
		BuildFolder: "./build",
		Std:         true,
	}
}

// Load reads a rock.yaml project file and overlays it onto Default().
// A missing file is not an error: callers are expected to fall back to
// flag-only configuration, matching the teacher CLI's "config file is
// optional, flags are not" precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
