// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/walteh/seqsync/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// DefaultLoggerDirName is used when the config file does not name one
const DefaultLoggerDirName = "seqsync"

// AppName is the directory name looked up under the user config home
const AppName = "seqsync"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔧 CopyDefaults holds copy settings applied before command line flags
type CopyDefaults struct {
	Ignore   []string `json:"ignore,omitempty" yaml:"ignore,omitempty" toml:"ignore"`
	Parallel int      `json:"parallel,omitempty" yaml:"parallel,omitempty" toml:"parallel"`
	Policy   string   `json:"policy,omitempty" yaml:"policy,omitempty" toml:"policy"`
}

// 📚 Config represents the complete configuration
type Config struct {
	// LoggerDirName names the directory under the home directory that
	// receives daily log files, without the leading dot.
	LoggerDirName string        `json:"logger_dir_name" yaml:"logger_dir_name" toml:"logger_dir_name"`
	Copy          *CopyDefaults `json:"copy,omitempty" yaml:"copy,omitempty" toml:"copy"`
}

// 🏭 Default returns the configuration used when no file is found
func Default() *Config {
	return &Config{LoggerDirName: DefaultLoggerDirName}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Discover finds the config file under the user config directories,
// trying every registered extension. It returns "" when there is none.
func Discover() string {
	for _, name := range []string{"config.json", "config.yaml", "config.yml", "config.hcl", "config.toml"} {
		if path, err := xdg.SearchConfigFile(filepath.Join(AppName, name)); err == nil {
			return path
		}
	}
	return ""
}

// 🎯 Resolve loads path when given, otherwise the discovered config file,
// otherwise the defaults.
func Resolve(ctx context.Context, path string) (*Config, error) {
	if path == "" {
		path = Discover()
	}
	if path == "" {
		zerolog.Ctx(ctx).Debug().Msg("no config file found, using defaults")
		return Default(), nil
	}
	return Load(ctx, path)
}

// 🔍 Validate checks if the configuration is valid and fills in defaults
func (cfg *Config) Validate() error {
	cfg.LoggerDirName = strings.TrimPrefix(strings.TrimSpace(cfg.LoggerDirName), ".")
	if cfg.LoggerDirName == "" {
		cfg.LoggerDirName = DefaultLoggerDirName
	}
	if strings.ContainsAny(cfg.LoggerDirName, `/\`) || cfg.LoggerDirName == ".." {
		return errors.Errorf("logger_dir_name must be a plain directory name: %q", cfg.LoggerDirName)
	}

	if cfg.Copy != nil {
		if cfg.Copy.Parallel < 0 {
			return errors.Errorf("copy.parallel must not be negative: %d", cfg.Copy.Parallel)
		}
		if cfg.Copy.Policy != "" {
			if _, err := operation.ParseFailurePolicy(cfg.Copy.Policy); err != nil {
				return errors.Errorf("copy.policy must be best-effort or fail-fast: %w", err)
			}
		}
	}

	return nil
}

// 📂 LogDir returns the directory receiving log files, below home
func (cfg *Config) LogDir(home string) string {
	return filepath.Join(home, "."+cfg.LoggerDirName)
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	if cfg.Copy == nil {
		return fmt.Sprintf("logs: ~/.%s", cfg.LoggerDirName)
	}
	return fmt.Sprintf("logs: ~/.%s, parallel: %d, policy: %s, ignore: %v",
		cfg.LoggerDirName, cfg.Copy.Parallel, cfg.Copy.Policy, cfg.Copy.Ignore)
}
