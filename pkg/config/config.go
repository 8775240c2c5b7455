// Package config loads the pbxpatch run configuration.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var ErrNoProjectPath = errors.New("project.path is required")

// Config represents the configuration for a patch run.
type Config struct {
	Project ConfigProject `toml:"project"`
	Add     ConfigAdd     `toml:"add"`
}

type ConfigProject struct {
	// Path locates the project.pbxproj manifest.
	Path string `toml:"path"`
	// Group is the root group receiving the new file references. Defaults
	// to the name of the enclosing .xcodeproj bundle.
	Group string `toml:"group"`
}

type ConfigAdd struct {
	// Files are the file names to register, in order.
	Files []string `toml:"files"`
}

// DefaultConfig constructs a new Config with default values.
func DefaultConfig() *Config {
	return &Config{}
}

// Load loads a Config from a file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}

	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("unknown config keys: %v", undec)
	}

	return cfg, nil
}

// Validate validates the Config and fills derivable defaults.
func (c *Config) Validate() error {
	c.Project.Path = strings.TrimSpace(c.Project.Path)
	if c.Project.Path == "" {
		return ErrNoProjectPath
	}

	c.Project.Group = strings.TrimSpace(c.Project.Group)
	if c.Project.Group == "" {
		c.Project.Group = GroupFromPath(c.Project.Path)
	}

	return nil
}

// GroupFromPath derives the root group name from a manifest path: the stem of
// the enclosing .xcodeproj bundle, if any.
func GroupFromPath(path string) string {
	for p := filepath.Clean(path); ; {
		dir, base := filepath.Split(p)
		if strings.HasSuffix(base, ".xcodeproj") {
			return strings.TrimSuffix(base, ".xcodeproj")
		}
		p = strings.TrimSuffix(dir, string(filepath.Separator))
		if p == "" || p == dir {
			return ""
		}
	}
}
