// SPDX-License-Identifier: MPL-2.0

// Package config resolves the installer's runtime configuration. All inputs
// are environment variables with the UPKEEP_ prefix; there is no config
// file, since the installer runs once and carries no state between runs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable the installer reads.
const EnvPrefix = "UPKEEP"

// Config holds the resolved configuration for one installer run.
type Config struct {
	// Version selects the release to install: "latest" or a semantic
	// version tag. UPKEEP_VERSION.
	Version string `mapstructure:"version"`

	// InstallDir overrides the install-directory fallback chain when
	// non-empty. UPKEEP_INSTALL_DIR.
	InstallDir string `mapstructure:"install_dir"`

	// SkillsDir is the root directory companion skills are installed
	// under. UPKEEP_SKILLS_DIR.
	SkillsDir string `mapstructure:"skills_dir"`

	// NoSkills skips companion skill installation entirely.
	// UPKEEP_NO_SKILLS.
	NoSkills bool `mapstructure:"no_skills"`
}

// Load reads the environment and returns the run configuration.
func Load() (*Config, error) {
	skillsDir, err := defaultSkillsDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)

	v.SetDefault("version", "latest")
	v.SetDefault("install_dir", "")
	v.SetDefault("skills_dir", skillsDir)
	v.SetDefault("no_skills", false)

	for _, key := range []string{"version", "install_dir", "skills_dir", "no_skills"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s_%s: %w", EnvPrefix, key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment configuration: %w", err)
	}

	return &cfg, nil
}

// defaultSkillsDir is the fixed user-scoped skill location:
// $XDG_CONFIG_HOME/cargo-upkeep/skills, falling back to
// ~/.config/cargo-upkeep/skills.
func defaultSkillsDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("determining home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "cargo-upkeep", "skills"), nil
}
