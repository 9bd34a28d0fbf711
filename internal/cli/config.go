package cli

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no config
// path is given.
const DefaultConfigFile = ".dragons.yaml"

// Config represents the settings shared by the dragons tools
type Config struct {
	Verbose     bool   `yaml:"verbose"`
	Debug       bool   `yaml:"debug"`
	Color       string `yaml:"color"`
	ShowSource  bool   `yaml:"show_source"`
	Prompt      string `yaml:"prompt"`
	InputPrompt string `yaml:"input_prompt"`
	Language    string `yaml:"language"`
	MaxDepth    int    `yaml:"max_depth"`
	ConfigFile  string `yaml:"-"`
}

// DefaultConfig returns the settings used when no config file exists
func DefaultConfig() *Config {
	return &Config{
		Color:       "auto",
		Prompt:      "dragons> ",
		InputPrompt: "? ",
	}
}

// LoadConfig loads configuration from a YAML file. An empty path means
// DefaultConfigFile; a missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigFile
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	config.ConfigFile = configPath

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return config, nil
}

// Validate checks the values a YAML file can get wrong
func (c *Config) Validate() error {
	switch c.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", c.Color)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative")
	}
	return CheckLanguage(c.Language)
}

// CheckLanguage verifies that LanguageVersion satisfies constraint. An
// empty constraint accepts any version.
func CheckLanguage(constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid language constraint %q: %w", constraint, err)
	}
	v := semver.MustParse(LanguageVersion)
	if !c.Check(v) {
		return fmt.Errorf("language %s does not satisfy %q", LanguageVersion, constraint)
	}
	return nil
}
