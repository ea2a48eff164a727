package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
)

type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

var outputFormats = []OutputFormat{OutputText, OutputJSON, OutputYAML}

type Config struct {
	Schema        string       `json:"$schema,omitempty"`
	ConfigVersion string       `json:"configVersion"`
	Input         string       `json:"input,omitempty"`      // module to extract, relative to the working directory
	Conditions    []string     `json:"conditions,omitempty"` // package.json export conditions
	Exclude       []string     `json:"exclude,omitempty"`    // wildcard targets that are never followed
	OutputFormat  OutputFormat `json:"outputFormat,omitempty"`
}

var configFileName = "ts-stub.config.json"

const supportedConfigVersions = ">= 1.0, < 2.0"

// LoadConfig reads the configuration from configPath, which can be a file or
// a directory containing ts-stub.config.json. A directory without a config
// file yields an empty config.
func LoadConfig(filesystem afero.Fs, configPath string) (Config, error) {
	fileInfo, err := filesystem.Stat(configPath)
	if err != nil {
		return Config{}, err
	}

	actualPath := configPath
	if fileInfo.IsDir() {
		actualPath = filepath.Join(configPath, configFileName)
	}

	content, err := afero.ReadFile(filesystem, actualPath)
	if errors.Is(err, fs.ErrNotExist) && fileInfo.IsDir() {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}

	config, err := ParseConfig(content)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", actualPath, err)
	}
	return config, nil
}

func ParseConfig(content []byte) (Config, error) {
	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(content), &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateConfigVersion(config.ConfigVersion); err != nil {
		return Config{}, err
	}

	if config.OutputFormat != "" && !slices.Contains(outputFormats, config.OutputFormat) {
		return Config{}, fmt.Errorf("outputFormat: unsupported format '%s', expected one of text, json, yaml", config.OutputFormat)
	}

	for i, pattern := range config.Exclude {
		if err := validatePattern(pattern); err != nil {
			return Config{}, fmt.Errorf("exclude[%d]: %w", i, err)
		}
	}

	return config, nil
}

func validateConfigVersion(version string) error {
	if version == "" {
		return fmt.Errorf("configVersion is required")
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid configVersion '%s': %w", version, err)
	}
	constraint, err := semver.NewConstraint(supportedConfigVersions)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("unsupported configVersion '%s', supported versions: %s", version, supportedConfigVersions)
	}
	return nil
}

func validatePattern(pattern string) error {
	if len(pattern) >= 2 && pattern[0] == '.' && (pattern[1] == '/' || pattern[1] == '\\') {
		return fmt.Errorf("pattern '%s' starts with './' or '.\\', which is not allowed. Use paths that starts with file or directory name", pattern)
	}
	if len(pattern) >= 3 && pattern[0] == '.' && pattern[1] == '.' && (pattern[2] == '/' || pattern[2] == '\\') {
		return fmt.Errorf("pattern '%s' starts with '../' or '..\\', which is not allowed. Use paths that starts with file or directory name", pattern)
	}
	return nil
}
