package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
)

// PackageJsonConfig holds the package.json fields module resolution reads.
// Exports and Imports keep document order, which decides condition matching.
type PackageJsonConfig struct {
	Dir     string
	Name    string
	Main    string
	Type    string
	Exports gjson.Result
	Imports gjson.Result
}

func (c *PackageJsonConfig) path() string {
	return filepath.Join(c.Dir, "package.json")
}

func (c *PackageJsonConfig) hasExports() bool {
	return c.Exports.Exists() && c.Exports.Type != gjson.Null
}

type packageJsonCache struct {
	fs      afero.Fs
	mu      sync.RWMutex
	configs map[string]*PackageJsonConfig // nil value: directory has no package.json
}

func newPackageJsonCache(filesystem afero.Fs) *packageJsonCache {
	return &packageJsonCache{
		fs:      filesystem,
		configs: make(map[string]*PackageJsonConfig),
	}
}

// GetPackageConfig reads the package.json of dir. A missing file yields a nil
// config and no error.
func (c *packageJsonCache) GetPackageConfig(dir string, specifier string, parent Location) (*PackageJsonConfig, error) {
	c.mu.RLock()
	if config, ok := c.configs[dir]; ok {
		c.mu.RUnlock()
		return config, nil
	}
	c.mu.RUnlock()

	pkgJsonPath := filepath.Join(dir, "package.json")
	content, err := afero.ReadFile(c.fs, pkgJsonPath)
	if errors.Is(err, fs.ErrNotExist) {
		c.store(dir, nil)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", pkgJsonPath, err)
	}

	content = jsonc.ToJSON(content)
	if !gjson.ValidBytes(content) {
		return nil, &HostResolutionError{
			Code:      ErrInvalidPackageConfig,
			Specifier: specifier,
			Parent:    parent,
			Attempted: NewLocation(pkgJsonPath),
			Detail:    "invalid JSON in " + pkgJsonPath,
		}
	}

	parsed := gjson.ParseBytes(content)
	config := &PackageJsonConfig{
		Dir:     dir,
		Name:    parsed.Get("name").String(),
		Main:    parsed.Get("main").String(),
		Type:    parsed.Get("type").String(),
		Exports: parsed.Get("exports"),
		Imports: parsed.Get("imports"),
	}
	c.store(dir, config)
	return config, nil
}

func (c *packageJsonCache) store(dir string, config *PackageJsonConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configs[dir] = config
}

// GetPackageScopeConfig finds the nearest package.json above parent. The
// search stops at a node_modules directory.
func (c *packageJsonCache) GetPackageScopeConfig(parent Location, specifier string) (*PackageJsonConfig, error) {
	dir := filepath.Dir(parent.osPath())
	for {
		if filepath.Base(dir) == "node_modules" {
			return nil, nil
		}

		config, err := c.GetPackageConfig(dir, specifier, parent)
		if err != nil || config != nil {
			return config, err
		}

		next := filepath.Dir(dir)
		if next == dir {
			return nil, nil
		}
		dir = next
	}
}

// lookupKey returns the member key of a JSON object. gjson paths treat dots
// as separators, and export keys are full of them ("./utils").
func lookupKey(object gjson.Result, key string) (gjson.Result, bool) {
	var found gjson.Result
	ok := false
	object.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found, ok = v, true
			return false
		}
		return true
	})
	return found, ok
}

func objectKeys(object gjson.Result) []string {
	keys := []string{}
	object.ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	return keys
}
