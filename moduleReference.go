package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Location identifies a module on the filesystem by its absolute, cleaned
// path. Builtin modules use the "node:" scheme, e.g. "node:fs".
type Location string

func NewLocation(path string) Location {
	if strings.HasPrefix(path, builtinScheme) {
		return Location(path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	return Location(NormalizePathForInternal(abs))
}

func (l Location) IsBuiltin() bool {
	return strings.HasPrefix(string(l), builtinScheme)
}

func (l Location) osPath() string {
	return DenormalizePathForOS(string(l))
}

// ModuleReference is either a LocatedModule or an InlineModule.
type ModuleReference interface {
	displayName() string
	source(loader ContentLoader) ([]byte, error)
}

// LocatedModule is read through the content loader and can resolve the
// specifiers of its wildcard re-exports relative to its location.
type LocatedModule struct {
	Location Location
}

// InlineModule carries raw source text with no location. Its wildcard
// re-exports are skipped.
type InlineModule struct {
	Source string
}

func (m LocatedModule) displayName() string { return string(m.Location) }

func (m LocatedModule) source(loader ContentLoader) ([]byte, error) {
	return loader.Load(m.Location)
}

// resolvingLocation exposes the one capability inline modules lack.
func (m LocatedModule) resolvingLocation() Location { return m.Location }

func (m InlineModule) displayName() string { return "<inline>" }

func (m InlineModule) source(ContentLoader) ([]byte, error) {
	return []byte(m.Source), nil
}

type locationResolving interface {
	resolvingLocation() Location
}

// ContentLoader returns the UTF-8 text of a module. Missing modules must be
// reported with an error wrapping ErrModuleNotLoadable.
type ContentLoader interface {
	Load(location Location) ([]byte, error)
}

type fsLoader struct {
	fs afero.Fs
}

func NewFsLoader(filesystem afero.Fs) ContentLoader {
	return &fsLoader{fs: filesystem}
}

func (l *fsLoader) Load(location Location) ([]byte, error) {
	if location.IsBuiltin() {
		return nil, fmt.Errorf("%s: %w", location, ErrModuleNotLoadable)
	}
	content, err := afero.ReadFile(l.fs, location.osPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", location, ErrModuleNotLoadable)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", location, err)
	}
	return content, nil
}
