package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

var encodedSeparatorRegExp = regexp.MustCompile(`(?i)%2f|%5c`)

// esmResolver implements Node's ESM resolution algorithm over an afero
// filesystem: relative and absolute paths, file: URLs, builtins, package
// "imports" and "exports" with conditions, self references and
// node_modules lookup with the legacy "main" fallback.
type esmResolver struct {
	fs       afero.Fs
	packages *packageJsonCache
}

func NewHostResolver(filesystem afero.Fs) HostResolver {
	return &esmResolver{
		fs:       filesystem,
		packages: newPackageJsonCache(filesystem),
	}
}

func (h *esmResolver) Resolve(specifier string, parent Location, conditionNames []string) (Location, error) {
	r := &resolution{
		resolver:       h,
		specifier:      specifier,
		parent:         parent,
		conditionNames: conditionNames,
	}

	var resolved string
	var err error

	switch {
	case specifier == "":
		return "", r.fail(ErrInvalidModuleSpecifier, "", "empty specifier")

	case isRelativeSpecifier(specifier):
		resolved, err = r.relativeResolve(specifier)

	case strings.HasPrefix(specifier, "#"):
		resolved, err = r.packageImportsResolve(specifier)

	case strings.HasPrefix(specifier, builtinScheme):
		if !isBuiltinModule(strings.TrimPrefix(specifier, builtinScheme)) {
			return "", r.fail(ErrModuleNotFound, specifier, "unknown builtin module")
		}
		return Location(specifier), nil

	case strings.HasPrefix(specifier, "file://"):
		resolved, err = r.fileURLResolve(specifier)

	case urlSchemeRegExp.MatchString(specifier):
		return "", r.fail(ErrInvalidModuleSpecifier, "", "unsupported URL scheme")

	default:
		if BuiltInModules[specifier] {
			return Location(builtinScheme + specifier), nil
		}
		resolved, err = r.packageResolve(specifier, parent)
	}

	if err != nil {
		return "", err
	}
	return r.finalize(resolved)
}

func isRelativeSpecifier(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "/") ||
		strings.HasPrefix(specifier, "./") ||
		strings.HasPrefix(specifier, "../")
}

func (r *resolution) relativeResolve(specifier string) (string, error) {
	if encodedSeparatorRegExp.MatchString(specifier) {
		return "", r.fail(ErrInvalidModuleSpecifier, "", "must not include encoded '/' or '\\' characters")
	}
	decoded, err := url.PathUnescape(specifier)
	if err != nil {
		return "", r.fail(ErrInvalidModuleSpecifier, "", err.Error())
	}

	if strings.HasPrefix(decoded, "/") {
		return filepath.FromSlash(decoded), nil
	}
	return filepath.Join(filepath.Dir(r.parent.osPath()), filepath.FromSlash(decoded)), nil
}

func (r *resolution) fileURLResolve(specifier string) (string, error) {
	parsed, err := url.Parse(specifier)
	if err != nil {
		return "", r.fail(ErrInvalidModuleSpecifier, "", err.Error())
	}
	if encodedSeparatorRegExp.MatchString(parsed.EscapedPath()) {
		return "", r.fail(ErrInvalidModuleSpecifier, "", "must not include encoded '/' or '\\' characters")
	}
	return filepath.FromSlash(parsed.Path), nil
}

// packageResolve resolves a bare specifier from base, walking up through
// node_modules directories.
func (r *resolution) packageResolve(specifier string, base Location) (string, error) {
	if BuiltInModules[specifier] {
		return builtinScheme + specifier, nil
	}

	name, subpath, err := parsePackageName(specifier)
	if err != nil {
		return "", r.fail(ErrInvalidModuleSpecifier, "", err.Error())
	}

	if resolved, ok, err := r.packageSelfResolve(name, subpath, base); err != nil || ok {
		return resolved, err
	}

	dir := filepath.Dir(base.osPath())
	for {
		pkgDir := filepath.Join(dir, "node_modules", filepath.FromSlash(name))
		if r.isDir(pkgDir) {
			pkg, err := r.resolver.packages.GetPackageConfig(pkgDir, r.specifier, r.parent)
			if err != nil {
				return "", err
			}
			if pkg != nil && pkg.hasExports() {
				return r.packageExportsResolve(pkg, subpath)
			}
			if subpath == "." {
				return r.legacyMainResolve(pkgDir, pkg)
			}
			return filepath.Join(pkgDir, filepath.FromSlash(subpath)), nil
		}

		next := filepath.Dir(dir)
		if next == dir {
			break
		}
		dir = next
	}

	return "", r.fail(ErrModuleNotFound, name, "cannot find package '"+name+"'")
}

func (r *resolution) packageSelfResolve(name string, subpath string, base Location) (string, bool, error) {
	pkg, err := r.resolver.packages.GetPackageScopeConfig(base, r.specifier)
	if err != nil || pkg == nil || !pkg.hasExports() || pkg.Name != name {
		return "", false, err
	}
	resolved, err := r.packageExportsResolve(pkg, subpath)
	return resolved, true, err
}

var legacyMainSuffixes = []string{"", ".js", ".json", ".node", "/index.js", "/index.json", "/index.node"}
var legacyIndexFiles = []string{"index.js", "index.json", "index.node"}

func (r *resolution) legacyMainResolve(pkgDir string, pkg *PackageJsonConfig) (string, error) {
	if pkg != nil && pkg.Main != "" {
		for _, suffix := range legacyMainSuffixes {
			candidate := filepath.Join(pkgDir, filepath.FromSlash(pkg.Main+suffix))
			if r.isFile(candidate) {
				return candidate, nil
			}
		}
	}
	for _, index := range legacyIndexFiles {
		candidate := filepath.Join(pkgDir, index)
		if r.isFile(candidate) {
			return candidate, nil
		}
	}
	return "", r.fail(ErrModuleNotFound, pkgDir, "cannot find package entry in "+pkgDir)
}

// finalize checks that resolved names an existing file. Filesystem errors
// other than not-exist are returned as they are.
func (r *resolution) finalize(resolved string) (Location, error) {
	if strings.HasPrefix(resolved, builtinScheme) {
		return Location(resolved), nil
	}

	info, err := r.resolver.fs.Stat(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		return "", r.fail(ErrModuleNotFound, resolved, "")
	}
	if err != nil {
		return "", fmt.Errorf("resolving '%s' from %s: %w", r.specifier, r.parent, err)
	}
	if info.IsDir() {
		return "", r.fail(ErrUnsupportedDirImport, resolved, "directory import is not supported")
	}
	return NewLocation(resolved), nil
}

func (r *resolution) isDir(path string) bool {
	info, err := r.resolver.fs.Stat(path)
	return err == nil && info.IsDir()
}

func (r *resolution) isFile(path string) bool {
	info, err := r.resolver.fs.Stat(path)
	return err == nil && !info.IsDir()
}
