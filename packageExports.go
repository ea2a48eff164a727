package main

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// A package target resolves to a path, to an explicit null (the subpath is
// excluded) or to nothing (no condition matched, keep looking).
type targetState uint8

const (
	targetUndefined targetState = iota
	targetNull
	targetResolved
)

type targetResult struct {
	path  string
	state targetState
}

var invalidSegmentRegExp = regexp.MustCompile(`(?i)(^|\\|/)((\.|%2e)(\.|%2e)?|(n|%6e|%4e)(o|%6f|%4f)(d|%64|%44)(e|%65|%45)_(m|%6d|%4d)(o|%6f|%4f)(d|%64|%44)(u|%75|%55)(l|%6c|%4c)(e|%65|%45)(s|%73|%53))?(\\|/|$)`)

var urlSchemeRegExp = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)

// resolution carries the request being resolved so nested steps can report
// errors against it.
type resolution struct {
	resolver       *esmResolver
	specifier      string
	parent         Location
	conditionNames []string
}

func (r *resolution) fail(code HostResolutionCode, attempted string, detail string) *HostResolutionError {
	err := &HostResolutionError{
		Code:      code,
		Specifier: r.specifier,
		Parent:    r.parent,
		Detail:    detail,
	}
	switch {
	case filepath.IsAbs(attempted):
		err.Attempted = NewLocation(attempted)
	case attempted != "":
		err.Attempted = Location(attempted)
	}
	return err
}

// isConditionalSugar reports whether exports is a main-export shorthand:
// a string, an array or an object of conditions without "." keys.
func (r *resolution) isConditionalSugar(exports gjson.Result, pkg *PackageJsonConfig) (bool, error) {
	if exports.Type == gjson.String || exports.IsArray() {
		return true, nil
	}
	if !exports.IsObject() {
		return false, nil
	}

	dotKeys, otherKeys := 0, 0
	for _, key := range objectKeys(exports) {
		if key != "" && key[0] == '.' {
			dotKeys++
		} else {
			otherKeys++
		}
	}
	if dotKeys > 0 && otherKeys > 0 {
		return false, r.fail(ErrInvalidPackageConfig, pkg.path(),
			`"exports" cannot contain some keys starting with '.' and some not`)
	}
	return otherKeys > 0, nil
}

func (r *resolution) packageExportsResolve(pkg *PackageJsonConfig, subpath string) (string, error) {
	exports := pkg.Exports
	sugar, err := r.isConditionalSugar(exports, pkg)
	if err != nil {
		return "", err
	}

	if subpath == "." {
		mainExport, ok := exports, sugar
		if !sugar && exports.IsObject() {
			mainExport, ok = lookupKey(exports, ".")
		}
		if ok {
			result, err := r.packageTargetResolve(pkg, mainExport, "", false, false)
			if err != nil {
				return "", err
			}
			if result.state == targetResolved {
				return result.path, nil
			}
		}
	} else if exports.IsObject() && !sugar {
		result, err := r.importsExportsResolve(subpath, exports, pkg, false)
		if err != nil {
			return "", err
		}
		if result.state == targetResolved {
			return result.path, nil
		}
	}

	return "", r.fail(ErrPackagePathNotExported, filepath.Join(pkg.Dir, subpath),
		"subpath '"+subpath+"' is not defined by \"exports\" in "+pkg.path())
}

func (r *resolution) packageImportsResolve(name string) (string, error) {
	if name == "#" || strings.HasPrefix(name, "#/") || strings.HasSuffix(name, "/") {
		return "", r.fail(ErrInvalidModuleSpecifier, "", "is not a valid internal imports specifier name")
	}

	pkg, err := r.resolver.packages.GetPackageScopeConfig(r.parent, r.specifier)
	if err != nil {
		return "", err
	}

	if pkg != nil && pkg.Imports.IsObject() {
		result, err := r.importsExportsResolve(name, pkg.Imports, pkg, true)
		if err != nil {
			return "", err
		}
		if result.state == targetResolved {
			return result.path, nil
		}
	}

	return "", r.fail(ErrPackageImportNotDefined, "", "package import specifier is not defined")
}

func (r *resolution) importsExportsResolve(matchKey string, matchObject gjson.Result, pkg *PackageJsonConfig, isImports bool) (targetResult, error) {
	if !strings.Contains(matchKey, "*") {
		if target, ok := lookupKey(matchObject, matchKey); ok {
			return r.packageTargetResolve(pkg, target, "", false, isImports)
		}
	}

	bestMatch, bestMatchSubpath := "", ""
	for _, key := range objectKeys(matchObject) {
		patternIndex := strings.Index(key, "*")
		if patternIndex == -1 || strings.LastIndex(key, "*") != patternIndex {
			continue
		}
		if !strings.HasPrefix(matchKey, key[:patternIndex]) {
			continue
		}
		trailer := key[patternIndex+1:]
		if len(matchKey) >= len(key) && strings.HasSuffix(matchKey, trailer) && patternKeyCompare(bestMatch, key) == 1 {
			bestMatch = key
			bestMatchSubpath = matchKey[patternIndex : len(matchKey)-len(trailer)]
		}
	}

	if bestMatch != "" {
		target, _ := lookupKey(matchObject, bestMatch)
		return r.packageTargetResolve(pkg, target, bestMatchSubpath, true, isImports)
	}
	return targetResult{state: targetUndefined}, nil
}

// patternKeyCompare orders pattern keys by specificity, most specific first.
func patternKeyCompare(a string, b string) int {
	aPatternIndex := strings.Index(a, "*")
	bPatternIndex := strings.Index(b, "*")
	baseLengthA := len(a)
	if aPatternIndex != -1 {
		baseLengthA = aPatternIndex + 1
	}
	baseLengthB := len(b)
	if bPatternIndex != -1 {
		baseLengthB = bPatternIndex + 1
	}

	switch {
	case baseLengthA > baseLengthB:
		return -1
	case baseLengthB > baseLengthA:
		return 1
	case aPatternIndex == -1:
		return 1
	case bPatternIndex == -1:
		return -1
	case len(a) > len(b):
		return -1
	case len(b) > len(a):
		return 1
	}
	return 0
}

func (r *resolution) packageTargetResolve(pkg *PackageJsonConfig, target gjson.Result, subpath string, pattern bool, isImports bool) (targetResult, error) {
	switch {
	case target.Type == gjson.String:
		path, err := r.packageTargetResolveString(pkg, target.String(), subpath, pattern, isImports)
		if err != nil {
			return targetResult{}, err
		}
		return targetResult{path: path, state: targetResolved}, nil

	case target.IsArray():
		var lastErr error
		sawNull := false
		for _, candidate := range target.Array() {
			result, err := r.packageTargetResolve(pkg, candidate, subpath, pattern, isImports)
			if err != nil {
				if hostErr, ok := err.(*HostResolutionError); ok && hostErr.Code == ErrInvalidPackageTarget {
					lastErr = err
					continue
				}
				return targetResult{}, err
			}
			switch result.state {
			case targetUndefined:
				continue
			case targetNull:
				sawNull = true
				lastErr = nil
				continue
			}
			return result, nil
		}
		if lastErr != nil {
			return targetResult{}, lastErr
		}
		if sawNull {
			return targetResult{state: targetNull}, nil
		}
		return targetResult{state: targetUndefined}, nil

	case target.IsObject():
		for _, key := range objectKeys(target) {
			if isArrayIndexKey(key) {
				return targetResult{}, r.fail(ErrInvalidPackageConfig, pkg.path(), `"exports" cannot contain numeric property keys`)
			}
		}
		for _, key := range objectKeys(target) {
			if key != "default" && !slices.Contains(r.conditionNames, key) {
				continue
			}
			conditionTarget, _ := lookupKey(target, key)
			result, err := r.packageTargetResolve(pkg, conditionTarget, subpath, pattern, isImports)
			if err != nil {
				return targetResult{}, err
			}
			if result.state == targetUndefined {
				continue
			}
			return result, nil
		}
		return targetResult{state: targetUndefined}, nil

	case target.Type == gjson.Null:
		return targetResult{state: targetNull}, nil
	}

	return targetResult{}, r.fail(ErrInvalidPackageTarget, pkg.path(), "invalid target "+target.Raw)
}

func (r *resolution) packageTargetResolveString(pkg *PackageJsonConfig, target string, subpath string, pattern bool, isImports bool) (string, error) {
	invalidTarget := func() error {
		return r.fail(ErrInvalidPackageTarget, pkg.path(), "invalid target '"+target+"'")
	}

	if subpath != "" && !pattern && !strings.HasSuffix(target, "/") {
		return "", invalidTarget()
	}

	if !strings.HasPrefix(target, "./") {
		if isImports && !strings.HasPrefix(target, "../") && !strings.HasPrefix(target, "/") && !urlSchemeRegExp.MatchString(target) {
			// "#dep": "some-package" maps into another package
			exportTarget := target + subpath
			if pattern {
				exportTarget = strings.ReplaceAll(target, "*", subpath)
			}
			return r.packageResolve(exportTarget, NewLocation(pkg.path()))
		}
		return "", invalidTarget()
	}

	if invalidSegmentRegExp.MatchString(target[2:]) {
		return "", invalidTarget()
	}

	resolved := filepath.Join(pkg.Dir, filepath.FromSlash(target))
	if resolved != pkg.Dir && !strings.HasPrefix(resolved, StandardiseDirPath(pkg.Dir)) {
		return "", invalidTarget()
	}

	if subpath == "" {
		return resolved, nil
	}

	if invalidSegmentRegExp.MatchString(subpath) {
		return "", r.fail(ErrInvalidModuleSpecifier, resolved, "request is not a valid match in pattern '"+target+"'")
	}

	if pattern {
		return filepath.Join(pkg.Dir, filepath.FromSlash(strings.ReplaceAll(target, "*", subpath))), nil
	}
	return filepath.Join(resolved, filepath.FromSlash(subpath)), nil
}

func isArrayIndexKey(key string) bool {
	if key == "" || len(key) > 10 {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return false
		}
	}
	return key == "0" || key[0] != '0'
}
