package main

import (
	"errors"
	"fmt"
)

// ParseError reports a module whose source is not syntactically valid.
// It aborts extraction of that module.
type ParseError struct {
	Name    string // location or "<inline>"
	Line    int    // 1-based
	Column  int    // 1-based
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Name, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// ModuleNotFoundError is returned by ModuleResolver.Resolve when every
// candidate specifier failed with a not-found class error.
type ModuleNotFoundError struct {
	Specifier string
	From      Location
	Attempted Location // last location the host resolver tried
	Err       error    // last not-found error
}

func (e *ModuleNotFoundError) Error() string {
	attempted := string(e.Attempted)
	if attempted == "" {
		attempted = e.Specifier
	}
	return fmt.Sprintf("Module not found: %s (imported from %s)", attempted, e.From)
}

func (e *ModuleNotFoundError) Unwrap() error {
	return e.Err
}

type HostResolutionCode uint8

const (
	ErrModuleNotFound HostResolutionCode = iota
	ErrUnsupportedDirImport
	ErrPackagePathNotExported
	ErrInvalidModuleSpecifier
	ErrInvalidPackageTarget
	ErrInvalidPackageConfig
	ErrPackageImportNotDefined
)

var hostResolutionCodeNames = map[HostResolutionCode]string{
	ErrModuleNotFound:          "ERR_MODULE_NOT_FOUND",
	ErrUnsupportedDirImport:    "ERR_UNSUPPORTED_DIR_IMPORT",
	ErrPackagePathNotExported:  "ERR_PACKAGE_PATH_NOT_EXPORTED",
	ErrInvalidModuleSpecifier:  "ERR_INVALID_MODULE_SPECIFIER",
	ErrInvalidPackageTarget:    "ERR_INVALID_PACKAGE_TARGET",
	ErrInvalidPackageConfig:    "ERR_INVALID_PACKAGE_CONFIG",
	ErrPackageImportNotDefined: "ERR_PACKAGE_IMPORT_NOT_DEFINED",
}

func (c HostResolutionCode) String() string {
	if name, ok := hostResolutionCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("HostResolutionCode(%d)", uint8(c))
}

// HostResolutionError is raised by the host resolution algorithm. Its code
// mirrors the error codes of Node's ESM resolver.
type HostResolutionError struct {
	Code      HostResolutionCode
	Specifier string
	Parent    Location
	Attempted Location
	Detail    string
}

func (e *HostResolutionError) Error() string {
	msg := fmt.Sprintf("%s: cannot resolve '%s' from %s", e.Code, e.Specifier, e.Parent)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// IsNotFound reports whether the error belongs to the not-found class that
// lets the module resolver advance to its next candidate.
func (e *HostResolutionError) IsNotFound() bool {
	switch e.Code {
	case ErrModuleNotFound, ErrUnsupportedDirImport, ErrPackagePathNotExported, ErrPackageImportNotDefined:
		return true
	}
	return false
}

func isNotFoundResolution(err error) (*HostResolutionError, bool) {
	var hostErr *HostResolutionError
	if errors.As(err, &hostErr) && hostErr.IsNotFound() {
		return hostErr, true
	}
	return nil, false
}

var (
	ErrModuleNotLoadable = errors.New("module content not found")
	ErrCircularReexport  = errors.New("circular wildcard re-export")
	ErrExcludedModule    = errors.New("module excluded by configuration")
)

// Diagnostic describes a wildcard re-export that could not be followed.
// Extraction of the surrounding module continues without it.
type Diagnostic struct {
	Module    Location
	Specifier string
	Offset    uint32
	Line      int // 1-based
	Column    int // 1-based
	Err       error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: export * from '%s' could not be followed: %v", d.Module, d.Line, d.Column, d.Specifier, d.Err)
}
