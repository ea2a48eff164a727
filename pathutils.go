package main

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Locations and exclude patterns use forward slashes on every platform. The
// helpers below convert at the filesystem boundary and are no-ops outside
// Windows.

func NormalizePathForInternal(p string) string {
	if runtime.GOOS != "windows" || p == "" {
		return p
	}
	s := filepath.ToSlash(filepath.Clean(p))
	// keep the slash of "/" and "C:/"
	if len(s) > 1 && !strings.HasSuffix(s, ":/") {
		s = strings.TrimSuffix(s, "/")
	}
	return s
}

func DenormalizePathForOS(internal string) string {
	if runtime.GOOS != "windows" || internal == "" {
		return internal
	}
	return filepath.FromSlash(internal)
}

// NormalizeGlobPattern turns `generated\api\*.ts` into `generated/api/*.ts`.
func NormalizeGlobPattern(pattern string) string {
	if runtime.GOOS != "windows" {
		return pattern
	}
	return strings.ReplaceAll(pattern, `\`, "/")
}
