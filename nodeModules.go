package main

import (
	"errors"
	"strings"
)

const builtinScheme = "node:"

// Modules that resolve to "node:<name>" without a scheme prefix.
var BuiltInModules = map[string]bool{
	"assert": true, "assert/strict": true, "async_hooks": true, "buffer": true,
	"child_process": true, "cluster": true, "console": true, "constants": true,
	"crypto": true, "dgram": true, "diagnostics_channel": true, "dns": true,
	"dns/promises": true, "domain": true, "events": true, "fs": true,
	"fs/promises": true, "http": true, "http2": true, "https": true,
	"inspector": true, "inspector/promises": true, "module": true, "net": true,
	"os": true, "path": true, "path/posix": true, "path/win32": true,
	"perf_hooks": true, "process": true, "punycode": true, "querystring": true,
	"readline": true, "readline/promises": true, "repl": true, "stream": true,
	"stream/consumers": true, "stream/promises": true, "stream/web": true,
	"string_decoder": true, "sys": true, "timers": true, "timers/promises": true,
	"tls": true, "trace_events": true, "tty": true, "url": true, "util": true,
	"util/types": true, "v8": true, "vm": true, "wasi": true,
	"worker_threads": true, "zlib": true,
}

// Builtins that only exist behind the "node:" scheme.
var schemeOnlyBuiltInModules = map[string]bool{
	"sea": true, "sqlite": true, "test": true, "test/reporters": true,
}

func isBuiltinModule(name string) bool {
	return BuiltInModules[name] || schemeOnlyBuiltInModules[name]
}

func GetNodeModuleName(request string) string {
	splitCount := 2
	if strings.HasPrefix(request, "@") {
		splitCount = 3
	}
	parts := strings.SplitN(request, "/", splitCount)
	if len(parts) < splitCount-1 {
		return request
	}
	return strings.Join(parts[:splitCount-1], "/")
}

// parsePackageName splits a bare specifier into the package name and the
// "."-prefixed subpath, e.g. "@scope/pkg/utils" -> "@scope/pkg", "./utils".
func parsePackageName(specifier string) (name string, subpath string, err error) {
	if strings.HasPrefix(specifier, "@") && !strings.Contains(specifier, "/") {
		return "", "", errors.New("scoped package name must contain a '/'")
	}

	name = GetNodeModuleName(specifier)
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, "\\%") {
		return "", "", errors.New("is not a valid package name")
	}

	return name, "." + strings.TrimPrefix(specifier, name), nil
}
