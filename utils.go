package main

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"
)

// StandardiseDirPath appends the OS separator, so the result can be used as
// a prefix that only matches paths inside dir.
func StandardiseDirPath(dir string) string {
	if dir == "" || os.IsPathSeparator(dir[len(dir)-1]) {
		return dir
	}
	return dir + string(os.PathSeparator)
}

func ResolveAbsoluteCwd(cwd string) string {
	return StandardiseDirPath(JoinWithCwd(currentDir, cwd))
}

// JoinWithCwd joins a relative path onto cwd. Absolute paths are only
// cleaned.
func JoinWithCwd(cwd string, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(cwd, path)
}

type KV[K any, V any] struct {
	k K
	v V
}

// GetSortedMap returns the entries of m ordered by key.
func GetSortedMap[K string | int, V any](m map[K]V) []KV[K, V] {
	result := make([]KV[K, V], 0, len(m))
	for k, v := range m {
		result = append(result, KV[K, V]{k, v})
	}
	slices.SortFunc(result, func(a, b KV[K, V]) int {
		return cmp.Compare(a.k, b.k)
	})
	return result
}
