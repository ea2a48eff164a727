package main

import (
	"testing"

	"gotest.tools/v3/assert"
)

func mustCreateGlobMatchers(t *testing.T, patterns []string, root string) []GlobMatcher {
	t.Helper()
	matchers, err := CreateGlobMatchers(patterns, root)
	assert.NilError(t, err)
	return matchers
}

func TestGlobMatchingForDirectoryWithoutWildcard(t *testing.T) {
	t.Run("Output directory with trailing slash in root dir", func(t *testing.T) {
		root := "/fs/root/"
		pattern := "dist/"
		filePath := "/fs/root/dist/types/index.d.ts"
		globMatchers := mustCreateGlobMatchers(t, []string{pattern}, root)

		matches := MatchesAnyGlobMatcher(filePath, globMatchers)

		if !matches {
			t.Errorf(`Pattern "%s" not matching path "%s"`, pattern, filePath)
		}
	})

	t.Run("Output directory without slash in root dir", func(t *testing.T) {
		root := "/fs/root/"
		pattern := "dist"
		filePath := "/fs/root/dist/types/index.d.ts"
		globMatchers := mustCreateGlobMatchers(t, []string{pattern}, root)
		matches := MatchesAnyGlobMatcher(filePath, globMatchers)

		if !matches {
			t.Errorf(`Pattern "%s" not matching path "%s"`, pattern, filePath)
		}
	})

	t.Run("Plain directory name in sub dir", func(t *testing.T) {
		root := "/fs/root/"
		pattern := "node_modules"
		filePath := "/fs/root/sub/sub2/node_modules/lib/index.ts"
		globMatchers := mustCreateGlobMatchers(t, []string{pattern}, root)
		matches := MatchesAnyGlobMatcher(filePath, globMatchers)

		if !matches {
			t.Errorf(`Pattern "%s" not matching path "%s"`, pattern, filePath)
		}
	})

	t.Run("Directory with trailing slash in sub dir", func(t *testing.T) {
		root := "/fs/root/"
		pattern := "node_modules/"
		filePath := "/fs/root/sub/sub2/node_modules/lib/index.ts"
		globMatchers := mustCreateGlobMatchers(t, []string{pattern}, root)
		matches := MatchesAnyGlobMatcher(filePath, globMatchers)

		if !matches {
			t.Errorf(`Pattern "%s" not matching path "%s"`, pattern, filePath)
		}
	})
}

func TestGlobMatchingForFileNameWithoutWildcard(t *testing.T) {
	t.Run("Filename in root dir", func(t *testing.T) {
		root := "/fs/root/"
		pattern := "legacy.ts"
		filePath := "/fs/root/legacy.ts"
		globMatchers := mustCreateGlobMatchers(t, []string{pattern}, root)

		matches := MatchesAnyGlobMatcher(filePath, globMatchers)

		if !matches {
			t.Errorf(`Pattern "%s" not matching path "%s"`, pattern, filePath)
		}
	})

	t.Run("Filename in sub dir", func(t *testing.T) {
		root := "/fs/root/"
		pattern := "legacy.ts"
		filePath := "/fs/root/sub/sub2/legacy.ts"
		globMatchers := mustCreateGlobMatchers(t, []string{pattern}, root)

		matches := MatchesAnyGlobMatcher(filePath, globMatchers)

		if !matches {
			t.Errorf(`Pattern "%s" not matching path "%s"`, pattern, filePath)
		}
	})
}

func TestGlobMatchingForFileUsingDirectoryWildcard(t *testing.T) {
	t.Run("File in root dir", func(t *testing.T) {
		root := "/fs/root/"
		pattern := "**/*.d.ts"
		filePath := "/fs/root/types.d.ts"
		globMatchers := mustCreateGlobMatchers(t, []string{pattern}, root)

		matches := MatchesAnyGlobMatcher(filePath, globMatchers)

		if !matches {
			t.Errorf(`Pattern "%s" not matching path "%s"`, pattern, filePath)
		}
	})
	t.Run("file in sub dir", func(t *testing.T) {
		root := "/fs/root/"
		pattern := "**/*.d.ts"
		filePath := "/fs/root/src/sub/types.d.ts"
		globMatchers := mustCreateGlobMatchers(t, []string{pattern}, root)

		matches := MatchesAnyGlobMatcher(filePath, globMatchers)

		if !matches {
			t.Errorf(`Pattern "%s" not matching path "%s"`, pattern, filePath)
		}
	})
}

func TestGlobMatchingShouldNotMatch(t *testing.T) {
	t.Run("Should not match nested dir/file pattern without wildcards", func(t *testing.T) {
		root := "/fs/root/"
		pattern := "bin/file"
		filePath := "/fs/root/data/bin/file"
		globMatchers := mustCreateGlobMatchers(t, []string{pattern}, root)

		matches := MatchesAnyGlobMatcher(filePath, globMatchers)

		if matches {
			t.Errorf(`Pattern "%s" is matching path "%s" but it should not`, pattern, filePath)
		}
	})

	t.Run("Should not match dir/file by part of the name", func(t *testing.T) {
		root := "/fs/root/"
		pattern := "logs"
		filePath := "/fs/root/data/my-logs"
		globMatchers := mustCreateGlobMatchers(t, []string{pattern}, root)

		matches := MatchesAnyGlobMatcher(filePath, globMatchers)

		if matches {
			t.Errorf(`Pattern "%s" is matching path "%s" but it should not`, pattern, filePath)
		}
	})
}

func TestCreateGlobMatchersRejectsInvalidPattern(t *testing.T) {
	_, err := CreateGlobMatchers([]string{"src/[a-"}, "/fs/root/")
	assert.ErrorContains(t, err, "invalid exclude pattern 'src/[a-'")
}

func TestGlobMatchingMultiplePatterns(t *testing.T) {
	globMatchers := mustCreateGlobMatchers(t, []string{"generated/", "**/*.d.ts"}, "/fs/root/")

	assert.Assert(t, MatchesAnyGlobMatcher("/fs/root/generated/api.ts", globMatchers))
	assert.Assert(t, MatchesAnyGlobMatcher("/fs/root/src/global.d.ts", globMatchers))
	assert.Assert(t, !MatchesAnyGlobMatcher("/fs/root/src/index.ts", globMatchers))
}
