package main

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

type GlobMatcher struct {
	globPattern                        glob.Glob
	inputString                        string
	shouldMatchAnyFileOrDirWithPattern bool
	patternRoot                        string
}

// CreateGlobMatchers compiles exclude patterns relative to patternsRoot.
func CreateGlobMatchers(patterns []string, patternsRoot string) ([]GlobMatcher, error) {
	globMatchers := []GlobMatcher{}
	// normalize pattern root to internal form and ensure trailing '/'
	patternRootNorm := NormalizePathForInternal(patternsRoot)
	if patternRootNorm != "" && !strings.HasSuffix(patternRootNorm, "/") {
		patternRootNorm = patternRootNorm + "/"
	}

	for _, excludePattern := range patterns {
		// like .gitignore, a plain name matches any file or directory with that name
		shouldMatchAnyFileOrDirWithPattern := !strings.Contains(excludePattern, "/") && !strings.Contains(excludePattern, "*")

		if strings.HasSuffix(excludePattern, "/") && !strings.Contains(excludePattern, "*") {
			// in gitignore entry with `/` suffix matches whole directory recursively
			excludePattern = "**" + excludePattern + "**"

		}

		// normalize pattern separators (globs and gitignore entries use forward slashes)
		patternNorm := NormalizeGlobPattern(excludePattern)

		compiled, err := glob.Compile(patternNorm)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern '%s': %w", excludePattern, err)
		}

		item := GlobMatcher{
			globPattern:                        compiled,
			inputString:                        patternNorm,
			patternRoot:                        patternRootNorm,
			shouldMatchAnyFileOrDirWithPattern: shouldMatchAnyFileOrDirWithPattern,
		}
		globMatchers = append(globMatchers, item)
		// gobwas/glob does not match `**/*.d.ts` against a root level `types.d.ts`,
		// so the pattern is also added without the leading `**/`.
		if strings.HasPrefix(patternNorm, "**/") {
			additionalPattern := strings.Replace(patternNorm, "**/", "", 1)
			additionalItem := GlobMatcher{
				globPattern:                        glob.MustCompile(additionalPattern),
				inputString:                        additionalPattern,
				patternRoot:                        patternRootNorm,
				shouldMatchAnyFileOrDirWithPattern: false,
			}
			globMatchers = append(globMatchers, additionalItem)
		}
	}
	return globMatchers, nil
}

// MatchesAnyGlobMatcher reports whether filePath matches one of matchers,
// following .gitignore semantics for plain names and trailing-slash entries.
func MatchesAnyGlobMatcher(filePath string, matchers []GlobMatcher) bool {
	fileInternal := NormalizePathForInternal(filePath)
	for _, matcher := range matchers {
		fileWithoutPrefix := strings.TrimPrefix(fileInternal, matcher.patternRoot)
		if matcher.globPattern.Match(fileWithoutPrefix) {
			logDebug("%s matches exclude pattern %s", fileWithoutPrefix, matcher.inputString)
			return true
		}
		if !matcher.shouldMatchAnyFileOrDirWithPattern {
			continue
		}
		// file named exactly as the pattern
		if strings.HasSuffix(fileWithoutPrefix, "/"+matcher.inputString) || fileWithoutPrefix == matcher.inputString {
			return true
		}
		// directory named exactly as the pattern
		if strings.Contains(fileWithoutPrefix, "/"+matcher.inputString+"/") || strings.HasPrefix(fileWithoutPrefix, matcher.inputString+"/") {
			return true
		}
	}
	return false
}
