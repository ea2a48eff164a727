package main

import (
	"strings"
)

// DefaultConditionNames are the package.json export conditions honored when
// resolving wildcard re-export targets.
var DefaultConditionNames = []string{"node", "import"}

// Specifiers are tried with these suffixes after a trailing ".js" is
// stripped, so `export * from "./sibling.js"` still finds the pre-build
// "./sibling.ts" source.
var candidateSuffixes = []string{"", ".ts", "/index.ts"}

// HostResolver is the platform module resolution algorithm. Errors of the
// not-found class must be reported as *HostResolutionError.
type HostResolver interface {
	Resolve(specifier string, parent Location, conditionNames []string) (Location, error)
}

type ModuleResolver struct {
	host           HostResolver
	conditionNames []string
}

func NewModuleResolver(host HostResolver, conditionNames []string) *ModuleResolver {
	if len(conditionNames) == 0 {
		conditionNames = DefaultConditionNames
	}
	return &ModuleResolver{
		host:           host,
		conditionNames: conditionNames,
	}
}

// Resolve maps specifier, as written in the module at from, to the location
// of a module. It fails with *ModuleNotFoundError when no candidate exists;
// any other host error is returned unchanged and stops the search.
func (r *ModuleResolver) Resolve(specifier string, from Location) (Location, error) {
	base := strings.TrimSuffix(specifier, ".js")

	var lastNotFound *HostResolutionError
	for _, suffix := range candidateSuffixes {
		location, err := r.host.Resolve(base+suffix, from, r.conditionNames)
		if err == nil {
			return location, nil
		}

		notFound, ok := isNotFoundResolution(err)
		if !ok {
			return "", err
		}
		logDebug("%s", notFound)
		lastNotFound = notFound
	}

	return "", &ModuleNotFoundError{
		Specifier: specifier,
		From:      from,
		Attempted: lastNotFound.Attempted,
		Err:       lastNotFound,
	}
}
