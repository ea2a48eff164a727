package main

import (
	"errors"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Extractor builds the export inventory of a module, following wildcard
// re-exports into other modules through the ModuleResolver.
//
// An Extractor holds no state between calls, so independent Extract calls
// may run concurrently.
type Extractor struct {
	loader   ContentLoader
	resolver *ModuleResolver
	exclude  []GlobMatcher
}

type ExtractorOption func(*Extractor)

// WithExcludePatterns stops wildcard re-exports from being followed into
// modules matching any of the matchers.
func WithExcludePatterns(matchers []GlobMatcher) ExtractorOption {
	return func(e *Extractor) {
		e.exclude = matchers
	}
}

func NewExtractor(loader ContentLoader, resolver *ModuleResolver, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		loader:   loader,
		resolver: resolver,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the exports of module together with diagnostics for every
// wildcard re-export that could not be followed. The only error returned for
// the module itself is a *ParseError; resolver errors outside the not-found
// class are propagated unchanged.
func (e *Extractor) Extract(module ModuleReference) (ExportMap, []Diagnostic, error) {
	run := &extraction{
		extractor:  e,
		done:       map[Location]ExportMap{},
		inProgress: map[Location]bool{},
	}
	exports, err := run.extract(module)
	if err != nil {
		return nil, run.diagnostics, err
	}
	return exports, run.diagnostics, nil
}

// extraction is the state of one top-level Extract call. Modules reached
// more than once (diamonds) are parsed once; modules still being walked are
// cycles.
type extraction struct {
	extractor   *Extractor
	done        map[Location]ExportMap
	inProgress  map[Location]bool
	diagnostics []Diagnostic
}

func (run *extraction) extract(module ModuleReference) (ExportMap, error) {
	if located, ok := module.(locationResolving); ok {
		location := located.resolvingLocation()
		if exports, ok := run.done[location]; ok {
			return exports, nil
		}
		run.inProgress[location] = true
		defer delete(run.inProgress, location)
	}

	source, err := module.source(run.extractor.loader)
	if err != nil {
		return nil, err
	}

	tree, err := parseModule(module.displayName(), source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	walker := &exportWalker{
		run:     run,
		module:  module,
		source:  tree.source,
		exports: ExportMap{},
	}
	if err := walker.walk(tree.root()); err != nil {
		return nil, err
	}

	if located, ok := module.(locationResolving); ok {
		run.done[located.resolvingLocation()] = walker.exports
	}
	return walker.exports, nil
}

type exportWalker struct {
	run     *extraction
	module  ModuleReference
	source  []byte
	exports ExportMap
}

func (w *exportWalker) walk(node *sitter.Node) error {
	switch classifySyntax(node) {
	case syntaxExportStatement:
		if err := w.visitExport(node); err != nil {
			return err
		}
	case syntaxOpaque:
		return nil
	case syntaxOther:
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if err := w.walk(node.Child(i)); err != nil {
			return err
		}
	}
	return nil
}

func (w *exportWalker) visitExport(stmt *sitter.Node) error {
	switch classifyExport(stmt) {
	case exportDefaultValue:
		w.exports.add(w.defaultValueName(stmt.ChildByFieldName("value")), ExportRecord{IsDefault: true})

	case exportClause:
		w.visitExportClause(findNamedChild(stmt, "export_clause"))

	case exportWildcard:
		return w.followWildcard(stmt)

	case exportNamespaceWildcard:
		namespace := findNamedChild(stmt, "namespace_export")
		for i := 0; i < int(namespace.NamedChildCount()); i++ {
			w.exports.add(w.moduleExportName(namespace.NamedChild(i)), ExportRecord{IsNamed: true})
		}

	case exportDeclaration:
		w.visitDeclaration(stmt, stmt.ChildByFieldName("declaration"))

	case exportTypeClause, exportTypeWildcard, exportNonModule:
	}
	return nil
}

func (w *exportWalker) defaultValueName(value *sitter.Node) string {
	if value == nil {
		return AnonymousName
	}
	switch value.Type() {
	case "identifier":
		return value.Content(w.source)
	case "function", "function_expression", "generator_function", "generator_function_expression", "class":
		// `export default function foo() {}` may surface as an expression
		if name := value.ChildByFieldName("name"); name != nil {
			return name.Content(w.source)
		}
	}
	return AnonymousName
}

func (w *exportWalker) visitExportClause(clause *sitter.Node) {
	if clause == nil {
		return
	}
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		specifier := clause.NamedChild(i)
		if specifier.Type() != "export_specifier" || hasToken(specifier, "type") {
			continue
		}
		exported := specifier.ChildByFieldName("alias")
		if exported == nil {
			exported = specifier.ChildByFieldName("name")
		}
		w.exports.add(w.moduleExportName(exported), ExportRecord{IsNamed: true})
	}
}

func (w *exportWalker) visitDeclaration(stmt *sitter.Node, declaration *sitter.Node) {
	if declaration == nil || hasToken(stmt, "declare") || hasToken(declaration, "declare") {
		return
	}
	isDefault := hasToken(stmt, "default")

	switch classifyDeclaration(declaration) {
	case declarationVariables:
		for i := 0; i < int(declaration.NamedChildCount()); i++ {
			declarator := declaration.NamedChild(i)
			if declarator.Type() != "variable_declarator" {
				continue
			}
			for _, name := range w.bindingNames(declarator.ChildByFieldName("name"), nil) {
				w.exports.add(name, ExportRecord{IsNamed: true})
			}
		}

	case declarationBinding:
		nameNode := declaration.ChildByFieldName("name")
		if nameNode == nil && declaration.Type() == "import_alias" && declaration.NamedChildCount() > 0 {
			// export import A = B.C
			nameNode = declaration.NamedChild(0)
		}
		name := w.declarationName(nameNode)
		switch {
		case name != "" && isDefault:
			w.exports.add(name, ExportRecord{IsDefault: true})
		case name != "":
			w.exports.add(name, ExportRecord{IsNamed: true})
		case isDefault:
			// `export default function() {}`, `export default class {}`
			w.exports.add(AnonymousName, ExportRecord{IsDefault: true})
		}

	case declarationTypeOnly, declarationAmbient:
	}
}

func (w *exportWalker) declarationName(name *sitter.Node) string {
	if name == nil {
		return ""
	}
	switch name.Type() {
	case "identifier", "type_identifier":
		return name.Content(w.source)
	case "nested_identifier":
		// namespace A.B {} binds A
		for name.Type() == "nested_identifier" && name.NamedChildCount() > 0 {
			name = name.NamedChild(0)
		}
		return name.Content(w.source)
	}
	return ""
}

// bindingNames collects every identifier bound by a declarator name, which
// may be a destructuring pattern.
func (w *exportWalker) bindingNames(pattern *sitter.Node, names []string) []string {
	if pattern == nil {
		return names
	}
	switch pattern.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return append(names, pattern.Content(w.source))
	case "pair_pattern":
		return w.bindingNames(pattern.ChildByFieldName("value"), names)
	case "assignment_pattern", "object_assignment_pattern":
		return w.bindingNames(pattern.ChildByFieldName("left"), names)
	case "object_pattern", "array_pattern", "rest_pattern":
		for i := 0; i < int(pattern.NamedChildCount()); i++ {
			names = w.bindingNames(pattern.NamedChild(i), names)
		}
	}
	return names
}

// moduleExportName returns the text of an identifier or the value of a
// string export name (`export { a as "a-b" }`).
func (w *exportWalker) moduleExportName(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	if node.Type() == "string" {
		return unquote(node.Content(w.source))
	}
	return node.Content(w.source)
}

func (w *exportWalker) followWildcard(stmt *sitter.Node) error {
	source := stmt.ChildByFieldName("source")
	if source == nil {
		return nil
	}

	// Inline modules have nothing to resolve against
	located, ok := w.module.(locationResolving)
	if !ok {
		return nil
	}

	specifier := unquote(source.Content(w.source))
	diagnose := func(err error) {
		point := stmt.StartPoint()
		w.run.diagnostics = append(w.run.diagnostics, Diagnostic{
			Module:    located.resolvingLocation(),
			Specifier: specifier,
			Offset:    stmt.StartByte(),
			Line:      int(point.Row) + 1,
			Column:    int(point.Column) + 1,
			Err:       err,
		})
	}

	target, err := w.run.extractor.resolver.Resolve(specifier, located.resolvingLocation())
	if err != nil {
		var notFound *ModuleNotFoundError
		if errors.As(err, &notFound) {
			diagnose(err)
			return nil
		}
		return err
	}

	if MatchesAnyGlobMatcher(string(target), w.run.extractor.exclude) {
		diagnose(ErrExcludedModule)
		return nil
	}

	if w.run.inProgress[target] {
		diagnose(ErrCircularReexport)
		return nil
	}

	targetExports, err := w.run.extract(LocatedModule{Location: target})
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) || errors.Is(err, ErrModuleNotLoadable) {
			diagnose(err)
			return nil
		}
		return err
	}

	w.exports.replaceFrom(targetExports)
	return nil
}

func unquote(literal string) string {
	if len(literal) >= 2 {
		first, last := literal[0], literal[len(literal)-1]
		if (first == '"' || first == '\'') && first == last {
			return literal[1 : len(literal)-1]
		}
	}
	return strings.TrimSpace(literal)
}
