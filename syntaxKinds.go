package main

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// The walker never inspects tree-sitter type names directly: every node is
// first mapped into one of the closed kinds below and the walker switches
// over those.

type syntaxKind uint8

const (
	syntaxOther           syntaxKind = iota // walked through
	syntaxExportStatement                   // export rules apply
	syntaxOpaque                            // not descended: no module exports inside
)

var opaqueSyntax = map[string]bool{
	"ambient_declaration": true, // declare ..., declare module "x" { export ... }
	"internal_module":     true, // namespace N { export ... }
	"module":              true, // module N { export ... }
	"ERROR":               true,
}

func classifySyntax(node *sitter.Node) syntaxKind {
	nodeType := node.Type()
	if nodeType == "export_statement" {
		return syntaxExportStatement
	}
	if opaqueSyntax[nodeType] {
		return syntaxOpaque
	}
	return syntaxOther
}

type exportForm uint8

const (
	exportDefaultValue      exportForm = iota // export default <expression>
	exportClause                              // export { a, b as c } [from "x"]
	exportTypeClause                          // export type { a } [from "x"]
	exportWildcard                            // export * from "x"
	exportTypeWildcard                        // export type * [as ns] from "x"
	exportNamespaceWildcard                   // export * as ns from "x"
	exportDeclaration                         // export [default] <declaration>
	exportNonModule                           // export = x, export as namespace X
)

func classifyExport(stmt *sitter.Node) exportForm {
	if hasToken(stmt, "=") || hasToken(stmt, "namespace") {
		return exportNonModule
	}
	if stmt.ChildByFieldName("declaration") != nil {
		return exportDeclaration
	}
	if stmt.ChildByFieldName("value") != nil {
		return exportDefaultValue
	}
	if findNamedChild(stmt, "export_clause") != nil {
		if hasToken(stmt, "type") {
			return exportTypeClause
		}
		return exportClause
	}
	if hasToken(stmt, "*") && hasToken(stmt, "type") {
		return exportTypeWildcard
	}
	if findNamedChild(stmt, "namespace_export") != nil {
		return exportNamespaceWildcard
	}
	if hasToken(stmt, "*") {
		return exportWildcard
	}
	if hasToken(stmt, "default") {
		return exportDefaultValue
	}
	return exportNonModule
}

type declarationKind uint8

const (
	declarationVariables declarationKind = iota // const, let, var
	declarationBinding                          // function, class, enum, namespace
	declarationTypeOnly                         // interface, type alias, overload signature
	declarationAmbient                          // declare ...
)

var declarationKinds = map[string]declarationKind{
	"lexical_declaration":             declarationVariables,
	"variable_declaration":            declarationVariables,
	"function_declaration":            declarationBinding,
	"generator_function_declaration":  declarationBinding,
	"class_declaration":               declarationBinding,
	"abstract_class_declaration":      declarationBinding,
	"enum_declaration":                declarationBinding,
	"internal_module":                 declarationBinding,
	"module":                          declarationBinding,
	"import_alias":                    declarationBinding,
	"interface_declaration":           declarationTypeOnly,
	"type_alias_declaration":          declarationTypeOnly,
	"function_signature":              declarationTypeOnly,
	"ambient_declaration":             declarationAmbient,
}

func classifyDeclaration(declaration *sitter.Node) declarationKind {
	if kind, ok := declarationKinds[declaration.Type()]; ok {
		return kind
	}
	return declarationTypeOnly
}

// hasToken reports whether node has a direct anonymous child of the given
// type, e.g. the `default` keyword of an export statement.
func hasToken(node *sitter.Node, token string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if !child.IsNamed() && child.Type() == token {
			return true
		}
	}
	return false
}

func findNamedChild(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}
