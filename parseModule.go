package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

type sourceDialect uint8

const (
	dialectTS sourceDialect = iota
	dialectTSX
	dialectJS
	dialectJSX
)

func dialectForName(name string) sourceDialect {
	switch filepath.Ext(name) {
	case ".tsx":
		return dialectTSX
	case ".jsx":
		return dialectJSX
	case ".js", ".mjs", ".cjs":
		return dialectJS
	default:
		return dialectTS
	}
}

func (d sourceDialect) loader() api.Loader {
	switch d {
	case dialectTSX:
		return api.LoaderTSX
	case dialectJS:
		return api.LoaderJS
	case dialectJSX:
		return api.LoaderJSX
	default:
		return api.LoaderTS
	}
}

func (d sourceDialect) language() *sitter.Language {
	if d == dialectTSX || d == dialectJSX {
		return tsx.GetLanguage()
	}
	return typescript.GetLanguage()
}

type syntaxTree struct {
	tree   *sitter.Tree
	source []byte
}

func (t *syntaxTree) root() *sitter.Node {
	return t.tree.RootNode()
}

func (t *syntaxTree) Close() {
	t.tree.Close()
}

// parseModule validates source with esbuild, keeping only its syntax errors,
// and then builds the tree-sitter syntax tree the export walker traverses.
// tree-sitter alone never fails: it recovers with ERROR nodes.
func parseModule(name string, source []byte) (*syntaxTree, error) {
	dialect := dialectForName(name)

	if err := validateSyntax(name, source, dialect); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(dialect.language())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, &ParseError{Name: name, Message: err.Error()}
	}

	return &syntaxTree{tree: tree, source: source}, nil
}

func validateSyntax(name string, source []byte, dialect sourceDialect) *ParseError {
	result := api.Transform(string(source), api.TransformOptions{
		Loader:     dialect.loader(),
		Sourcefile: name,
		LogLevel:   api.LogLevelSilent,
	})

	for _, message := range result.Errors {
		if isBindingCheck(message.Text) {
			continue
		}
		parseErr := &ParseError{Name: name, Message: message.Text}
		if message.Location != nil {
			parseErr.Line = message.Location.Line
			parseErr.Column = message.Location.Column + 1
		}
		return parseErr
	}
	return nil
}

// esbuild reports these after a successful parse, while binding symbols.
var bindingCheckMessages = []string{
	"Multiple exports with the same name",
	"has already been declared",
	"is not declared in this file",
}

func isBindingCheck(text string) bool {
	for _, fragment := range bindingCheckMessages {
		if strings.Contains(text, fragment) {
			return true
		}
	}
	return false
}
