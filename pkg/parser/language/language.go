// Package language exposes the tree-sitter grammar used by the re-parser.
package language

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// Python returns the tree-sitter language for Python sources, which covers
// the executable subset the code writer emits.
func Python() *sitter.Language {
	return sitter.NewLanguage(python.Language())
}
