package realm

import (
	"context"
	"fmt"

	ts "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// Loader is a stateless syntax-checking facility: it parses source with
// tree-sitter's grammar and reports the first ERROR node found, without
// building bytecode or touching a realm at all. Grounded on the teacher's
// ts-parser/parser.go ParseBytes, which run262 (spec.md §9) uses for its
// -parseOnly mode to validate a negative/SyntaxError test case's source
// is rejected by a parser independent of this repo's own otto-based one —
// catching the case where the compiler's parser is simply too lenient.
type Loader struct{}

// NewLoader returns a Loader. It carries no state; the zero value works
// equally well, but New mirrors the rest of this package's constructors.
func NewLoader() *Loader { return &Loader{} }

// CheckSyntax reports whether src parses as valid JavaScript per
// tree-sitter's grammar. path is used only for the returned error's
// context, matching ParseBytes' signature.
func (l *Loader) CheckSyntax(path string, src []byte) error {
	parser := ts.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return fmt.Errorf("realm: %s: %w", path, err)
	}
	defer tree.Close()

	var firstErr error
	iter := ts.NewIterator(tree.RootNode(), ts.DFSMode)
	err = iter.ForEach(func(node *ts.Node) error {
		if firstErr == nil && node.IsError() {
			firstErr = fmt.Errorf("realm: %s: syntax error near %s", path, node.String())
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("realm: %s: %w", path, err)
	}
	return firstErr
}
