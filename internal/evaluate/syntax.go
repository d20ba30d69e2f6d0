package evaluate

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
)

// LanguageNone disables the syntax gate for prose-like skills whose
// "code" is not expected to parse.
const LanguageNone = "none"

// SyntaxError reports generated code the language grammar could not parse.
// Line and Column are 1-based.
type SyntaxError struct {
	Language string
	Line     int
	Column   int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s syntax error at line %d, column %d", e.Language, e.Line, e.Column)
}

// grammar maps a language name to its tree-sitter grammar. Languages without
// a grammar return nil and are not gated.
func grammar(language string) *sitter.Language {
	switch strings.ToLower(language) {
	case "python", "py":
		return python.GetLanguage()
	case "go", "golang":
		return golang.GetLanguage()
	case "javascript", "js":
		return javascript.GetLanguage()
	}
	return nil
}

// CheckSyntax parses code with the grammar for language and returns a
// *SyntaxError when the parse tree contains errors. LanguageNone and
// languages without a grammar pass unchecked.
func CheckSyntax(code, language string) error {
	lang := grammar(language)
	if lang == nil {
		return nil
	}

	// Parsers are not safe for concurrent use, so each check gets its own.
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(code))
	if err != nil {
		return fmt.Errorf("parsing %s code: %w", language, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	point := firstErrorPoint(root)
	return &SyntaxError{
		Language: language,
		Line:     int(point.Row) + 1,
		Column:   int(point.Column) + 1,
	}
}

// firstErrorPoint descends to the first ERROR or missing node under n.
func firstErrorPoint(n *sitter.Node) sitter.Point {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n.StartPoint()
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.IsMissing() || child.HasError() {
			return firstErrorPoint(child)
		}
	}
	return n.StartPoint()
}
