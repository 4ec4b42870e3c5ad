package syntax

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/rohankatakam/csmell/internal/limits"
)

// The grammar is immutable and safe to share between parsers
var pythonLanguage = sitter.NewLanguage(tree_sitter_python.Language())

// Parser converts Python source into a lowered syntax tree.
// A Parser holds no tree-sitter state and is safe for concurrent use; each
// call to Parse allocates and releases its own tree-sitter parser (CGO).
type Parser struct {
	limits limits.Limits
}

// NewParser creates a parser that enforces the given limits
func NewParser(l limits.Limits) *Parser {
	return &Parser{limits: l}
}

// Parse parses source with the default limits
func Parse(source string) (*Module, error) {
	return NewParser(limits.Default()).Parse(source)
}

// Parse parses source and returns the module node.
// Returns *ParseError for invalid syntax and *limits.ExceededError when the
// input crosses a configured bound.
func (p *Parser) Parse(source string) (*Module, error) {
	if err := limits.Check(limits.ResourceSourceBytes, len(source), p.limits.MaxSourceBytes, 0); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	if parser == nil {
		return nil, fmt.Errorf("failed to create tree-sitter parser")
	}
	defer parser.Close()

	if err := parser.SetLanguage(pythonLanguage); err != nil {
		return nil, fmt.Errorf("failed to set language python: %w", err)
	}

	code := []byte(source)
	tree := parser.Parse(code, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse code")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, firstSyntaxError(root, code)
	}
	if perr := validate(root, code); perr != nil {
		return nil, perr
	}

	l := &lowerer{code: code, limits: p.limits}
	return l.module(root)
}

// firstSyntaxError finds the first ERROR or MISSING node in pre-order
func firstSyntaxError(root *sitter.Node, code []byte) *ParseError {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.IsMissing() {
			return newParseError(n, fmt.Sprintf("missing %q", n.Kind()))
		}
		if n.IsError() {
			snippet := errorSnippet(nodeText(n, code))
			if snippet == "" {
				return newParseError(n, "invalid syntax")
			}
			return newParseError(n, fmt.Sprintf("invalid syntax near %q", snippet))
		}
		if !n.HasError() {
			continue
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			if child := n.Child(uint(i)); child != nil {
				stack = append(stack, child)
			}
		}
	}
	// HasError was set but no node carries it; report the root
	return &ParseError{Line: 1, Column: 1, Message: "invalid syntax"}
}

func newParseError(n *sitter.Node, msg string) *ParseError {
	p := n.StartPosition()
	return &ParseError{Line: int(p.Row) + 1, Column: int(p.Column) + 1, Message: msg}
}

const maxSnippet = 20

func errorSnippet(text string) string {
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	if len(text) > maxSnippet {
		text = text[:maxSnippet] + "..."
	}
	return text
}

// nodeText extracts text from a node using byte offsets
func nodeText(node *sitter.Node, code []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if int(end) > len(code) {
		end = uint(len(code))
	}
	if start > end {
		return ""
	}
	return string(code[start:end])
}

func nodeLine(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

// hasToken reports whether node has a direct anonymous child of the given kind
func hasToken(node *sitter.Node, kind string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && !child.IsNamed() && child.Kind() == kind {
			return true
		}
	}
	return false
}
