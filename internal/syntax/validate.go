package syntax

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// tree-sitter-python recovers from indentation mistakes and still accepts a
// few Python 2 statement forms without producing ERROR nodes. validate
// rejects those trees so only input Python 3 itself would compile is lowered.

const tabSize = 8

// validate returns the first violation in source order, or nil
func validate(root *sitter.Node, code []byte) *ParseError {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := checkNode(n, code); err != nil {
			return err
		}

		for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
			if child := n.NamedChild(uint(i)); child != nil {
				stack = append(stack, child)
			}
		}
	}
	return nil
}

func checkNode(n *sitter.Node, code []byte) *ParseError {
	switch n.Kind() {
	case "print_statement":
		return newParseError(n, "Missing parentheses in call to 'print'")
	case "exec_statement":
		return newParseError(n, "Missing parentheses in call to 'exec'")
	case "expression_statement":
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if child := n.NamedChild(i); child != nil && child.Kind() == "named_expression" {
				return newParseError(child, "invalid syntax: unparenthesized ':=' statement")
			}
		}
	case "module":
		return checkIndentation(statements(n), -1, 0, code)
	case "block":
		stmts := statements(n)
		if len(stmts) == 0 {
			return expectedBlock(n, code)
		}
		headerRow := int(n.StartPosition().Row)
		if prev := n.PrevSibling(); prev != nil {
			headerRow = int(prev.EndPosition().Row)
		} else if parent := n.Parent(); parent != nil {
			headerRow = int(parent.StartPosition().Row)
		}
		return checkIndentation(stmts, headerRow, -1, code)
	}
	return nil
}

// statements returns the named children of a module or block that are
// statements rather than extras
func statements(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || ignoredKinds[child.Kind()] {
			continue
		}
		out = append(out, child)
	}
	return out
}

// checkIndentation requires every statement that begins a line to start at
// the same indentation. Statements sharing a line with the header or with
// the previous statement (a: b, x = 1; y = 2) are not line starts.
// expected < 0 takes the first line start's indentation as the level.
func checkIndentation(stmts []*sitter.Node, prevRow, expected int, code []byte) *ParseError {
	var prev *sitter.Node
	for _, stmt := range stmts {
		start := stmt.StartPosition()
		if int(start.Row) == prevRow {
			prevRow = int(stmt.EndPosition().Row)
			continue
		}
		prevRow = int(stmt.EndPosition().Row)

		col := indentColumn(code, int(stmt.StartByte()))
		switch {
		case expected < 0:
			expected = col
		case col < expected, col > expected && prev != nil && opensBlock(prev):
			// leaving a nested block at a level no enclosing block uses
			return newParseError(stmt, "unindent does not match any outer indentation level")
		case col > expected:
			return newParseError(stmt, "unexpected indent")
		}
		prev = stmt
	}
	return nil
}

// opensBlock reports whether a compound statement ends in an indented block,
// looking through clauses and decorated definitions
func opensBlock(n *sitter.Node) bool {
	return findBlock(n, 2)
}

func findBlock(n *sitter.Node, depth int) bool {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Kind() == "block" {
			stmts := statements(child)
			if len(stmts) > 0 && stmts[0].StartPosition().Row > n.StartPosition().Row {
				return true
			}
		}
		if depth > 1 && findBlock(child, depth-1) {
			return true
		}
	}
	return false
}

// indentColumn measures the leading whitespace before offset the way the
// Python tokenizer does: tabs advance to the next multiple of 8 and a form
// feed resets the count.
func indentColumn(code []byte, offset int) int {
	if offset > len(code) {
		offset = len(code)
	}
	lineStart := offset
	for lineStart > 0 && code[lineStart-1] != '\n' && code[lineStart-1] != '\r' {
		lineStart--
	}

	col := 0
	for _, c := range code[lineStart:offset] {
		switch c {
		case '\t':
			col = (col/tabSize + 1) * tabSize
		case '\f':
			col = 0
		default:
			col++
		}
	}
	return col
}

// expectedBlock reports an empty suite at the first token after its header
func expectedBlock(n *sitter.Node, code []byte) *ParseError {
	offset := int(n.StartByte())
	for offset < len(code) && isSpace(code[offset]) {
		offset++
	}

	line, col := 1, 1
	for _, c := range code[:min(offset, len(code))] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &ParseError{Line: line, Column: col, Message: "expected an indented block"}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f' || c == '\r' || c == '\n'
}
