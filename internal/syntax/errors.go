package syntax

import "fmt"

// ParseError reports source text that is not valid Python
type ParseError struct {
	Line    int // 1-based
	Column  int // 1-based, in bytes
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}
