package parser

import "fmt"

// ParseError reports malformed equation text. Line and Column are 1-based and
// refer to the block that was parsed.
type ParseError struct {
	Line   int
	Column int
	Source string
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

func errorAt(tok Token, source, format string, args ...any) *ParseError {
	return &ParseError{
		Line:   tok.Pos.Line,
		Column: tok.Pos.Column,
		Source: source,
		Msg:    fmt.Sprintf(format, args...),
	}
}
