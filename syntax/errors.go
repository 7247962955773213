// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "fmt"

// ErrorKind is the taxonomy of parse-time failures from spec §7. It names
// a kind, not a distinct Go type: every failure surfaces as a *ParseError
// tagged with one of these.
type ErrorKind int

const (
	UnclosedSingleQuote ErrorKind = iota
	UnclosedDoubleQuote
	UnclosedCommandSubst
	UnclosedGrouping
	UnclosedSubshell
	UnclosedWhileClause
	UnclosedUntilClause
	UnclosedIf
	UnclosedCase
	UnclosedFor
	MissingDoKeyword
	MissingRedirOperand
	MissingHereDocDelimiter
	MissingHereDocContent
	EmptyWhileCondition
	EmptyUntilCondition
	EmptyCaseItem
	EmptyPipeline
	InvalidFunctionName
	InvalidCommandToken
	UnexpectedToken
	UnexpectedEndOfInput
	IOError
	Unknown
)

var errorKindText = map[ErrorKind]string{
	UnclosedSingleQuote:     "unclosed single quote",
	UnclosedDoubleQuote:     "unclosed double quote",
	UnclosedCommandSubst:    "unclosed command substitution",
	UnclosedGrouping:        "unclosed { } grouping",
	UnclosedSubshell:        "unclosed ( ) subshell",
	UnclosedWhileClause:     "unclosed while clause",
	UnclosedUntilClause:     "unclosed until clause",
	UnclosedIf:              "unclosed if clause",
	UnclosedCase:            "unclosed case clause",
	UnclosedFor:             "unclosed for clause",
	MissingDoKeyword:        "missing do keyword",
	MissingRedirOperand:     "missing redirection operand",
	MissingHereDocDelimiter: "missing here-document delimiter",
	MissingHereDocContent:   "missing here-document content",
	EmptyWhileCondition:     "empty while condition",
	EmptyUntilCondition:     "empty until condition",
	EmptyCaseItem:           "empty case item",
	EmptyPipeline:           "empty pipeline",
	InvalidFunctionName:     "invalid function name",
	InvalidCommandToken:     "invalid command token",
	UnexpectedToken:         "unexpected token",
	UnexpectedEndOfInput:    "unexpected end of input",
	IOError:                 "I/O error",
	Unknown:                 "unknown syntax error",
}

func (k ErrorKind) String() string { return errorKindText[k] }

// ParseError represents a single failure found while parsing. Every parse
// function is total: it returns either a well-formed AST or exactly one
// ParseError, never a partial AST (spec §4.9).
type ParseError struct {
	Kind     ErrorKind
	Location Location

	// Opening carries the location of the matching opening keyword or
	// operator for "unclosed ..." kinds, so a diagnostic printer can
	// annotate both ends (spec §7).
	Opening *Location

	// Text overrides the default message derived from Kind, for errors
	// that want to report offending token text.
	Text string

	// Err wraps the underlying I/O error for ErrorKind == IOError.
	Err error
}

func (e *ParseError) Error() string {
	msg := e.Text
	if msg == "" {
		msg = e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Location, msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

func newErr(kind ErrorKind, loc Location) *ParseError {
	return &ParseError{Kind: kind, Location: loc}
}

func newErrOpening(kind ErrorKind, loc, opening Location) *ParseError {
	return &ParseError{Kind: kind, Location: loc, Opening: &opening}
}
