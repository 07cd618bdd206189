package sql

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupported       = errors.New("unsupported operation")
	ErrEmptyColumnTokens = errors.New("column declaration has no tokens")
)

// KeywordNotFoundError reports a two-word command whose second word is
// missing or wrong. FoundWordAfter is empty at end of input.
type KeywordNotFoundError struct {
	WordBefore        string
	ExpectedWordAfter string
	FoundWordAfter    string
}

func (e *KeywordNotFoundError) Error() string {
	if e.FoundWordAfter == "" {
		return fmt.Sprintf("expected %q after %q, found end of input", e.ExpectedWordAfter, e.WordBefore)
	}
	return fmt.Sprintf("expected %q after %q, found %q", e.ExpectedWordAfter, e.WordBefore, e.FoundWordAfter)
}

type FirstTokenNotCommandError struct {
	FoundContent string
}

func (e *FirstTokenNotCommandError) Error() string {
	return fmt.Sprintf("statement must start with a command, found %q", e.FoundContent)
}

type TokenNotFoundError struct {
	Expected TokenType
}

func (e *TokenNotFoundError) Error() string {
	return fmt.Sprintf("expected %s token, found end of statement", e.Expected)
}

type MissingCharInTokenError struct {
	MissingChar          rune
	CharExpectedPosition int
	FoundContent         string
}

func (e *MissingCharInTokenError) Error() string {
	return fmt.Sprintf("expected %q at position %d in %q", e.MissingChar, e.CharExpectedPosition, e.FoundContent)
}

type UnexpectedCharInTokenError struct {
	UnexpectedChar rune
	CharPosition   int
	Content        string
}

func (e *UnexpectedCharInTokenError) Error() string {
	return fmt.Sprintf("unexpected %q at position %d in %q", e.UnexpectedChar, e.CharPosition, e.Content)
}

type NoDataTypeProvidedError struct {
	ColumnName string
}

func (e *NoDataTypeProvidedError) Error() string {
	return fmt.Sprintf("no data type provided for column %q", e.ColumnName)
}

type UnexpectedDataTypeProvidedError struct {
	Found string
}

func (e *UnexpectedDataTypeProvidedError) Error() string {
	return fmt.Sprintf("unexpected data type %q (expected float, integer, text, bool or uuid)", e.Found)
}

type MissingEndOfStatementCharError struct {
	MissingChar rune
}

func (e *MissingEndOfStatementCharError) Error() string {
	return fmt.Sprintf("statement must end with %q", e.MissingChar)
}

// UnsupportedStatementError is returned for recognized statement kinds that
// cannot be compiled or executed yet.
type UnsupportedStatementError struct {
	Command CommandType
}

func (e *UnsupportedStatementError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupported, e.Command)
}

func (e *UnsupportedStatementError) Is(target error) bool {
	return target == ErrUnsupported
}
