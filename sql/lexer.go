package sql

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

type TokenType int

const (
	CommandToken TokenType = iota
	OperatorToken
	TargetName
	Expression
)

func (tokenType TokenType) String() string {
	switch tokenType {
	case CommandToken:
		return "Command"
	case OperatorToken:
		return "Operator"
	case TargetName:
		return "TargetName"
	case Expression:
		return "Expression"
	default:
		return fmt.Sprintf("TokenType(%d)", int(tokenType))
	}
}

type CommandType int

const (
	CreateTable CommandType = iota
	Select
	InsertInto
	Update
	Delete
)

func (command CommandType) String() string {
	switch command {
	case CreateTable:
		return "CREATE TABLE"
	case Select:
		return "SELECT"
	case InsertInto:
		return "INSERT INTO"
	case Update:
		return "UPDATE"
	case Delete:
		return "DELETE"
	default:
		return fmt.Sprintf("CommandType(%d)", int(command))
	}
}

type OperatorType int

const (
	Equal OperatorType = iota
	Plus
)

func (operator OperatorType) String() string {
	switch operator {
	case Equal:
		return "Equal"
	case Plus:
		return "Plus"
	default:
		return fmt.Sprintf("OperatorType(%d)", int(operator))
	}
}

// Token is one classified word of a statement. Command is set only for
// command tokens and Operator only for operator tokens.
type Token struct {
	Type     TokenType
	Command  CommandType
	Operator OperatorType
	Value    string
}

func (token Token) String() string {
	switch token.Type {
	case CommandToken:
		return "Command(" + token.Command.String() + ")"
	case OperatorToken:
		return "Operator(" + token.Operator.String() + ")"
	case TargetName:
		return "TargetName(" + token.Value + ")"
	case Expression:
		return "Expression(" + token.Value + ")"
	default:
		return "Unknown(" + token.Value + ")"
	}
}

var literalPattern = regexp.MustCompile(`(?i)^(?:'[^']*'|-?\d+(?:\.\d+)?|true|false)$`)

type continuation struct {
	word    string
	command CommandType
}

var twoWordCommands = map[string]continuation{
	"create": {"table", CreateTable},
	"insert": {"into", InsertInto},
}

var singleWordCommands = map[string]CommandType{
	"select": Select,
	"update": Update,
	"delete": Delete,
}

var operators = map[string]OperatorType{
	"=": Equal,
	"+": Plus,
}

type lexeme struct {
	text    string
	command CommandType
	merged  bool
}

// Tokenize splits input on ASCII whitespace and classifies every word.
// Either the whole input is tokenized or the first malformed two-word
// command is reported.
func Tokenize(input string) ([]Token, error) {
	lexemes, err := group(strings.FieldsFunc(input, isSpace))
	if err != nil {
		return nil, err
	}

	tokens := make([]Token, 0, len(lexemes))
	for _, lexeme := range lexemes {
		tokens = append(tokens, classify(lexeme))
	}
	return tokens, nil
}

func group(words []string) ([]lexeme, error) {
	stream := NewLookahead(slices.Values(words))
	defer stream.Close()

	lexemes := make([]lexeme, 0, len(words))
	for {
		word, ok := stream.Next()
		if !ok {
			return lexemes, nil
		}

		expected, isPair := twoWordCommands[strings.ToLower(word)]
		if !isPair {
			lexemes = append(lexemes, lexeme{text: word})
			continue
		}

		next, _ := stream.Peek(0)
		if !strings.EqualFold(next, expected.word) {
			return nil, &KeywordNotFoundError{
				WordBefore:        word,
				ExpectedWordAfter: expected.word,
				FoundWordAfter:    next,
			}
		}
		stream.Next()
		lexemes = append(lexemes, lexeme{text: word + " " + next, command: expected.command, merged: true})
	}
}

func classify(lexeme lexeme) Token {
	if lexeme.merged {
		return Token{Type: CommandToken, Command: lexeme.command, Value: lexeme.text}
	}
	if command, ok := singleWordCommands[strings.ToLower(lexeme.text)]; ok {
		return Token{Type: CommandToken, Command: command, Value: lexeme.text}
	}
	if operator, ok := operators[lexeme.text]; ok {
		return Token{Type: OperatorToken, Operator: operator, Value: lexeme.text}
	}
	if literalPattern.MatchString(lexeme.text) {
		return Token{Type: Expression, Value: lexeme.text}
	}
	return Token{Type: TargetName, Value: lexeme.text}
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
