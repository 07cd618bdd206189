package sql

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/nickyhof/RowDB/core"
)

// Instruction is the executable form of one parsed statement.
type Instruction struct {
	BaseCommand CommandType
	TargetTable string
	Columns     []core.Column
}

func (instruction Instruction) String() string {
	columns := make([]string, len(instruction.Columns))
	for i, column := range instruction.Columns {
		columns[i] = column.Name + " " + column.DataType.String()
		if column.PrimaryKey {
			columns[i] += " PRIMARY KEY"
		}
	}
	return fmt.Sprintf("%s %s (%s)", instruction.BaseCommand, instruction.TargetTable, strings.Join(columns, ", "))
}

// Parse builds an Instruction from a tokenized statement. An empty token
// slice yields a nil Instruction and no error.
func Parse(tokens []Token) (*Instruction, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	first := tokens[0]
	if first.Type != CommandToken {
		return nil, &FirstTokenNotCommandError{FoundContent: first.Value}
	}

	switch first.Command {
	case CreateTable:
		return parseCreateTable(tokens)
	default:
		return nil, &UnsupportedStatementError{Command: first.Command}
	}
}

// parseCreateTable parses: CREATE TABLE name ( col type [PRIMARY KEY], ... );
func parseCreateTable(tokens []Token) (*Instruction, error) {
	if len(tokens) < 2 {
		return nil, &TokenNotFoundError{Expected: Expression}
	}

	name := tokens[1].Value
	if position := strings.IndexRune(name, '('); position >= 0 {
		return nil, &UnexpectedCharInTokenError{UnexpectedChar: '(', CharPosition: position, Content: name}
	}

	// A lone ";" after the closing parenthesis terminates the statement.
	end := len(tokens)
	terminated := false
	if end > 2 && tokens[end-1].Value == ";" {
		end--
		terminated = true
	}

	if end < 3 {
		return nil, &TokenNotFoundError{Expected: Expression}
	}
	opener := tokens[2].Value
	if !strings.HasPrefix(opener, "(") {
		return nil, &MissingCharInTokenError{MissingChar: '(', CharExpectedPosition: 0, FoundContent: opener}
	}

	start := 2
	if opener == "(" {
		start = 3
	}

	columns := []core.Column{}
	for start < end {
		boundary := findBoundary(tokens, start, end)
		if boundary < 0 {
			break
		}

		column, err := parseColumnDeclaration(tokens[start : boundary+1])
		if err != nil {
			return nil, err
		}
		columns = append(columns, column)
		start = boundary + 1
	}

	last := tokens[end-1].Value
	if !strings.ContainsRune(last, ')') {
		return nil, &MissingCharInTokenError{MissingChar: ')', CharExpectedPosition: firstLetter(last), FoundContent: last}
	}
	if !terminated && !strings.HasSuffix(last, ";") {
		return nil, &MissingEndOfStatementCharError{MissingChar: ';'}
	}

	return &Instruction{
		BaseCommand: CreateTable,
		TargetTable: name,
		Columns:     columns,
	}, nil
}

// findBoundary returns the index of the first token in [start, end) that
// closes a column declaration, or -1.
func findBoundary(tokens []Token, start, end int) int {
	for i := start; i < end; i++ {
		if strings.ContainsAny(tokens[i].Value, ",)") {
			return i
		}
	}
	return -1
}

func parseColumnDeclaration(group []Token) (core.Column, error) {
	if len(group) == 0 {
		return core.Column{}, ErrEmptyColumnTokens
	}

	name := strings.ReplaceAll(group[0].Value, "(", "")
	if stripChars(name, ",);") == "" {
		return core.Column{}, ErrEmptyColumnTokens
	}

	if len(group) < 2 {
		return core.Column{}, &NoDataTypeProvidedError{ColumnName: name}
	}
	typeName := stripChars(group[1].Value, ",);")
	dataType, ok := core.ParseDataType(typeName)
	if !ok {
		return core.Column{}, &UnexpectedDataTypeProvidedError{Found: typeName}
	}

	return core.Column{
		Name:       name,
		DataType:   dataType,
		Values:     []core.DataType{},
		PrimaryKey: isPrimaryKey(group[2:]),
	}, nil
}

// isPrimaryKey reports whether the two tokens following the data type
// spell PRIMARY KEY.
func isPrimaryKey(constraint []Token) bool {
	stream := NewLookahead(slices.Values(constraint))
	defer stream.Close()

	first, ok := stream.Peek(0)
	if !ok {
		return false
	}
	second, ok := stream.Peek(1)
	if !ok {
		return false
	}

	phrase := strings.ToLower(first.Value + " " + second.Value)
	return stripChars(phrase, ",);") == "primary key"
}

func stripChars(s, chars string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(chars, r) {
			return -1
		}
		return r
	}, s)
}

func firstLetter(s string) int {
	for i, r := range s {
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			return i
		}
	}
	return 0
}
