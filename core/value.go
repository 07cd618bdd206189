package core

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type ValueKind uint8

const (
	IntegerValue ValueKind = iota
	TextValue
	RealValue
	NullValue
)

func (kind ValueKind) String() string {
	switch kind {
	case IntegerValue:
		return "Integer"
	case TextValue:
		return "Text"
	case RealValue:
		return "Real"
	case NullValue:
		return "Null"
	default:
		return fmt.Sprintf("ValueKind(%d)", uint8(kind))
	}
}

// Value is a single row cell. Only the field matching Kind is meaningful.
type Value struct {
	Kind ValueKind
	Int  int64
	Text string
	Real float64
}

type Row []Value

func Integer(v int64) Value {
	return Value{Kind: IntegerValue, Int: v}
}

func Text(s string) Value {
	return Value{Kind: TextValue, Text: s}
}

func Real(f float64) Value {
	return Value{Kind: RealValue, Real: f}
}

func Null() Value {
	return Value{Kind: NullValue}
}

func (value Value) IsNull() bool {
	return value.Kind == NullValue
}

func (value Value) String() string {
	switch value.Kind {
	case IntegerValue:
		return strconv.FormatInt(value.Int, 10)
	case TextValue:
		return value.Text
	case RealValue:
		return strconv.FormatFloat(value.Real, 'g', -1, 64)
	case NullValue:
		return "NULL"
	default:
		return "?"
	}
}

// MarshalJSON renders the cell as its natural JSON value (null for Null).
func (value Value) MarshalJSON() ([]byte, error) {
	switch value.Kind {
	case IntegerValue:
		return json.Marshal(value.Int)
	case TextValue:
		return json.Marshal(value.Text)
	case RealValue:
		return json.Marshal(value.Real)
	case NullValue:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("unknown value kind %d", value.Kind)
	}
}

// Strings renders every cell of the row for display.
func (row Row) Strings() []string {
	out := make([]string, len(row))
	for i, value := range row {
		out[i] = value.String()
	}
	return out
}
