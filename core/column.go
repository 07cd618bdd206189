package core

import (
	"fmt"
	"strings"
)

type DataType int

const (
	FloatType DataType = iota
	IntegerType
	TextType
	BoolType
	UuidType
)

var dataTypeNames = map[DataType]string{
	FloatType:   "Float",
	IntegerType: "Integer",
	TextType:    "Text",
	BoolType:    "Bool",
	UuidType:    "Uuid",
}

// ParseDataType maps a type keyword to its DataType, ignoring case.
func ParseDataType(name string) (DataType, bool) {
	switch strings.ToLower(name) {
	case "float":
		return FloatType, true
	case "integer":
		return IntegerType, true
	case "text":
		return TextType, true
	case "bool":
		return BoolType, true
	case "uuid":
		return UuidType, true
	default:
		return 0, false
	}
}

func (dataType DataType) String() string {
	if name, ok := dataTypeNames[dataType]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", int(dataType))
}

func (dataType DataType) MarshalText() ([]byte, error) {
	name, ok := dataTypeNames[dataType]
	if !ok {
		return nil, fmt.Errorf("unknown data type %d", int(dataType))
	}
	return []byte(name), nil
}

func (dataType *DataType) UnmarshalText(text []byte) error {
	parsed, ok := ParseDataType(string(text))
	if !ok {
		return fmt.Errorf("unknown data type %q", string(text))
	}
	*dataType = parsed
	return nil
}

type Column struct {
	Name       string     `json:"name"`
	DataType   DataType   `json:"data_type"`
	Values     []DataType `json:"values"`
	PrimaryKey bool       `json:"is_primary_key"`
}

// CloneColumns returns a deep copy of columns.
func CloneColumns(columns []Column) []Column {
	if columns == nil {
		return nil
	}
	cloned := make([]Column, len(columns))
	for i, column := range columns {
		cloned[i] = column
		cloned[i].Values = append([]DataType{}, column.Values...)
	}
	return cloned
}
