package core

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseDataType(t *testing.T) {
	tests := []struct {
		input    string
		expected DataType
		ok       bool
	}{
		{"float", FloatType, true},
		{"INTEGER", IntegerType, true},
		{"Text", TextType, true},
		{"bool", BoolType, true},
		{"uUiD", UuidType, true},
		{"int", 0, false},
		{"varchar", 0, false},
		{"", 0, false},
	}

	for _, test := range tests {
		actual, ok := ParseDataType(test.input)
		if ok != test.ok {
			t.Errorf("ParseDataType(%q) ok = %v, expected %v", test.input, ok, test.ok)
			continue
		}
		if ok && actual != test.expected {
			t.Errorf("ParseDataType(%q) = %v, expected %v", test.input, actual, test.expected)
		}
	}
}

func TestColumnJSON(t *testing.T) {
	column := Column{Name: "id", DataType: IntegerType, Values: []DataType{}, PrimaryKey: true}

	data, err := json.Marshal(column)
	if err != nil {
		t.Fatalf("Failed to marshal column: %v", err)
	}

	expected := `{"name":"id","data_type":"Integer","values":[],"is_primary_key":true}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}

	var decoded Column
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal column: %v", err)
	}
	if !reflect.DeepEqual(column, decoded) {
		t.Errorf("Expected %+v, got %+v", column, decoded)
	}
}

func TestUnmarshalUnknownDataType(t *testing.T) {
	var column Column
	err := json.Unmarshal([]byte(`{"name":"id","data_type":"Decimal"}`), &column)
	if err == nil {
		t.Error("Expected error for unknown data type")
	}
}

func TestCloneColumns(t *testing.T) {
	columns := []Column{{Name: "a", DataType: TextType, Values: []DataType{TextType}}}
	cloned := CloneColumns(columns)

	cloned[0].Name = "b"
	cloned[0].Values[0] = IntegerType

	if columns[0].Name != "a" || columns[0].Values[0] != TextType {
		t.Errorf("Clone shares state with original: %+v", columns[0])
	}
}

func TestValueString(t *testing.T) {
	row := Row{Integer(-7), Text("hi"), Real(1.5), Null()}
	expected := []string{"-7", "hi", "1.5", "NULL"}

	if actual := row.Strings(); !reflect.DeepEqual(actual, expected) {
		t.Errorf("Expected %v, got %v", expected, actual)
	}
}
