// Package models defines the field, option and request types shared by the pipeline
package models

// ValueType is the inferred type of a single JSON member.
type ValueType int

const (
	Text ValueType = iota
	Integer
	Boolean
	FloatingPoint
)

// String returns the enum name, used in logs and test output.
func (v ValueType) String() string {
	switch v {
	case Text:
		return "Text"
	case Integer:
		return "Integer"
	case Boolean:
		return "Boolean"
	case FloatingPoint:
		return "FloatingPoint"
	default:
		return "Unknown"
	}
}

// DisplayName is the type name written into generated field declarations.
func (v ValueType) DisplayName() string {
	switch v {
	case Text:
		return "String"
	case Boolean:
		return "Boolean"
	case FloatingPoint:
		return "Double"
	default:
		return "Integer"
	}
}

// ColumnType is the SQLite column type used in the generated table definition.
// Booleans are stored as integers.
func (v ValueType) ColumnType() string {
	switch v {
	case Text:
		return "text"
	case FloatingPoint:
		return "float"
	default:
		return "integer"
	}
}

// CursorGetter is the row accessor used to read a column of this type back.
func (v ValueType) CursorGetter() string {
	switch v {
	case Text:
		return "getString"
	case FloatingPoint:
		return "getDouble"
	default:
		return "getInt"
	}
}

// Field is one discovered member of the generated class.
type Field struct {
	// JSONKey is the key exactly as it appeared in the input, used by the parse routine.
	JSONKey string
	// Name is the lowerCamel identifier used in declarations.
	Name string
	Type ValueType
	// StorageName is the snake_case column name. Empty until persistence generation assigns it.
	StorageName string
}

// Options are the generation flags supplied alongside the input lines.
type Options struct {
	EmitPersistence bool
	IsMasterEntity  bool
	// FilterFieldKey narrows the single-row fetch when non-empty.
	FilterFieldKey string
	// IDFieldKey forces the matching JSON key's field name to "id" when non-empty.
	IDFieldKey string
}

// Request is a single generation run.
type Request struct {
	ClassName string
	Lines     []string
	Options   Options
}
