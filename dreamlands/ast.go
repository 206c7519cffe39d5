package dreamlands

import (
	"fmt"
	"iter"
	"slices"
)

// Position tracks a source location for error messages.
type Position struct {
	Filename string // empty for in-memory text
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Offset   int    // 0-based byte offset into source
}

func (p Position) String() string {
	switch {
	case p.Line == 0:
		return p.Filename
	case p.Filename == "":
		return fmt.Sprintf("line %d, col %d", p.Line, p.Column)
	default:
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
}

func (p Position) prefix() string {
	if s := p.String(); s != "" {
		return s + ": "
	}
	return ""
}

// ScalarKind discriminates the Scalar tagged union.
type ScalarKind string

const (
	ScalarNone   ScalarKind = "" // parent marker: children follow
	ScalarBool   ScalarKind = "bool"
	ScalarInt    ScalarKind = "int"
	ScalarFloat  ScalarKind = "float"
	ScalarChar   ScalarKind = "char"
	ScalarString ScalarKind = "string"
)

// Scalar is the value carried by an Instruction. Kind determines which typed
// field is populated.
type Scalar struct {
	Kind  ScalarKind
	Bool  bool    // populated when Kind == ScalarBool
	Int   int64   // populated when Kind == ScalarInt
	Float float64 // populated when Kind == ScalarFloat
	Char  Char    // populated when Kind == ScalarChar
	Str   string  // populated when Kind == ScalarString
}

// IsParent reports whether the scalar is the parent marker.
func (s Scalar) IsParent() bool { return s.Kind == ScalarNone }

// Interface returns the Go data value of the scalar, or nil for the parent
// marker.
func (s Scalar) Interface() any {
	switch s.Kind {
	case ScalarBool:
		return s.Bool
	case ScalarInt:
		return s.Int
	case ScalarFloat:
		return s.Float
	case ScalarChar:
		return s.Char
	case ScalarString:
		return s.Str
	default:
		return nil
	}
}

// ImportDepth is the depth sentinel marking an import directive.
const ImportDepth = -1

// Instruction is one parsed logical line of a document.
type Instruction struct {
	Pos   Position
	Depth int    // leading tab count, or ImportDepth
	Key   string // identifier or ListKey; empty for imports
	Value Scalar
	Path  string // referenced file, set when Depth == ImportDepth
}

// IsImport reports whether the instruction is an import directive.
func (in Instruction) IsImport() bool { return in.Depth == ImportDepth }

// Char is a single-character scalar, written between single quotes.
type Char rune

func (c Char) String() string { return string(c) }

// Map is an ordered string-keyed map. The zero value is ready to use.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Set inserts or replaces the value for key. New keys are appended to the
// iteration order.
func (m *Map) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get looks up the value for key. Returns the value and true if found.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Delete removes key, keeping the order of the remaining keys.
func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string { return slices.Clone(m.keys) }

// All iterates over the entries in insertion order.
func (m *Map) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// ToPlain converts a data value into plain Go types: maps become
// map[string]any, lists []any and chars one-rune strings. Other values are
// returned unchanged.
func ToPlain(v any) any {
	switch v := v.(type) {
	case *Map:
		out := make(map[string]any, v.Len())
		for k, child := range v.All() {
			out[k] = ToPlain(child)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = ToPlain(child)
		}
		return out
	case Char:
		return string(v)
	default:
		return v
	}
}
