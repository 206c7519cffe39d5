package dreamlands

import (
	"fmt"
	"math"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Encoder renders data values as canonical DREAMLANDS text.
type Encoder struct {
	// CharOptimization writes strings of exactly one character between
	// single quotes. Such values read back as Char.
	CharOptimization bool

	// Shebang prefixes the output with the Shebang comment line.
	Shebang bool
}

// NewEncoder returns an Encoder with all options disabled.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode renders v, which must be a map or a list. Accepted values are *Map,
// maps with string keys (written in sorted key order), slices and arrays,
// booleans, integers within the int64 range, floats, Char and non-empty
// strings. Pointers and interfaces are followed. Values nested deeper than
// MaxDepth, such as self-referencing ones, are rejected.
//
// An empty root renders as empty text, which reads back as an empty *Map
// whether the root was a map or a list.
func (e *Encoder) Encode(v any) (string, error) {
	root := indirect(reflect.ValueOf(v))
	if !isContainer(root) {
		return "", fmt.Errorf("%w, got %T", ErrInvalidRoot, v)
	}

	var b strings.Builder
	if e.Shebang {
		b.WriteString(Shebang)
		b.WriteByte(LineEndChar)
	}
	if err := e.writeContainer(&b, root, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

// EncodeFile renders v and writes it to path, creating or truncating it.
func (e *Encoder) EncodeFile(v any, path string) error {
	text, err := e.Encode(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// MaxDepth is the deepest container nesting the encoder and Marshal accept.
const MaxDepth = 10000

// errTooDeep reports a value nested beyond MaxDepth. It is passed up
// unwrapped.
var errTooDeep = fmt.Errorf("%w: value nested deeper than %d levels, possibly cyclic", ErrUnsupportedType, MaxDepth)

// within prefixes err with the location it occurred at.
func within(err error, format string, args ...any) error {
	if err == errTooDeep {
		return err
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

var mapType = reflect.TypeOf((*Map)(nil))

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || (v.Kind() == reflect.Pointer && v.Type() != mapType)) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isContainer(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	if v.Type() == mapType {
		return !v.IsNil()
	}
	switch v.Kind() {
	case reflect.Map:
		return v.Type().Key().Kind() == reflect.String
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

func containerLen(v reflect.Value) int {
	if v.Type() == mapType {
		return v.Interface().(*Map).Len()
	}
	return v.Len()
}

// writeContainer writes the entries of a map or the elements of a list, one
// per line, indented by depth tabs.
func (e *Encoder) writeContainer(b *strings.Builder, v reflect.Value, depth int) error {
	if depth > MaxDepth {
		return errTooDeep
	}
	if v.Type() == mapType {
		for key, child := range v.Interface().(*Map).All() {
			if err := e.writeEntry(b, key, child, depth); err != nil {
				return err
			}
		}
		return nil
	}

	switch v.Kind() {
	case reflect.Map:
		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}
		slices.Sort(keys)
		for _, key := range keys {
			child := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
			if err := e.writeEntry(b, key, child.Interface(), depth); err != nil {
				return err
			}
		}
	default:
		for i := range v.Len() {
			if err := e.writeElement(b, ListKey, v.Index(i).Interface(), depth); err != nil {
				return within(err, "element %d", i)
			}
		}
	}
	return nil
}

func (e *Encoder) writeEntry(b *strings.Builder, key string, v any, depth int) error {
	if key == ListKey || !ValidKey(key) {
		return &KeyError{ParseError{
			Message: fmt.Sprintf("invalid key %q: use only [a-z], [A-Z], [0-9] and underscores", key),
		}, key}
	}
	if err := e.writeElement(b, key, v, depth); err != nil {
		return within(err, "key %q", key)
	}
	return nil
}

func (e *Encoder) writeElement(b *strings.Builder, key string, v any, depth int) error {
	b.WriteString(strings.Repeat(string(TabChar), depth))
	b.WriteString(key)
	b.WriteByte(SeparatorChar)

	rv := indirect(reflect.ValueOf(v))
	if isContainer(rv) {
		if containerLen(rv) == 0 {
			return ErrEmptyContainer
		}
		b.WriteByte(LineEndChar)
		return e.writeContainer(b, rv, depth+1)
	}

	s, err := e.scalar(rv)
	if err != nil {
		return err
	}
	b.WriteString(s)
	b.WriteByte(LineEndChar)
	return nil
}

var charType = reflect.TypeOf(Char(0))

func (e *Encoder) scalar(v reflect.Value) (string, error) {
	if !v.IsValid() {
		return "", ErrNilValue
	}
	if v.Type() == charType {
		return quote(string(rune(v.Int())), CharQuote), nil
	}

	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return True, nil
		}
		return False, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u > math.MaxInt64 {
			return "", fmt.Errorf("%w: %d overflows int64", ErrUnsupportedType, u)
		}
		return strconv.FormatUint(u, 10), nil
	case reflect.Float32:
		return formatFloat(v.Float(), 32)
	case reflect.Float64:
		return formatFloat(v.Float(), 64)
	case reflect.String:
		s := v.String()
		if s == "" {
			return "", ErrEmptyString
		}
		if e.CharOptimization && utf8.RuneCountInString(s) == 1 {
			return quote(s, CharQuote), nil
		}
		return quote(s, StringQuote), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, v.Type())
}

// formatFloat writes f in plain decimal notation, always with a dot, so that
// it reads back as a float.
func formatFloat(f float64, bitSize int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", ErrInvalidFloat
	}
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s, nil
}

// quote wraps s in q, escaping the quote itself, backslashes and the control
// characters of the escape table.
func quote(s string, q rune) string {
	var b strings.Builder
	b.WriteRune(q)
	for _, ch := range s {
		esc, ok := unescapes[ch]
		switch {
		case ch == q || ch == EscapeChar:
			b.WriteRune(EscapeChar)
			b.WriteRune(ch)
		case ok && ch != CharQuote && ch != StringQuote:
			b.WriteRune(EscapeChar)
			b.WriteRune(esc)
		default:
			b.WriteRune(ch)
		}
	}
	b.WriteRune(q)
	return b.String()
}
