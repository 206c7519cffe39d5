package dreamlands

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// Marshal converts a Go value to a DREAMLANDS document.
//
// Structs become maps. The key of a field is taken from a `dl:"name"` tag,
// then from a `json:"name"` tag, and finally the snake_case version of the
// field name. The "omitempty" option skips zero fields and "-" skips the
// field entirely. Nil pointer fields are skipped as the format has no null.
// Types implementing encoding.TextMarshaler are written as strings.
//
// The root value must marshal to a map or a list.
func Marshal(v any) ([]byte, error) {
	data, err := toData(reflect.ValueOf(v), 0)
	if err != nil {
		return nil, err
	}
	text, err := NewEncoder().Encode(data)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// Unmarshal parses a DREAMLANDS document and stores the result in the value
// pointed to by v, which must be a non-nil pointer.
//
// Maps fill structs (using the same key rules as Marshal) or maps with string
// keys; lists fill slices and arrays. When unmarshalling into an interface
// the value is converted with ToPlain. A Char fills string, rune and Char
// targets; an integer fills any integer or float target.
func Unmarshal(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("invalid target, must be a non-nil pointer")
	}
	value, err := FromText(string(data))
	if err != nil {
		return err
	}
	return assign(value, rv.Elem(), "")
}

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

func toData(v reflect.Value, depth int) (any, error) {
	if depth > MaxDepth {
		return nil, errTooDeep
	}
	if !v.IsValid() {
		return nil, ErrNilValue
	}
	if v.Type() == mapType || v.Type() == charType {
		return v.Interface(), nil
	}
	if v.Type().Implements(textMarshalerType) {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			return nil, ErrNilValue
		}
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, err
		}
		return string(text), nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil, ErrNilValue
		}
		return toData(v.Elem(), depth+1)
	case reflect.Struct:
		return structToData(v, depth)
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key %s", ErrUnsupportedType, v.Type().Key())
		}
		m := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			child, err := toData(iter.Value(), depth+1)
			if err != nil {
				return nil, within(err, "key %q", iter.Key().String())
			}
			m[iter.Key().String()] = child
		}
		return m, nil
	case reflect.Slice, reflect.Array:
		list := make([]any, 0, v.Len())
		for i := range v.Len() {
			child, err := toData(v.Index(i), depth+1)
			if err != nil {
				return nil, within(err, "element %d", i)
			}
			list = append(list, child)
		}
		return list, nil
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return v.Interface(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, v.Type())
}

func structToData(v reflect.Value, depth int) (*Map, error) {
	m := NewMap()
	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty, skip := fieldKey(field)
		if skip {
			continue
		}
		fv := v.Field(i)
		if omitEmpty && fv.IsZero() {
			continue
		}
		switch fv.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
			if fv.IsNil() {
				continue
			}
		}
		child, err := toData(fv, depth+1)
		if err != nil {
			return nil, within(err, "field %s", field.Name)
		}
		m.Set(name, child)
	}
	return m, nil
}

// fieldKey returns the document key of a struct field.
func fieldKey(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag, ok := field.Tag.Lookup("dl")
	if !ok {
		tag, _ = field.Tag.Lookup("json")
	}
	if tag == "-" {
		return "", false, true
	}
	name, options, _ := strings.Cut(tag, ",")
	if name == "" {
		name = toSnakeCase(field.Name)
	}
	return name, strings.Contains(options, "omitempty"), false
}

func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			result.WriteRune('_')
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func mismatch(path string, value any, target reflect.Type) error {
	if path == "" {
		path = "document"
	}
	return fmt.Errorf("%s: cannot unmarshal %T into %s", path, value, target)
}

func assign(value any, v reflect.Value, path string) error {
	if v.Type() == mapType {
		m, ok := value.(*Map)
		if !ok {
			return mismatch(path, value, v.Type())
		}
		v.Set(reflect.ValueOf(m))
		return nil
	}

	if v.CanAddr() {
		if tu, ok := v.Addr().Interface().(encoding.TextUnmarshaler); ok {
			var text string
			switch s := value.(type) {
			case string:
				text = s
			case Char:
				text = string(s)
			default:
				return mismatch(path, value, v.Type())
			}
			if err := tu.UnmarshalText([]byte(text)); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		}
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return assign(value, v.Elem(), path)
	case reflect.Interface:
		plain := reflect.ValueOf(ToPlain(value))
		if !plain.Type().AssignableTo(v.Type()) {
			return mismatch(path, value, v.Type())
		}
		v.Set(plain)
		return nil
	case reflect.Struct:
		m, ok := value.(*Map)
		if !ok {
			return mismatch(path, value, v.Type())
		}
		return assignStruct(m, v, path)
	case reflect.Map:
		m, ok := value.(*Map)
		if !ok || v.Type().Key().Kind() != reflect.String {
			return mismatch(path, value, v.Type())
		}
		if v.IsNil() {
			v.Set(reflect.MakeMapWithSize(v.Type(), m.Len()))
		}
		for key, child := range m.All() {
			elem := reflect.New(v.Type().Elem()).Elem()
			if err := assign(child, elem, joinPath(path, key)); err != nil {
				return err
			}
			v.SetMapIndex(reflect.ValueOf(key).Convert(v.Type().Key()), elem)
		}
		return nil
	case reflect.Slice:
		list, ok := value.([]any)
		if !ok {
			return mismatch(path, value, v.Type())
		}
		s := reflect.MakeSlice(v.Type(), len(list), len(list))
		for i, child := range list {
			if err := assign(child, s.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		v.Set(s)
		return nil
	case reflect.Array:
		list, ok := value.([]any)
		if !ok {
			return mismatch(path, value, v.Type())
		}
		if len(list) > v.Len() {
			return fmt.Errorf("%s: too many elements, limit %d", path, v.Len())
		}
		for i, child := range list {
			if err := assign(child, v.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	}
	return assignScalar(value, v, path)
}

func assignStruct(m *Map, v reflect.Value, path string) error {
	t := v.Type()
	fields := make(map[string]reflect.Value)
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, skip := fieldKey(field)
		if skip {
			continue
		}
		fields[name] = v.Field(i)
	}

	for key, child := range m.All() {
		field, ok := fields[key]
		if !ok {
			return fmt.Errorf("%s: unknown field %s", joinPath(path, key), key)
		}
		if err := assign(child, field, joinPath(path, key)); err != nil {
			return err
		}
	}
	return nil
}

func assignScalar(value any, v reflect.Value, path string) error {
	switch x := value.(type) {
	case bool:
		if v.Kind() == reflect.Bool {
			v.SetBool(x)
			return nil
		}
	case int64:
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if v.OverflowInt(x) {
				return fmt.Errorf("%s: %d overflows %s", path, x, v.Type())
			}
			v.SetInt(x)
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			if x < 0 || v.OverflowUint(uint64(x)) {
				return fmt.Errorf("%s: %d overflows %s", path, x, v.Type())
			}
			v.SetUint(uint64(x))
			return nil
		case reflect.Float32, reflect.Float64:
			v.SetFloat(float64(x))
			return nil
		}
	case float64:
		if v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64 {
			if v.OverflowFloat(x) {
				return fmt.Errorf("%s: %v overflows %s", path, x, v.Type())
			}
			v.SetFloat(x)
			return nil
		}
	case Char:
		switch v.Kind() {
		case reflect.String:
			v.SetString(string(x))
			return nil
		case reflect.Int32:
			v.SetInt(int64(x))
			return nil
		}
	case string:
		if v.Kind() == reflect.String {
			v.SetString(x)
			return nil
		}
	}
	return mismatch(path, value, v.Type())
}
