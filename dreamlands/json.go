package dreamlands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// MarshalJSON writes the map as a JSON object, keeping the insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	i := 0
	for key, value := range m.All() {
		if i > 0 {
			b.WriteByte(',')
		}
		i++
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// MarshalJSON writes the character as a one-character JSON string.
func (c Char) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

// FromJSON decodes a JSON document into a data value, keeping object key
// order. Numbers without a fraction or exponent become int64, other numbers
// float64. JSON null has no representation and is rejected.
func FromJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec, "")
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level JSON value")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder, path string) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch tok := tok.(type) {
	case json.Delim:
		switch tok {
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key := keyTok.(string)
				value, err := decodeJSONValue(dec, joinPath(path, key))
				if err != nil {
					return nil, err
				}
				m.Set(key, value)
			}
			_, err := dec.Token() // '}'
			return m, err
		case '[':
			list := []any{}
			for dec.More() {
				value, err := decodeJSONValue(dec, fmt.Sprintf("%s[%d]", path, len(list)))
				if err != nil {
					return nil, err
				}
				list = append(list, value)
			}
			_, err := dec.Token() // ']'
			return list, err
		}
		return nil, fmt.Errorf("unexpected JSON delimiter %q", tok)
	case json.Number:
		if !strings.ContainsAny(tok.String(), ".eE") {
			if n, err := tok.Int64(); err == nil {
				return n, nil
			}
		}
		return tok.Float64()
	case bool, string:
		return tok, nil
	case nil:
		if path == "" {
			path = "document"
		}
		return nil, fmt.Errorf("%s: %w", path, ErrNilValue)
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}
