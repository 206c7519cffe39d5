package dreamlands

import "fmt"

// Codec plugs the format into configuration loaders working on
// map[string]any, such as viper's codec registry. The zero value uses the
// default Decoder and Encoder.
type Codec struct {
	Decoder *Decoder
	Encoder *Encoder
}

// Decode parses b, whose root must be a map, and stores its entries in v as
// plain Go values (see ToPlain).
func (c Codec) Decode(b []byte, v map[string]any) error {
	dec := c.Decoder
	if dec == nil {
		dec = NewDecoder()
	}
	value, err := dec.Decode(string(b))
	if err != nil {
		return err
	}
	m, ok := value.(*Map)
	if !ok {
		return fmt.Errorf("configuration root must be a map, got a list")
	}
	for key, child := range m.All() {
		v[key] = ToPlain(child)
	}
	return nil
}

// Encode renders v with map keys in sorted order.
func (c Codec) Encode(v map[string]any) ([]byte, error) {
	enc := c.Encoder
	if enc == nil {
		enc = NewEncoder()
	}
	text, err := enc.Encode(v)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}
