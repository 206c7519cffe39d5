package dreamlands

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEncode(t *testing.T, enc *Encoder, v any) string {
	t.Helper()
	text, err := enc.Encode(v)
	require.NoError(t, err)
	return text
}

func TestEncodeDevice(t *testing.T) {
	want := "device:\n" +
		"\tname:\"Phone\"\n" +
		"\tbattery:4000.0\n" +
		"\tflags:\n" +
		"\t\t-:true\n" +
		"\t\t-:false\n"
	assert.Equal(t, want, mustEncode(t, NewEncoder(), deviceValue()))
}

func TestEncodeShebang(t *testing.T) {
	enc := &Encoder{Shebang: true}
	text := mustEncode(t, enc, deviceValue())
	assert.Equal(t, deviceDoc, text)
}

func TestEncodeListRoot(t *testing.T) {
	assert.Equal(t, "-:1\n-:2\n-:3\n", mustEncode(t, NewEncoder(), []int{1, 2, 3}))
	assert.Equal(t, "-:1\n-:2\n", mustEncode(t, NewEncoder(), [2]uint8{1, 2}))
}

func TestEncodeGoMapSortsKeys(t *testing.T) {
	v := map[string]any{
		"b": 1,
		"a": map[string]int{"z": 26, "y": 25},
	}
	assert.Equal(t, "a:\n\ty:25\n\tz:26\nb:1\n", mustEncode(t, NewEncoder(), v))
}

func TestEncodeFollowsPointers(t *testing.T) {
	n := 5
	s := "x"
	v := mapOf("n", &n, "s", &s, "list", &[]any{true})
	assert.Equal(t, "n:5\ns:\"x\"\nlist:\n\t-:true\n", mustEncode(t, NewEncoder(), &v))
}

func TestEncodeEmptyRoot(t *testing.T) {
	assert.Equal(t, "", mustEncode(t, NewEncoder(), NewMap()))
	assert.Equal(t, "", mustEncode(t, NewEncoder(), []any{}))

	// Either way the text reads back as an empty map.
	assert.Equal(t, NewMap(), mustDecode(t, mustEncode(t, NewEncoder(), []any{})))
}

func TestEncodeChars(t *testing.T) {
	v := mapOf("x", "a")
	assert.Equal(t, "x:\"a\"\n", mustEncode(t, NewEncoder(), v))
	assert.Equal(t, "x:'a'\n", mustEncode(t, &Encoder{CharOptimization: true}, v))
	assert.Equal(t, "x:'a'\n", mustEncode(t, NewEncoder(), mapOf("x", Char('a'))))

	// Longer strings are unaffected by the optimization.
	assert.Equal(t, "x:\"ab\"\n", mustEncode(t, &Encoder{CharOptimization: true}, mapOf("x", "ab")))
}

func TestEncodeEscapes(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"a\"b\\c\nd", `"a\"b\\c\nd"`},
		{"it's", `"it's"`},
		{"tab\there", `"tab\there"`},
		{"bell\x07esc\x1b", `"bell\aesc\e"`},
		{"# not a comment", `"# not a comment"`},
		{Char('\''), `'\''`},
		{Char('"'), `'"'`},
		{Char('\n'), `'\n'`},
		{Char('é'), `'é'`},
	}
	for _, tt := range tests {
		text := mustEncode(t, NewEncoder(), mapOf("v", tt.value))
		assert.Equal(t, "v:"+tt.want+"\n", text, "value: %q", tt.value)
	}
}

func TestEncodeNumbers(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{0, "0"},
		{int64(math.MinInt64), "-9223372036854775808"},
		{uint64(math.MaxInt64), "9223372036854775807"},
		{1.0, "1.0"},
		{-0.5, "-0.5"},
		{1e21, "1000000000000000000000.0"},
		{1.77, "1.77"},
		{float32(0.1), "0.1"},
		{0.000001, "0.000001"},
	}
	for _, tt := range tests {
		text := mustEncode(t, NewEncoder(), mapOf("n", tt.value))
		assert.Equal(t, "n:"+tt.want+"\n", text, "value: %v", tt.value)
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  error
	}{
		{"nil root", nil, ErrInvalidRoot},
		{"scalar root", 42, ErrInvalidRoot},
		{"nil map root", (*Map)(nil), ErrInvalidRoot},
		{"nil entry", mapOf("a", nil), ErrNilValue},
		{"nil pointer entry", mapOf("a", (*int)(nil)), ErrNilValue},
		{"empty string", mapOf("a", ""), ErrEmptyString},
		{"NaN", mapOf("a", math.NaN()), ErrInvalidFloat},
		{"infinity", []any{math.Inf(-1)}, ErrInvalidFloat},
		{"struct", mapOf("a", struct{}{}), ErrUnsupportedType},
		{"uint above int64", mapOf("a", uint64(math.MaxUint64)), ErrUnsupportedType},
		{"channel", []any{make(chan int)}, ErrUnsupportedType},
		{"non-string map key", mapOf("a", map[int]string{1: "x"}), ErrUnsupportedType},
		{"empty nested map", mapOf("a", NewMap()), ErrEmptyContainer},
		{"empty nested list", []any{[]any{}}, ErrEmptyContainer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEncoder().Encode(tt.value)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEncodeCyclicValues(t *testing.T) {
	list := []any{nil}
	list[0] = list
	m := NewMap()
	m.Set("self", m)
	goMap := map[string]any{}
	goMap["self"] = goMap

	for _, v := range []any{list, m, goMap} {
		_, err := NewEncoder().Encode(v)
		assert.ErrorIs(t, err, ErrUnsupportedType)
		assert.Equal(t, errTooDeep, err)
	}
}

func TestEncodeErrorNamesLocation(t *testing.T) {
	v := mapOf("outer", mapOf("items", []any{1, ""}))
	_, err := NewEncoder().Encode(v)
	require.Error(t, err)
	assert.Equal(t, `key "outer": key "items": element 1: empty strings cannot be represented`, err.Error())
}

func TestEncodeInvalidKeys(t *testing.T) {
	for _, key := range []string{"", "-", "bad key", "a:b", "ü"} {
		_, err := NewEncoder().Encode(map[string]any{key: 1})
		var keyErr *KeyError
		require.ErrorAs(t, err, &keyErr, "key: %q", key)
		assert.Equal(t, key, keyErr.Key)
	}
}

func TestEncodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dl")
	require.NoError(t, NewEncoder().EncodeFile(deviceValue(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, mustEncode(t, NewEncoder(), deviceValue()), string(data))
}
