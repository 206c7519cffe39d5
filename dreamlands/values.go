package dreamlands

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRecords converts lexer records into instructions, skipping empty
// records. Import directives are dropped when allowImports is false.
func ParseRecords(records []Record, allowImports bool) ([]Instruction, error) {
	instrs := make([]Instruction, 0, len(records))
	for _, rec := range records {
		if rec.IsEmpty() {
			continue
		}
		in, err := ParseRecord(rec)
		if err != nil {
			return nil, err
		}
		if in.IsImport() && !allowImports {
			continue
		}
		instrs = append(instrs, in)
	}
	return instrs, nil
}

// ParseRecord converts a single non-empty record into an Instruction.
func ParseRecord(rec Record) (Instruction, error) {
	if rec.HasChar && rec.HasStr {
		return Instruction{}, lexError(rec.Pos, "character and string declarations cannot share one line")
	}

	if path, ok := strings.CutPrefix(rec.Raw, string(ImportChar)); ok {
		if path == "" && rec.HasStr {
			path = rec.Str
		}
		if path == "" {
			return Instruction{}, structureError(rec.Pos, "import directive requires a file path")
		}
		return Instruction{Pos: rec.Pos, Depth: ImportDepth, Path: path}, nil
	}

	depth := 0
	for depth < len(rec.Raw) && rec.Raw[depth] == TabChar {
		depth++
	}
	pos := rec.Pos
	pos.Column += depth
	pos.Offset += depth

	key, text, found := strings.Cut(rec.Raw[depth:], string(SeparatorChar))
	if !found || strings.ContainsRune(text, SeparatorChar) {
		return Instruction{}, structureError(pos, "one separation character %q is required per instruction", SeparatorChar)
	}
	if err := checkKey(pos, key); err != nil {
		return Instruction{}, err
	}

	value, err := ParseValue(pos, key, text, rec)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{Pos: pos, Depth: depth, Key: key, Value: value}, nil
}

// ValidKey reports whether key may name a map entry.
func ValidKey(key string) bool {
	if key == "" {
		return false
	}
	for _, ch := range key {
		if !isKeyChar(ch) {
			return false
		}
	}
	return true
}

func checkKey(pos Position, key string) error {
	if key == "" {
		return &KeyError{ParseError{Message: "missing key name", Pos: pos}, key}
	}
	if key != ListKey && !ValidKey(key) {
		return &KeyError{ParseError{
			Message: fmt.Sprintf("invalid character in key %q: use only [a-z], [A-Z], [0-9] and underscores", key),
			Pos:     pos,
		}, key}
	}
	return nil
}

// ParseValue classifies the raw value text of a record. An empty text with no
// captured literal yields the parent marker.
func ParseValue(pos Position, key, text string, rec Record) (Scalar, error) {
	switch {
	case text == "" && rec.HasChar:
		return Scalar{Kind: ScalarChar, Char: Char(rec.Char)}, nil
	case text == "" && rec.HasStr:
		return Scalar{Kind: ScalarString, Str: rec.Str}, nil
	case text == "":
		return Scalar{}, nil
	case rec.HasChar || rec.HasStr:
		return Scalar{}, &ValueError{ParseError{
			Message: fmt.Sprintf("literal cannot follow raw value %q for key %q", text, key),
			Pos:     pos,
		}}
	case text == True:
		return Scalar{Kind: ScalarBool, Bool: true}, nil
	case text == False:
		return Scalar{Kind: ScalarBool, Bool: false}, nil
	}
	return parseNumber(pos, key, text)
}

func parseNumber(pos Position, key, text string) (Scalar, error) {
	digits, negative := strings.CutPrefix(text, "-")

	dot := false
	for _, ch := range digits {
		if ch == '.' {
			if dot {
				return Scalar{}, &ValueError{ParseError{
					Message: fmt.Sprintf("multiple dots found in floating point value for key %q", key),
					Pos:     pos,
				}}
			}
			dot = true
			continue
		}
		if !isDigit(ch) {
			return Scalar{}, undefinedValue(pos, key, text, nil)
		}
	}
	if digits == "" || digits == "." {
		return Scalar{}, undefinedValue(pos, key, text, nil)
	}

	if dot {
		f, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return Scalar{}, undefinedValue(pos, key, text, err)
		}
		if negative {
			f = -f
		}
		return Scalar{Kind: ScalarFloat, Float: f}, nil
	}

	// The sign is parsed along with the digits so that the smallest int64
	// stays representable.
	if negative {
		digits = "-" + digits
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Scalar{}, undefinedValue(pos, key, text, err)
	}
	return Scalar{Kind: ScalarInt, Int: n}, nil
}

func undefinedValue(pos Position, key, text string, cause error) *ValueError {
	msg := fmt.Sprintf("undefined value %q for key %q", text, key)
	if cause != nil {
		msg = fmt.Sprintf("invalid number %q for key %q: %v", text, key, cause)
	}
	return &ValueError{ParseError{Message: msg, Pos: pos, Cause: cause}}
}
