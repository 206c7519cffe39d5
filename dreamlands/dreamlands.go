package dreamlands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// FromText parses a complete in-memory document with the default Decoder.
// Imports are resolved relative to the working directory.
func FromText(text string) (any, error) {
	return NewDecoder().Decode(text)
}

// ToText renders v with the default Encoder.
func ToText(v any) (string, error) {
	return NewEncoder().Encode(v)
}

// Read parses the file at path with the default Decoder. Imports are
// resolved relative to the file's directory.
func Read(path string) (any, error) {
	return NewDecoder().DecodeFile(path)
}

// Write renders v with the default Encoder and writes it to path, creating
// or truncating the file.
func Write(v any, path string) error {
	return NewEncoder().EncodeFile(v, path)
}

// Decoder reads DREAMLANDS documents. A Decoder holds configuration only and
// may be shared between goroutines once configured.
type Decoder struct {
	// BaseDir is the directory relative imports are resolved against when
	// decoding in-memory text.
	BaseDir string

	// Filename names the file in-memory text was read from. When set, the
	// text is handled as DecodeFile handles that file: imports resolve
	// against its directory and importing it again is a cycle.
	Filename string

	// AllowImports enables import directives. When false they are skipped.
	AllowImports bool

	// StripSpaces drops spaces found outside literals.
	StripSpaces bool

	// ReadFile loads imported files. Defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)

	// Logger receives debug records about import expansion. Nil discards.
	Logger *slog.Logger
}

// NewDecoder returns a Decoder with imports enabled and space stripping on.
func NewDecoder() *Decoder {
	return &Decoder{
		BaseDir:      ".",
		AllowImports: true,
		StripSpaces:  true,
		ReadFile:     os.ReadFile,
	}
}

// Decode parses text and returns its data value: a *Map or a []any.
func (d *Decoder) Decode(text string) (any, error) {
	instrs, err := d.Instructions(text)
	if err != nil {
		return nil, err
	}
	return d.build(instrs)
}

// DecodeFile reads and parses the file at path.
func (d *Decoder) DecodeFile(path string) (any, error) {
	src, err := d.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	instrs, err := d.expandFile(src, path)
	if err != nil {
		return nil, err
	}
	return d.build(instrs)
}

// Instructions lexes and field-parses text and expands its imports, returning
// the flat instruction sequence the tree builder consumes.
func (d *Decoder) Instructions(text string) ([]Instruction, error) {
	if d.Filename != "" {
		return d.expandFile([]byte(text), d.Filename)
	}
	instrs, err := d.tokenize([]byte(text), "")
	if err != nil {
		return nil, err
	}
	dir := d.BaseDir
	if dir == "" {
		dir = "."
	}
	return newImporter(d).expand(instrs, dir)
}

// expandFile tokenizes src, read from path, and expands its imports with
// path already marked as in progress.
func (d *Decoder) expandFile(src []byte, path string) ([]Instruction, error) {
	root, err := canonicalPath(".", path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	instrs, err := d.tokenize(src, path)
	if err != nil {
		return nil, err
	}

	im := newImporter(d)
	im.inProgress[root] = true
	return im.expand(instrs, filepath.Dir(root))
}

func (d *Decoder) tokenize(src []byte, filename string) ([]Instruction, error) {
	lex := NewLexer(src, filename)
	lex.StripSpaces = d.StripSpaces
	records, err := lex.Records()
	if err != nil {
		return nil, err
	}
	return ParseRecords(records, d.AllowImports)
}

func (d *Decoder) build(instrs []Instruction) (any, error) {
	d.logger().Debug("building tree", "instructions", len(instrs))
	return Build(instrs)
}

func (d *Decoder) readFile(name string) ([]byte, error) {
	if d.ReadFile != nil {
		return d.ReadFile(name)
	}
	return os.ReadFile(name)
}

func (d *Decoder) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return discardLogger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
