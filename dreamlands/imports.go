package dreamlands

import (
	"fmt"
	"path/filepath"
)

// importer expands import directives for one top-level parse.
type importer struct {
	dec *Decoder
	// inProgress holds the canonical paths of the files whose expansion is
	// currently running. A path is removed once its expansion completes, so
	// the same file may be imported twice from different branches.
	inProgress map[string]bool
}

func newImporter(dec *Decoder) *importer {
	return &importer{dec: dec, inProgress: make(map[string]bool)}
}

// expand returns a new instruction slice where each import directive is
// replaced by the fully expanded content of the file it references. Relative
// paths are resolved against dir.
func (im *importer) expand(instrs []Instruction, dir string) ([]Instruction, error) {
	out := make([]Instruction, 0, len(instrs))
	for _, in := range instrs {
		if !in.IsImport() {
			out = append(out, in)
			continue
		}
		imported, err := im.load(in, dir)
		if err != nil {
			return nil, err
		}
		out = append(out, imported...)
	}
	return out, nil
}

func (im *importer) load(in Instruction, dir string) ([]Instruction, error) {
	path, err := canonicalPath(dir, in.Path)
	if err != nil {
		return nil, &ImportError{ParseError{
			Message: fmt.Sprintf("invalid import path %q: %v", in.Path, err),
			Pos:     in.Pos,
			Cause:   err,
		}, in.Path}
	}

	if im.inProgress[path] {
		return nil, &ImportError{ParseError{
			Message: fmt.Sprintf("cyclic import detected: file %q is already being imported", path),
			Pos:     in.Pos,
		}, path}
	}
	im.inProgress[path] = true
	defer delete(im.inProgress, path)

	src, err := im.dec.readFile(path)
	if err != nil {
		return nil, &ImportError{ParseError{
			Message: fmt.Sprintf("cannot read imported file %q: %v", path, err),
			Pos:     in.Pos,
			Cause:   err,
		}, path}
	}

	instrs, err := im.dec.tokenize(src, path)
	if err != nil {
		return nil, err
	}
	if len(instrs) > 0 && !instrs[0].IsImport() && instrs[0].Depth != 0 {
		return nil, structureError(instrs[0].Pos, "imported content must start at zero depth")
	}

	im.dec.logger().Debug("expanding import",
		"path", path,
		"from", in.Pos.String(),
		"instructions", len(instrs),
	)
	return im.expand(instrs, filepath.Dir(path))
}

// canonicalPath resolves p against dir and returns an absolute, cleaned path
// with symbolic links evaluated when the file exists.
func canonicalPath(dir, p string) (string, error) {
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return filepath.Clean(abs), nil
}
