package dreamlands

import "fmt"

// Build reconstructs the nested data value described by a fully expanded
// instruction sequence. The root is a *Map or a []any. An empty sequence
// yields an empty *Map.
// Returns a *StructureError or *KeyError on failure.
func Build(instrs []Instruction) (any, error) {
	if len(instrs) == 0 {
		return NewMap(), nil
	}

	first := instrs[0]
	if first.Depth != 0 {
		return nil, structureError(first.Pos, "incorrect indent for first element %q: zero depth is required", first.Key)
	}
	last := instrs[len(instrs)-1]
	if !last.IsImport() && last.Value.IsParent() {
		return nil, structureError(last.Pos, "incorrect value for last element %q: a child element is required", last.Key)
	}

	b := &builder{instrs: instrs}
	return b.container(0)
}

// builder owns the read cursor for one Build call.
type builder struct {
	instrs []Instruction
	pos    int
}

func (b *builder) peek() (Instruction, bool) {
	if b.pos >= len(b.instrs) {
		return Instruction{}, false
	}
	return b.instrs[b.pos], true
}

func (b *builder) next() Instruction {
	in := b.instrs[b.pos]
	b.pos++
	return in
}

// container consumes the run of siblings at depth and returns them as a list
// or map, depending on the first sibling's key.
func (b *builder) container(depth int) (any, error) {
	var (
		list    []any
		entries *Map
		isList  bool
		started bool
	)

	for {
		in, ok := b.peek()
		if !ok {
			break
		}

		switch {
		case in.IsImport():
			return nil, structureError(in.Pos, "import of %q was not expanded", in.Path)
		case in.Depth < depth:
			return containerResult(list, entries, isList), nil
		case in.Depth > depth+1 || (in.Depth == depth+1 && b.jumped()):
			return nil, structureError(in.Pos, "too much indent for element %q", in.Key)
		case in.Depth == depth+1:
			return nil, structureError(in.Pos, "child element %q detected but no parent declared", in.Key)
		}

		b.next()
		if !started {
			started = true
			isList = in.Key == ListKey
			if isList {
				list = []any{}
			} else {
				entries = NewMap()
			}
		}

		if isList {
			if in.Key != ListKey {
				return nil, misplacedKey(in, fmt.Sprintf("key %q detected inside a list", in.Key))
			}
			value, err := b.value(in, depth)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
			continue
		}

		if in.Key == ListKey {
			return nil, misplacedKey(in, "list element detected outside a list")
		}
		if entries.Has(in.Key) {
			return nil, &KeyError{ParseError{
				Message: fmt.Sprintf("key %q already defined in its parent", in.Key),
				Pos:     in.Pos,
			}, in.Key}
		}
		value, err := b.value(in, depth)
		if err != nil {
			return nil, err
		}
		entries.Set(in.Key, value)
	}

	return containerResult(list, entries, isList), nil
}

// misplacedKey reports siblings mixing list elements and map keys. The
// structure error wraps a key error so either type matches with errors.As.
func misplacedKey(in Instruction, msg string) *StructureError {
	return &StructureError{ParseError{
		Message: msg,
		Pos:     in.Pos,
		Cause:   &KeyError{ParseError{Message: msg, Pos: in.Pos}, in.Key},
	}}
}

func containerResult(list []any, entries *Map, isList bool) any {
	switch {
	case isList:
		return list
	case entries != nil:
		return entries
	default:
		return NewMap()
	}
}

// value returns the scalar carried by in, or builds its children.
func (b *builder) value(in Instruction, depth int) (any, error) {
	if !in.Value.IsParent() {
		return in.Value.Interface(), nil
	}
	return b.container(depth + 1)
}

// jumped reports whether the instruction under the cursor is indented more
// than one level past its predecessor.
func (b *builder) jumped() bool {
	if b.pos == 0 {
		return false
	}
	return b.instrs[b.pos].Depth > b.instrs[b.pos-1].Depth+1
}
