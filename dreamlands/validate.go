package dreamlands

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"
)

// Severity represents the severity level of a validation diagnostic.
type Severity int

const (
	// Error means the document cannot be written back.
	Error Severity = iota
	// Warning means the document is valid but likely not what was intended.
	Warning
	// Info is an informational note.
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	case Info:
		return "INFO"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Diagnostic is a single validation finding.
type Diagnostic struct {
	Rule     string   // rule identifier (e.g., "empty_container")
	Severity Severity // ERROR, WARNING, or INFO
	Message  string   // human-readable description
	Path     string   // dotted path of the related value (optional)
	Fix      string   // suggested fix (optional)
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", d.Severity, d.Rule, d.Message)
	if d.Path != "" {
		fmt.Fprintf(&b, " (at: %s)", d.Path)
	}
	if d.Fix != "" {
		fmt.Fprintf(&b, " -- fix: %s", d.Fix)
	}
	return b.String()
}

// LintRule is the interface for a single validation rule. Apply is called
// once per container of a decoded document, root first.
type LintRule interface {
	Name() string
	Apply(path string, v any) []Diagnostic
}

// ValidationError is returned by ValidateOrError when error-severity diagnostics exist.
type ValidationError struct {
	Diagnostics []Diagnostic
}

func (e *ValidationError) Error() string {
	var msgs []string
	for _, d := range e.Diagnostics {
		msgs = append(msgs, d.String())
	}
	return fmt.Sprintf("validation failed with %d error(s):\n  %s", len(e.Diagnostics), strings.Join(msgs, "\n  "))
}

// Validate runs all built-in rules (and any extra rules) against a decoded
// document. Returns all diagnostics regardless of severity.
func Validate(doc any, extraRules ...LintRule) []Diagnostic {
	rules := builtInRules()
	rules = append(rules, extraRules...)

	var diagnostics []Diagnostic
	walkContainers("", doc, func(path string, v any) {
		for _, rule := range rules {
			diagnostics = append(diagnostics, rule.Apply(path, v)...)
		}
	})
	return diagnostics
}

// ValidateOrError runs Validate and returns an error if any error-severity
// diagnostics are found. Non-error diagnostics are still returned.
func ValidateOrError(doc any, extraRules ...LintRule) ([]Diagnostic, error) {
	diagnostics := Validate(doc, extraRules...)

	var errors []Diagnostic
	for _, d := range diagnostics {
		if d.Severity == Error {
			errors = append(errors, d)
		}
	}
	if len(errors) > 0 {
		return diagnostics, &ValidationError{Diagnostics: errors}
	}
	return diagnostics, nil
}

func builtInRules() []LintRule {
	return []LintRule{
		emptyContainerRule{},
		mixedListRule{},
		keyCaseRule{},
		singleCharStringRule{},
	}
}

// walkContainers calls fn for every *Map and []any reachable from v.
func walkContainers(path string, v any, fn func(path string, v any)) {
	switch v := v.(type) {
	case *Map:
		fn(path, v)
		for key, child := range v.All() {
			walkContainers(joinPath(path, key), child, fn)
		}
	case []any:
		fn(path, v)
		for i, child := range v {
			walkContainers(fmt.Sprintf("%s[%d]", path, i), child, fn)
		}
	}
}

// kindOf names the kind of a data value for diagnostics.
func kindOf(v any) string {
	switch v.(type) {
	case *Map:
		return "map"
	case []any:
		return "list"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case Char:
		return "char"
	case string:
		return "string"
	case nil:
		return "nil"
	default:
		return reflect.TypeOf(v).String()
	}
}

// --- Rule implementations ---

// empty_container: A childless parent decodes to an empty map, which the
// encoder cannot write back below the root.
type emptyContainerRule struct{}

func (emptyContainerRule) Name() string { return "empty_container" }

func (emptyContainerRule) Apply(path string, v any) []Diagnostic {
	if path == "" {
		return nil
	}
	empty := false
	switch v := v.(type) {
	case *Map:
		empty = v.Len() == 0
	case []any:
		empty = len(v) == 0
	}
	if !empty {
		return nil
	}
	return []Diagnostic{{
		Rule:     "empty_container",
		Severity: Error,
		Message:  "parent has no children and cannot be written back",
		Path:     path,
		Fix:      "add a child element or remove the parent",
	}}
}

// mixed_list: Elements of one list should share a kind.
type mixedListRule struct{}

func (mixedListRule) Name() string { return "mixed_list" }

func (mixedListRule) Apply(path string, v any) []Diagnostic {
	list, ok := v.([]any)
	if !ok || len(list) < 2 {
		return nil
	}
	first := kindOf(list[0])
	for i, elem := range list[1:] {
		if kind := kindOf(elem); kind != first {
			return []Diagnostic{{
				Rule:     "mixed_list",
				Severity: Warning,
				Message:  fmt.Sprintf("element %d is a %s while element 0 is a %s", i+1, kind, first),
				Path:     path,
			}}
		}
	}
	return nil
}

// key_case: Sibling keys should not differ only by case.
type keyCaseRule struct{}

func (keyCaseRule) Name() string { return "key_case" }

func (keyCaseRule) Apply(path string, v any) []Diagnostic {
	m, ok := v.(*Map)
	if !ok {
		return nil
	}
	seen := make(map[string]string, m.Len())
	var diags []Diagnostic
	for _, key := range m.Keys() {
		folded := strings.ToLower(key)
		if prev, ok := seen[folded]; ok {
			diags = append(diags, Diagnostic{
				Rule:     "key_case",
				Severity: Warning,
				Message:  fmt.Sprintf("keys %q and %q differ only by case", prev, key),
				Path:     joinPath(path, key),
			})
			continue
		}
		seen[folded] = key
	}
	return diags
}

// single_char_string: One-character strings turn into chars when written
// with character optimization.
type singleCharStringRule struct{}

func (singleCharStringRule) Name() string { return "single_char_string" }

func (singleCharStringRule) Apply(path string, v any) []Diagnostic {
	var diags []Diagnostic
	check := func(at string, child any) {
		if s, ok := child.(string); ok && utf8.RuneCountInString(s) == 1 {
			diags = append(diags, Diagnostic{
				Rule:     "single_char_string",
				Severity: Info,
				Message:  fmt.Sprintf("string %q reads back as a char when written with character optimization", s),
				Path:     at,
				Fix:      "use a char literal ('x') if a character is intended",
			})
		}
	}
	switch v := v.(type) {
	case *Map:
		for key, child := range v.All() {
			check(joinPath(path, key), child)
		}
	case []any:
		for i, child := range v {
			check(fmt.Sprintf("%s[%d]", path, i), child)
		}
	}
	return diags
}
