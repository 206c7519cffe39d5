package dreamlands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func diagsByRule(diags []Diagnostic, rule string) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Rule == rule {
			out = append(out, d)
		}
	}
	return out
}

func hasRule(diags []Diagnostic, rule string) bool {
	return len(diagsByRule(diags, rule)) > 0
}

// --- Validate / ValidateOrError API tests ---

func TestValidateCleanDocument(t *testing.T) {
	diags := Validate(deviceValue())
	assert.Empty(t, diags)
}

func TestValidateOrErrorReturnsNilOnWarnings(t *testing.T) {
	doc := mustDecode(t, "flags:\n\t-:true\n\t-:1\n")
	diags, err := ValidateOrError(doc)
	require.NoError(t, err)
	assert.True(t, hasRule(diags, "mixed_list"))
}

func TestValidateOrErrorReturnsErrorOnEmptyContainer(t *testing.T) {
	doc := mustDecode(t, "a:\nb:1\n")
	diags, err := ValidateOrError(doc)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Len(t, valErr.Diagnostics, 1)
	assert.Equal(t, "a", valErr.Diagnostics[0].Path)
	assert.Contains(t, err.Error(), "validation failed with 1 error(s)")
	assert.True(t, hasRule(diags, "empty_container"))

	// The same document does fail to encode.
	_, encErr := ToText(doc)
	assert.ErrorIs(t, encErr, ErrEmptyContainer)
}

func TestValidateEmptyRootIsFine(t *testing.T) {
	assert.Empty(t, Validate(NewMap()))
}

// --- Rule tests ---

func TestMixedListRule(t *testing.T) {
	doc := mapOf("outer", []any{mapOf("x", int64(1)), []any{int64(1), 2.5}})
	diags := diagsByRule(Validate(doc), "mixed_list")
	require.Len(t, diags, 2)
	assert.Equal(t, "outer", diags[0].Path)
	assert.Contains(t, diags[0].Message, "element 1 is a list while element 0 is a map")
	assert.Equal(t, "outer[1]", diags[1].Path)
	assert.Equal(t, Warning, diags[1].Severity)
}

func TestKeyCaseRule(t *testing.T) {
	doc := mustDecode(t, "Name:\"a\"\nname:\"b\"\nother:\n\tNAME:1\n")
	diags := diagsByRule(Validate(doc), "key_case")
	require.Len(t, diags, 1)
	assert.Equal(t, "name", diags[0].Path)
	assert.Contains(t, diags[0].Message, `"Name" and "name"`)
}

func TestSingleCharStringRule(t *testing.T) {
	doc := mustDecode(t, "a:\"x\"\nb:'y'\nc:\"long\"\nd:\n\t-:\"z\"\n")
	diags := diagsByRule(Validate(doc), "single_char_string")
	require.Len(t, diags, 2)
	assert.Equal(t, "a", diags[0].Path)
	assert.Equal(t, "d[0]", diags[1].Path)
	assert.Equal(t, Info, diags[0].Severity)
}

type maxDepthRule struct{ limit int }

func (maxDepthRule) Name() string { return "max_depth" }

func (r maxDepthRule) Apply(path string, v any) []Diagnostic {
	if path == "" || strings.Count(path, ".")+1 <= r.limit {
		return nil
	}
	return []Diagnostic{{Rule: "max_depth", Severity: Error, Message: "too deep", Path: path}}
}

func TestValidateExtraRules(t *testing.T) {
	doc := mustDecode(t, "a:\n\tb:\n\t\tc:1\n")
	diags, err := ValidateOrError(doc, maxDepthRule{limit: 1})
	require.Error(t, err)
	assert.Equal(t, "a.b", diagsByRule(diags, "max_depth")[0].Path)
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Rule: "empty_container", Severity: Error, Message: "no children", Path: "a.b", Fix: "add one"}
	assert.Equal(t, "[ERROR] empty_container: no children (at: a.b) -- fix: add one", d.String())
	assert.Equal(t, "Severity(7)", Severity(7).String())
}
