package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const computerDoc = `computer:
	name:"Nitro"
	CPU:
		brand:"AMD"
		core_nbr:16
	GPU:
		compatibility:
			-:"GNU/Linux"
			-:"Windows"
>network.dl
`

const networkDoc = `network:
	port:8080
	secure:true
`

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func computerFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeDoc(t, dir, "network.dl", networkDoc)
	return writeDoc(t, dir, "computer.dl", computerDoc)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseCommandPrintsOrderedJSON(t *testing.T) {
	out, err := execute(t, "parse", computerFile(t))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"computer": {
			"name": "Nitro",
			"CPU": {"brand": "AMD", "core_nbr": 16},
			"GPU": {"compatibility": ["GNU/Linux", "Windows"]}
		},
		"network": {"port": 8080, "secure": true}
	}`, out)
	assert.Less(t, bytes.Index([]byte(out), []byte(`"name"`)), bytes.Index([]byte(out), []byte(`"CPU"`)))
}

func TestLintCommandReportsEmptyContainer(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "bad.dl", "a:\nb:1\n")
	out, err := execute(t, "lint", path)
	require.Error(t, err)
	assert.Contains(t, out, "[ERROR] empty_container")
}

func TestCanonicalText(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "messy.dl", "# settings\nname : \"x y\"\n\nlist:\n\t-: 1\n\t-: 2.5\n")
	text, err := canonicalText(path)
	require.NoError(t, err)
	assert.Equal(t, "name:\"x y\"\nlist:\n\t-:1\n\t-:2.5\n", text)
}

func TestCanonicalTextExpandsImports(t *testing.T) {
	text, err := canonicalText(computerFile(t))
	require.NoError(t, err)
	assert.Contains(t, text, "network:\n\tport:8080\n\tsecure:true\n")
	assert.NotContains(t, text, ">")
}

func TestJSONToText(t *testing.T) {
	text, err := jsonToText([]byte(`{"b":[1,2.5,"s"],"a":true}`))
	require.NoError(t, err)
	assert.Equal(t, "b:\n\t-:1\n\t-:2.5\n\t-:\"s\"\na:true\n", text)

	_, err = jsonToText([]byte(`{"a":null}`))
	assert.Error(t, err)

	_, err = jsonToText([]byte(`{"a":""}`))
	assert.Error(t, err)
}

func TestLoadConfigAndLookup(t *testing.T) {
	cfg, err := loadConfig(computerFile(t))
	require.NoError(t, err)

	v, err := lookupKey(cfg, "computer.cpu.core_nbr")
	require.NoError(t, err)
	assert.Equal(t, int64(16), v)

	v, err = lookupKey(cfg, "network.port")
	require.NoError(t, err)
	assert.Equal(t, int64(8080), v)

	v, err = lookupKey(cfg, "computer.gpu.compatibility")
	require.NoError(t, err)
	assert.Equal(t, []any{"GNU/Linux", "Windows"}, v)

	_, err = lookupKey(cfg, "computer.nmae")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "computer.name"`)
}

func TestLoadConfigSelfImport(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "self.dl", "a:1\n>self.dl\n")
	_, err := loadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cyclic import")
	assert.Contains(t, err.Error(), path+":2:1")
}

func TestLoadConfigRejectsListRoot(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "list.dl", "-:1\n")
	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestClosestKey(t *testing.T) {
	keys := []string{"computer.name", "computer.cpu.brand", "network.port"}

	assert.Equal(t, "network.port", closestKey("port", keys))
	assert.Equal(t, "computer.cpu.brand", closestKey("brand", keys))
	assert.Equal(t, "network", closestKey("netwrok", keys))
	assert.Equal(t, "", closestKey("zzzzzzzz", keys))
	assert.Equal(t, "", closestKey("x", nil))
}

func TestKeyPaths(t *testing.T) {
	paths := keyPaths([]string{"b.c", "a", "b.d"})
	assert.Equal(t, []string{"a", "b", "b.c", "b.d"}, paths)
}

func TestPrintValue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printValue(&buf, map[string]any{"port": int64(1), "host": "h"}))
	assert.Equal(t, "host:\"h\"\nport:1\n", buf.String())

	buf.Reset()
	require.NoError(t, printValue(&buf, 2.5))
	assert.Equal(t, "2.5\n", buf.String())
}
