package dreamlands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// mapOf builds an ordered map from alternating keys and values.
func mapOf(kv ...any) *Map {
	m := NewMap()
	for i := 0; i < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1])
	}
	return m
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

const deviceDoc = `#!/usr/bin/dreamlands
device:
	name:"Phone"
	battery:4000.0
	flags:
		-:true
		-:false
`

func deviceValue() *Map {
	return mapOf("device", mapOf(
		"name", "Phone",
		"battery", 4000.0,
		"flags", []any{true, false},
	))
}
