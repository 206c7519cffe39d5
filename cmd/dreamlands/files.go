package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
)

// gzipExt marks compressed documents. They are transparently decompressed on
// read and compressed on write.
const gzipExt = ".gz"

// readFile reads name, decompressing it when it ends in gzipExt. It is used
// as the Decoder's ReadFile, so imported files may be compressed too.
func readFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil || !strings.HasSuffix(name, gzipExt) {
		return data, err
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", name, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", name, err)
	}
	return out, nil
}

// writeFile replaces name with data. The content goes to a uniquely named
// temporary file in the same directory first and is renamed into place.
func writeFile(name string, data []byte) error {
	if strings.HasSuffix(name, gzipExt) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return fmt.Errorf("compressing %s: %w", name, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("compressing %s: %w", name, err)
		}
		data = buf.Bytes()
	}

	tmp := filepath.Join(filepath.Dir(name), "."+filepath.Base(name)+"."+uuid.New().String())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmp, name); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
