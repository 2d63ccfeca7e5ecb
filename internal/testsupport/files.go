package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// PNGBytes returns size bytes that content sniffing recognizes as image/png.
// A size below the signature length returns the bare signature.
func PNGBytes(size int) []byte {
	if size < len(pngSignature) {
		size = len(pngSignature)
	}
	data := bytes.Repeat([]byte{0x42}, size)
	copy(data, pngSignature)
	return data
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
