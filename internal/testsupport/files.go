package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WritePattern writes size bytes to path where the first and last 64 KiB
// windows hold the little-endian words head and tail and every other byte is
// zero. It returns the path for convenience.
func WritePattern(t testing.TB, path string, size int, head, tail uint64) string {
	t.Helper()

	const window = 64 * 1024
	if size < 2*window {
		t.Fatalf("pattern size %d is below two windows", size)
	}
	data := make([]byte, size)
	for i := 0; i < window; i += 8 {
		binary.LittleEndian.PutUint64(data[i:], head)
	}
	for i := size - window; i < size; i += 8 {
		binary.LittleEndian.PutUint64(data[i:], tail)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
