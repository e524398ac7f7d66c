package fingerprint

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"regexp"
)

const (
	// ChunkSize is the size of each hashed window.
	ChunkSize = 64 * 1024
	// MinSize is the smallest file the algorithm accepts.
	MinSize = 2 * ChunkSize

	wordsPerChunk = ChunkSize / 8
)

var digestPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

// Fingerprint identifies a file for catalog lookups.
type Fingerprint struct {
	Size   uint64
	Digest string
}

// Valid reports whether f satisfies the size and digest format invariants.
func (f Fingerprint) Valid() bool {
	return f.Size >= MinSize && digestPattern.MatchString(f.Digest)
}

func (f Fingerprint) String() string {
	return fmt.Sprintf("%d %s", f.Size, f.Digest)
}

// SizeError reports a file too small to fingerprint.
type SizeError struct {
	Size int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("fingerprint: file size %d is below the %d byte minimum", e.Size, MinSize)
}

// Compute fingerprints the file at path. The file handle is opened and
// released within the call.
func Compute(ctx context.Context, path string) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Fingerprint{}, fmt.Errorf("fingerprint: %s is a directory", path)
	}
	size := info.Size()
	if size < MinSize {
		return Fingerprint{}, &SizeError{Size: size}
	}

	file, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint: open %s: %w", path, err)
	}
	defer file.Close()

	fp, err := Sum(ctx, file, size)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint: %s: %w", path, err)
	}
	return fp, nil
}

// Sum fingerprints r, which must expose at least size bytes.
func Sum(ctx context.Context, r io.ReaderAt, size int64) (Fingerprint, error) {
	if size < MinSize {
		return Fingerprint{}, &SizeError{Size: size}
	}
	buf := make([]byte, ChunkSize)
	sum := uint64(size)

	for _, offset := range []int64{0, size - ChunkSize} {
		if err := ctx.Err(); err != nil {
			return Fingerprint{}, err
		}
		n, err := r.ReadAt(buf, offset)
		if n < ChunkSize {
			if err == nil || err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return Fingerprint{}, fmt.Errorf("read window at %d: %w", offset, err)
		}
		sum = addWords(sum, buf)
	}

	return Fingerprint{
		Size:   uint64(size),
		Digest: fmt.Sprintf("%016x", sum),
	}, nil
}

// addWords folds the little-endian words of chunk into sum. Overflow wraps.
func addWords(sum uint64, chunk []byte) uint64 {
	for i := 0; i < wordsPerChunk; i++ {
		sum += binary.LittleEndian.Uint64(chunk[i*8:])
	}
	return sum
}
