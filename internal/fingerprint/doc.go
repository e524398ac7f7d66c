// Package fingerprint computes the OpenSubtitles content fingerprint for media
// files.
//
// This package has no subseek-specific dependencies and could be extracted
// as a standalone library.
//
// The fingerprint is the file size plus a 64-bit sum of the little-endian
// words in the first and last 64 KiB of the file, formatted as 16 lowercase
// hex digits. The sum wraps modulo 2^64. Files smaller than two windows are
// rejected with a *SizeError before any content is read.
//
// Primary entry points:
//   - Compute: fingerprints a single file path
//   - Sum: fingerprints any io.ReaderAt of known size
//   - ComputeAll: fingerprints many paths with a bounded worker pool
package fingerprint
