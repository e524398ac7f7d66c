package opensubtitles

import (
	"bytes"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
)

func isGzipEncoding(header string) bool {
	for _, token := range strings.Split(header, ",") {
		switch strings.ToLower(strings.TrimSpace(token)) {
		case "gzip", "x-gzip":
			return true
		}
	}
	return false
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gunzipBytes(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(io.LimitReader(zr, maxResponseBytes))
}
