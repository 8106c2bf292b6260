package replay

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
)

// Encode serializes a replay to a gzip-compressed JSON blob for
// storage. Input streams compress well: timestamps are locally similar
// and the field keys are single characters.
func Encode(d *Data) ([]byte, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("replay: encode: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("replay: compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("replay: compress: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode. The blob is validated for shape only; call
// Data.Validate against the target chart before resimulating.
func Decode(blob []byte) (*Data, error) {
	zr, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("replay: decompress: %w", err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("replay: decompress: %w", err)
	}
	if err := zr.Close(); err != nil {
		return nil, fmt.Errorf("replay: decompress: %w", err)
	}

	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("replay: decode: %w", err)
	}
	return &d, nil
}
