// Package codec implements the record wire format: canonical serialization
// for encryption, and the merge-patch diff machinery that backs the
// history journal and telemetry field list.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Canonical serializes v (expected to be a JSON-marshalable record) to a
// deterministic byte representation: object keys sorted lexicographically
// at every nesting level, list order preserved. This is the plaintext
// input sealed under the record-encryption key.
func Canonical(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal: %w", err)
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("codec: unmarshal for canonicalization: %w", err)
	}

	var buf bytes.Buffer
	if err := writeCanonical(&buf, generic); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v interface{}) error {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyJSON, err := json.Marshal(k)
			if err != nil {
				return fmt.Errorf("codec: marshal key: %w", err)
			}
			buf.Write(keyJSON)
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case []interface{}:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	default:
		leafJSON, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("codec: marshal leaf: %w", err)
		}
		buf.Write(leafJSON)
		return nil
	}
}

// DecodeInto unmarshals canonical (or any valid JSON) bytes into dst.
// Canonical form is itself valid JSON, so the standard decoder handles it
// unchanged.
func DecodeInto(data []byte, dst interface{}) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("codec: unmarshal: %w", err)
	}
	return nil
}
