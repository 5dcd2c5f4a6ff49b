package kvstore

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/gzip"
)

// SetCompressed stores v as gzip-compressed JSON. Used for bulky values
// like persisted index snapshots, which compress well (repeated path
// prefixes) and are only read back wholesale.
func (s *Store) SetCompressed(key string, v interface{}) error {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return fmt.Errorf("compress %s: %w", key, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress %s: %w", key, err)
	}

	return s.Set(key, buf.Bytes())
}

// GetCompressed reads a value stored by SetCompressed.
func (s *Store) GetCompressed(key string, out interface{}) (bool, error) {
	var blob []byte
	ok, err := s.Get(key, &blob)
	if err != nil || !ok {
		return ok, err
	}

	zr, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return true, fmt.Errorf("decompress %s: %w", key, err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		return true, fmt.Errorf("decompress %s: %w", key, err)
	}
	if err := zr.Close(); err != nil {
		return true, fmt.Errorf("decompress %s: %w", key, err)
	}

	if err := sonic.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
