package stackmap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// schemaVersion must be bumped whenever the payload layout changes.
const schemaVersion uint16 = 1

// ErrSchemaMismatch reports a sidecar written by an incompatible version.
var ErrSchemaMismatch = errors.New("stackmap: schema mismatch")

type payload struct {
	Schema  uint16   `msgpack:"schema"`
	Records []Record `msgpack:"records"`
}

// Encode writes records as a versioned msgpack payload.
func Encode(w io.Writer, records []Record) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(&payload{Schema: schemaVersion, Records: records})
}

// Decode reads a payload written by Encode.
func Decode(r io.Reader) ([]Record, error) {
	var p payload
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("stackmap: decode: %w", err)
	}
	if p.Schema != schemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, p.Schema, schemaVersion)
	}
	return p.Records, nil
}

// WriteFile encodes records into path, replacing it atomically.
func WriteFile(path string, records []Record) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "stackmap-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if err = Encode(f, records); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadFile decodes the sidecar at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
