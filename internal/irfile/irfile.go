// Package irfile reads and writes lowered modules on disk.
//
// The container is a fixed magic followed by one msgpack-encoded
// payload carrying a schema version; the version is bumped whenever the
// payload layout changes so stale files fail fast instead of decoding
// into garbage.
package irfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"sendcheck/internal/ir"
)

// Current schema version - increment when payload format changes
const schemaVersion uint16 = 1

var magic = [4]byte{'S', 'C', 'I', 'R'}

var (
	// ErrBadMagic means the file is not a lowered-module container.
	ErrBadMagic = errors.New("irfile: bad magic")
	// ErrBadSchema means the container was written by an incompatible
	// version.
	ErrBadSchema = errors.New("irfile: unsupported schema version")
)

type payload struct {
	Schema uint16
	Module ir.Module
}

// Encode writes the module to w.
func Encode(w io.Writer, m *ir.Module) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	enc := msgpack.NewEncoder(w)
	return enc.Encode(&payload{Schema: schemaVersion, Module: *m})
}

// Decode reads one module from r.
func Decode(r io.Reader) (*ir.Module, error) {
	var got [4]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if !bytes.Equal(got[:], magic[:]) {
		return nil, ErrBadMagic
	}
	var p payload
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	if p.Schema != schemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBadSchema, p.Schema, schemaVersion)
	}
	return &p.Module, nil
}

// Load reads the module stored at path.
func Load(path string) (*ir.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			panic(closeErr)
		}
	}()
	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Write stores the module at path atomically.
func Write(path string, m *ir.Module) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	name := f.Name()
	if err := Encode(f, m); err != nil {
		f.Close()
		os.Remove(name)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return err
	}
	// Атомарная замена
	return os.Rename(name, path)
}
