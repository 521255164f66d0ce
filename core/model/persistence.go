package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"io"
	"os"
	"path/filepath"

	"github.com/ezoic/lifeexp/pkg/errors"
)

const (
	// Magic identifies a lifeexp model file.
	Magic = "lifeexp-weights"
	// FormatVersion is the current model file version.
	FormatVersion = 1
)

// envelope is the on-disk record. Payload is the gob encoding of the model
// and Checksum is its SHA-256.
type envelope struct {
	Magic    string
	Version  int
	Payload  []byte
	Checksum [32]byte
}

// SaveModel writes m to filename using WriteFileAtomic.
func SaveModel(m interface{}, filename string) error {
	return WriteFileAtomic(filename, func(w io.Writer) error {
		return SaveModelToWriter(m, w)
	})
}

// WriteFileAtomic calls write with a temporary file in the same directory as
// filename and renames it into place once write succeeds, so readers never
// observe a partially written file.
func WriteFileAtomic(filename string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".tmp*")
	if err != nil {
		return errors.Wrapf(err, "create temp file for %s", filename)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return errors.Wrap(err, "chmod temp file")
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "sync temp file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err = os.Rename(tmp.Name(), filename); err != nil {
		return errors.Wrapf(err, "rename into %s", filename)
	}
	return nil
}

// SaveModelToWriter writes m to w in the model file format.
func SaveModelToWriter(m interface{}, w io.Writer) error {
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(m); err != nil {
		return errors.Wrap(err, "encode model")
	}

	env := envelope{
		Magic:    Magic,
		Version:  FormatVersion,
		Payload:  payload.Bytes(),
		Checksum: sha256.Sum256(payload.Bytes()),
	}
	if err := gob.NewEncoder(w).Encode(&env); err != nil {
		return errors.Wrap(err, "write model")
	}
	return nil
}

// LoadModel reads a model written by SaveModel into m, which must be a pointer.
func LoadModel(m interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "open %s", filename)
	}
	defer func() { _ = file.Close() }()

	return LoadModelFromReader(m, file)
}

// LoadModelFromReader reads a model from r into m, verifying the format
// version and checksum before decoding.
func LoadModelFromReader(m interface{}, r io.Reader) error {
	var env envelope
	if err := gob.NewDecoder(r).Decode(&env); err != nil {
		return errors.Wrapf(errors.ErrUnsupportedFormat, "decode model file: %v", err)
	}

	if env.Magic != Magic {
		return errors.Wrapf(errors.ErrUnsupportedFormat, "not a model file (magic %q)", env.Magic)
	}
	if env.Version != FormatVersion {
		return errors.Wrapf(errors.ErrUnsupportedFormat, "model file version %d, want %d", env.Version, FormatVersion)
	}
	if sha256.Sum256(env.Payload) != env.Checksum {
		return errors.Wrap(errors.ErrChecksumMismatch, "model payload")
	}

	if err := gob.NewDecoder(bytes.NewReader(env.Payload)).Decode(m); err != nil {
		return errors.Wrap(err, "decode model")
	}
	return nil
}
