// Package store reads and writes mod files on local disk.
package store

import (
	"io"
	"os"

	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/glorpus-work/modsync/pkg/fsutil"
)

// Store opens, reads and rewrites local mod files. It holds no state; each
// pipeline owns the handles it opens.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// OpenOrCreate opens path for reading and writing, creating an empty file if it
// does not exist. The parent directory must already exist.
func (s *Store) OpenOrCreate(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, fsutil.FileModeDefault)
	if err != nil {
		return nil, errors.Classify(errors.ErrIO, errors.Wrapf(err, "failed to open %s", path))
	}
	return f, nil
}

// ReadAll returns the complete content of f, independent of its current offset.
func (s *Store) ReadAll(f *os.File) ([]byte, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Classify(errors.ErrIO, errors.Wrapf(err, "failed to seek %s", f.Name()))
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Classify(errors.ErrIO, errors.Wrapf(err, "failed to read %s", f.Name()))
	}
	return data, nil
}

// WriteStream replaces the content of f with everything r yields. The file is
// truncated and rewound first, so a cursor left behind by ReadAll never causes
// appended output.
func (s *Store) WriteStream(f *os.File, r io.Reader) (int64, error) {
	if err := f.Truncate(0); err != nil {
		return 0, errors.Classify(errors.ErrIO, errors.Wrapf(err, "failed to truncate %s", f.Name()))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, errors.Classify(errors.ErrIO, errors.Wrapf(err, "failed to seek %s", f.Name()))
	}

	n, err := io.Copy(f, r)
	if err != nil {
		return n, errors.Classify(errors.ErrIO, errors.Wrapf(err, "failed to write %s", f.Name()))
	}
	if err := f.Sync(); err != nil {
		return n, errors.Classify(errors.ErrIO, errors.Wrapf(err, "failed to sync %s", f.Name()))
	}
	return n, nil
}

// Discard truncates f to zero length. It is used to clear a partially written
// file after a failed download so the next run re-fetches it.
func (s *Store) Discard(f *os.File) error {
	if err := f.Truncate(0); err != nil {
		return errors.Classify(errors.ErrIO, errors.Wrapf(err, "failed to truncate %s", f.Name()))
	}
	return nil
}
