package store

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenOrCreate_CreatesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo.jar")
	s := NewStore()

	f, err := s.OpenOrCreate(path)
	require.NoError(t, err)
	defer f.Close()

	assert.FileExists(t, path)
	data, err := s.ReadAll(f)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestOpenOrCreate_KeepsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo.jar")
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0o644))
	s := NewStore()

	f, err := s.OpenOrCreate(path)
	require.NoError(t, err)
	defer f.Close()

	data, err := s.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}

func TestOpenOrCreate_MissingParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "foo.jar")

	_, err := NewStore().OpenOrCreate(path)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrIO))
}

func TestWriteStream_TruncatesAfterRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo.jar")
	require.NoError(t, os.WriteFile(path, []byte("a much longer stale file body"), 0o644))
	s := NewStore()

	f, err := s.OpenOrCreate(path)
	require.NoError(t, err)
	defer f.Close()

	// The verification read leaves the cursor at EOF.
	_, err = s.ReadAll(f)
	require.NoError(t, err)

	n, err := s.WriteStream(f, bytes.NewReader([]byte("fresh")))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(got))
}

func TestWriteStream_ChunkedMatchesBuffered(t *testing.T) {
	source := make([]byte, 1<<20+7)
	for i := range source {
		source[i] = byte(i * 31)
	}
	s := NewStore()
	dir := t.TempDir()

	write := func(name string, r io.Reader) []byte {
		f, err := s.OpenOrCreate(filepath.Join(dir, name))
		require.NoError(t, err)
		defer f.Close()
		n, err := s.WriteStream(f, r)
		require.NoError(t, err)
		assert.Equal(t, int64(len(source)), n)
		data, err := s.ReadAll(f)
		require.NoError(t, err)
		return data
	}

	buffered := write("buffered.jar", bytes.NewReader(source))
	oneByte := write("onebyte.jar", iotest.OneByteReader(bytes.NewReader(source)))
	halves := write("halves.jar", iotest.HalfReader(bytes.NewReader(source)))

	assert.Equal(t, source, buffered)
	assert.Equal(t, buffered, oneByte)
	assert.Equal(t, buffered, halves)
}

func TestWriteStream_ReaderFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo.jar")
	s := NewStore()
	f, err := s.OpenOrCreate(path)
	require.NoError(t, err)
	defer f.Close()

	r := io.MultiReader(bytes.NewReader([]byte("partial")), iotest.ErrReader(stderrors.New("connection reset")))
	n, err := s.WriteStream(f, r)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrIO))
	assert.Equal(t, int64(7), n)

	require.NoError(t, s.Discard(f))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}
