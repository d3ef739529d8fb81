package checksum

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const emptyMD5 = "d41d8cd98f00b204e9800998ecf8427e"

func TestSum_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "empty", data: []byte{}, want: emptyMD5},
		{name: "nil", data: nil, want: emptyMD5},
		{name: "abc", data: []byte("abc"), want: "900150983cd24fb0d6963f7d28e17f72"},
		{name: "fox", data: []byte("The quick brown fox jumps over the lazy dog"), want: "9e107d9d372bb6826bd81d3542a419d6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sum(tt.data))
		})
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		[]byte("a"),
		bytes.Repeat([]byte{0x00, 0xff, 0x7f}, 4096),
		[]byte(strings.Repeat("mod jar bytes ", 1000)),
	}

	for _, data := range inputs {
		sum := Sum(data)
		assert.True(t, Verify(data, sum), "lowercase digest should verify")
		assert.True(t, Verify(data, strings.ToUpper(sum)), "uppercase digest should verify")
		assert.True(t, Verify(data, "  "+sum+"\n"), "whitespace around digest should be ignored")
	}
}

func TestVerify_Mismatch(t *testing.T) {
	assert.False(t, Verify([]byte("abc"), emptyMD5))
	assert.False(t, Verify([]byte{}, ""))
	assert.False(t, Verify([]byte{}, "not-a-digest"))
}

func TestSumReader(t *testing.T) {
	data := bytes.Repeat([]byte("chunk"), 10000)
	got, err := SumReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Sum(data), got)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestSumReader_Error(t *testing.T) {
	_, err := SumReader(failingReader{})
	require.Error(t, err)
}

func TestIsHex(t *testing.T) {
	assert.True(t, IsHex(emptyMD5))
	assert.True(t, IsHex(strings.ToUpper(emptyMD5)))
	assert.False(t, IsHex(emptyMD5[:31]))
	assert.False(t, IsHex("zz1d8cd98f00b204e9800998ecf8427e"))
	assert.False(t, IsHex(""))
}
