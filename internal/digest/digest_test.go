package digest_test

import (
	"crypto/sha256"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redvalid/internal/digest"
	domaintypes "redvalid/internal/domain/types"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestFromReader(t *testing.T) {
	d, err := digest.FromReader(strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", d.Hex())

	_, err = digest.FromReader(strings.NewReader(""))
	assert.ErrorIs(t, err, domaintypes.ErrContentInvalid)

	_, err = digest.FromReader(failingReader{})
	assert.ErrorIs(t, err, domaintypes.ErrContentInvalid)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	d, err := digest.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, sha256.Sum256([]byte("hello")), [32]byte(d))

	_, err = digest.FromFile(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, domaintypes.ErrContentInvalid)
}

func TestFromReport(t *testing.T) {
	a, err := digest.FromReport("https://example.com/post", "alice")
	require.NoError(t, err)
	assert.Equal(t, sha256.Sum256([]byte("https://example.com/post:alice")), [32]byte(a))

	b, err := digest.FromReport("https://example.com/post", "bob")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = digest.FromReport(" ", "alice")
	assert.ErrorIs(t, err, digest.ErrEmptyField)
}

func TestParse(t *testing.T) {
	want := strings.Repeat("0f", 32)
	d, err := digest.Parse(want)
	require.NoError(t, err)
	assert.Equal(t, want, d.Hex())

	_, err = digest.Parse("abcd")
	assert.ErrorIs(t, err, domaintypes.ErrInvalidDigest)
	_, err = digest.Parse(strings.Repeat("zz", 32))
	assert.ErrorIs(t, err, domaintypes.ErrInvalidDigest)
}

func TestSHA256Producer(t *testing.T) {
	d, err := digest.SHA256{}.Produce(strings.NewReader("hello"))
	require.NoError(t, err)
	want, _ := digest.FromReader(strings.NewReader("hello"))
	assert.Equal(t, want, d)
}
