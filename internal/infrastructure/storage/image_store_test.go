package storage

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swacchmap/civic-reports/internal/core/domain"
	"github.com/swacchmap/civic-reports/internal/core/ports"
)

// pngHeader is the 8-byte PNG signature followed by an IHDR chunk start.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func TestImageStore_SaveNamesByTimestamp(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)

	at := time.Date(2026, 10, 14, 9, 30, 5, 0, time.Local)
	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 512)...)

	name, err := store.Save(context.Background(), ports.ImageUpload{
		Filename: "../../etc/river bank.png",
		Content:  bytes.NewReader(content),
	}, at)
	require.NoError(t, err)
	assert.Equal(t, "20261014093005_river bank.png", name)

	written, err := os.ReadFile(store.Path(name))
	require.NoError(t, err)
	assert.Equal(t, content, written)
}

func TestImageStore_SameSecondUploadsDoNotOverwrite(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)
	at := time.Date(2026, 10, 14, 9, 30, 5, 0, time.Local)

	var names []string
	var contents [][]byte
	for i := byte(1); i <= 3; i++ {
		content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{i}, 512)...)
		name, err := store.Save(context.Background(), ports.ImageUpload{Filename: "bin.png", Content: bytes.NewReader(content)}, at)
		require.NoError(t, err)
		names = append(names, name)
		contents = append(contents, content)
	}
	assert.Equal(t, []string{"20261014093005_bin.png", "20261014093005_bin_1.png", "20261014093005_bin_2.png"}, names)

	for i, name := range names {
		written, err := os.ReadFile(store.Path(name))
		require.NoError(t, err)
		assert.Equal(t, contents[i], written, name)
	}
}

func TestImageStore_RejectsNonImage(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), ports.ImageUpload{
		Filename: "notes.png",
		Content:  strings.NewReader("just some text pretending to be a png"),
	}, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestImageStore_RejectsEmpty(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), ports.ImageUpload{Filename: "a.jpg", Content: strings.NewReader("")}, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "photo.jpg", baseName(`C:\Users\asha\photo.jpg`))
	assert.Equal(t, "upload", baseName(""))
	assert.Equal(t, "upload", baseName(".."))
}
