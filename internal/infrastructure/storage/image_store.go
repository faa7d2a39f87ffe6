package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"

	"github.com/swacchmap/civic-reports/internal/core/domain"
	"github.com/swacchmap/civic-reports/internal/core/ports"
)

// headerSize is the number of leading bytes filetype needs to identify a format.
const headerSize = 261

const filenameTimeLayout = "20060102150405"

// maxNameAttempts bounds the numeric suffixes tried when a filename is taken.
const maxNameAttempts = 100

var allowedExtensions = map[string]struct{}{
	"jpg": {},
	"png": {},
}

// ImageStore writes uploads to a local directory as <YYYYMMDDHHMMSS>_<original name>.
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the upload directory.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save sniffs the content type, rejecting anything that is not JPEG or PNG with
// domain.ErrInvalidImage, and writes the file.
func (s *ImageStore) Save(_ context.Context, upload ports.ImageUpload, at time.Time) (string, error) {
	head := make([]byte, headerSize)
	n, err := io.ReadFull(upload.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return "", domain.ErrInvalidImage
		}
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	kind, err := filetype.Match(head)
	if err != nil {
		return "", domain.ErrInvalidImage
	}
	if _, ok := allowedExtensions[kind.Extension]; !ok {
		return "", domain.ErrInvalidImage
	}

	name, f, err := s.create(at.Format(filenameTimeLayout) + "_" + baseName(upload.Filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, io.MultiReader(bytes.NewReader(head), upload.Content)); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image: %w", err)
	}
	return name, nil
}

// create opens a new file for name, never replacing an existing one. When name
// is taken a numeric suffix goes before the extension: a_bin.png, a_bin_1.png.
func (s *ImageStore) create(name string) (string, *os.File, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 1; i <= maxNameAttempts; i++ {
		f, err := os.OpenFile(s.Path(candidate), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return candidate, f, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", nil, fmt.Errorf("create image: %w", err)
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
	return "", nil, fmt.Errorf("create image %s: no free name after %d attempts", name, maxNameAttempts)
}

// Path resolves a stored filename inside the upload directory.
func (s *ImageStore) Path(name string) string {
	return filepath.Join(s.dir, baseName(name))
}

// baseName strips any directory part a client may have sent with the filename.
func baseName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" || base == ".." {
		return "upload"
	}
	return base
}
