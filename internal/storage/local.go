// Package storage provides the blob store that holds product images.
// The product service only sees the Store interface: upload bytes, get a
// {id, url} reference back, delete by id.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Blob is a stored object reference.
type Blob struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Store is the blob store contract the rest of the service depends on.
type Store interface {
	Upload(contents io.Reader, mimeType string) (Blob, error)
	Delete(id string) error
	Open(id string) (*os.File, error)
}

// Local is a Store backed by the local filesystem, serving blobs under a
// public base URL.
type Local struct {
	maxFileSize int // Maximum number of bytes for files
	basePath    string
	baseURL     string
}

// maxBytesWriter is a writer that errors when more than N bytes are written
type maxBytesWriter struct {
	w io.Writer // underlying writer
	n int       // max bytes remaining
}

func (l *maxBytesWriter) Write(p []byte) (int, error) {
	if l.n <= 0 {
		return 0, io.EOF
	}
	if len(p) > l.n {
		p = p[:l.n]
	}
	n, err := l.w.Write(p)
	l.n -= n
	if err != nil {
		return n, err
	}
	if l.n <= 0 {
		return n, io.EOF
	}
	return n, nil
}

// NewLocal creates a Store rooted at basePath. Uploaded blobs are publicly
// reachable at baseURL/<id>; maxSize caps the size of a single blob.
func NewLocal(basePath, baseURL string, maxSize int) (*Local, error) {
	p, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(p, os.ModePerm); err != nil {
		return nil, fmt.Errorf("unable to create storage directory: %w", err)
	}

	return &Local{basePath: p, baseURL: baseURL, maxFileSize: maxSize}, nil
}

// Upload stores the contents under a fresh id and returns its reference.
// The write is atomic: contents land in a temp file that is renamed into
// place only once fully written.
func (l *Local) Upload(contents io.Reader, mimeType string) (Blob, error) {
	id := uuid.New().String() + extensionFor(mimeType)
	fp := filepath.Join(l.basePath, id)

	tempFile, err := os.CreateTemp(l.basePath, "temp-*")
	if err != nil {
		return Blob{}, fmt.Errorf("unable to create temporary file: %w", err)
	}
	tempPath := tempFile.Name()
	// Ensure the temporary file is deleted if the function returns early
	defer os.Remove(tempPath)

	writer := &maxBytesWriter{w: tempFile, n: l.maxFileSize}
	written, err := io.Copy(writer, contents)
	if err != nil && err != io.EOF {
		tempFile.Close()
		return Blob{}, fmt.Errorf("unable to write to file: %w", err)
	}

	if err = tempFile.Close(); err != nil {
		return Blob{}, fmt.Errorf("unable to close temporary file: %w", err)
	}

	if written >= int64(l.maxFileSize) {
		return Blob{}, fmt.Errorf("file size exceeds maximum allowed size of %d bytes", l.maxFileSize)
	}

	if err := os.Rename(tempPath, fp); err != nil {
		return Blob{}, fmt.Errorf("unable to move temporary file to final location: %w", err)
	}

	return Blob{ID: id, URL: l.baseURL + "/" + id}, nil
}

// Delete removes the blob with the given id.
func (l *Local) Delete(id string) error {
	if err := os.Remove(l.fullPath(id)); err != nil {
		return fmt.Errorf("unable to delete blob %s: %w", id, err)
	}
	return nil
}

// Open returns the blob contents for serving.
func (l *Local) Open(id string) (*os.File, error) {
	f, err := os.Open(l.fullPath(id))
	if err != nil {
		return nil, fmt.Errorf("unable to open the file: %w", err)
	}
	return f, nil
}

// fullPath confines the id to the base directory.
func (l *Local) fullPath(id string) string {
	return filepath.Join(l.basePath, filepath.Base(id))
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
