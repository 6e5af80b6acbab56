package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/quasilyte/gdata/v2"
)

// Document names one of the two persisted gear documents
type Document string

const (
	StateDocument Document = "state"
	BisDocument   Document = "bis"
)

const backupSuffix = ".bak"

// Backup names the document that keeps an unreadable copy of doc
func (d Document) Backup() Document {
	return d + backupSuffix
}

// Blobs reads and writes raw document bytes. Load returns an error
// matching fs.ErrNotExist when the document was never saved.
type Blobs interface {
	Load(doc Document) ([]byte, error)
	Save(doc Document, data []byte) error
}

// FileBlobs keeps each document in its own file
type FileBlobs struct {
	StatePath string
	BisPath   string
}

// NewFileBlobs creates file-backed blobs
func NewFileBlobs(statePath, bisPath string) *FileBlobs {
	return &FileBlobs{StatePath: statePath, BisPath: bisPath}
}

func (b *FileBlobs) path(doc Document) (string, error) {
	if base, ok := strings.CutSuffix(string(doc), backupSuffix); ok {
		path, err := b.path(Document(base))
		if err != nil {
			return "", err
		}
		return path + backupSuffix, nil
	}
	switch doc {
	case StateDocument:
		return b.StatePath, nil
	case BisDocument:
		return b.BisPath, nil
	}
	return "", fmt.Errorf("unknown document %q", doc)
}

// Load reads a document file
func (b *FileBlobs) Load(doc Document) ([]byte, error) {
	path, err := b.path(doc)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Save replaces a document file. The data is written to a temporary file
// next to the target and renamed over it.
func (b *FileBlobs) Save(doc Document, data []byte) error {
	path, err := b.path(doc)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

const profileObject = "gear"

// ProfileBlobs keeps documents in the per-user application data directory
type ProfileBlobs struct {
	manager *gdata.Manager
}

// OpenProfile opens (and creates if needed) the data directory of appName
func OpenProfile(appName string) (*ProfileBlobs, error) {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open profile %q: %w", appName, err)
	}
	return &ProfileBlobs{manager: manager}, nil
}

// Load reads a document from the profile
func (b *ProfileBlobs) Load(doc Document) ([]byte, error) {
	if !b.manager.ObjectPropExists(profileObject, string(doc)) {
		return nil, fmt.Errorf("profile document %q: %w", doc, fs.ErrNotExist)
	}
	return b.manager.LoadObjectProp(profileObject, string(doc))
}

// Save writes a document to the profile
func (b *ProfileBlobs) Save(doc Document, data []byte) error {
	return b.manager.SaveObjectProp(profileObject, string(doc), data)
}

// MemoryBlobs keeps documents in memory
type MemoryBlobs struct {
	docs map[Document][]byte
}

// NewMemoryBlobs creates empty in-memory blobs
func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{docs: map[Document][]byte{}}
}

// Load returns a copy of a stored document
func (b *MemoryBlobs) Load(doc Document) ([]byte, error) {
	data, ok := b.docs[doc]
	if !ok {
		return nil, fmt.Errorf("memory document %q: %w", doc, fs.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

// Save stores a copy of a document
func (b *MemoryBlobs) Save(doc Document, data []byte) error {
	b.docs[doc] = append([]byte(nil), data...)
	return nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// OpenBlobs returns the blobs for a store kind: "file" uses the two paths,
// "profile" the application data directory named profile.
func OpenBlobs(kind, statePath, bisPath, profile string) (Blobs, error) {
	switch kind {
	case "", "file":
		return NewFileBlobs(statePath, bisPath), nil
	case "profile":
		blobs, err := OpenProfile(profile)
		if err != nil {
			return nil, err
		}
		return blobs, nil
	}
	return nil, fmt.Errorf("unknown store %q", kind)
}
