package lsp

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/afero"
	"github.com/walteh/nlsls/pkg/lsp/protocol"
	"github.com/walteh/nlsls/pkg/nls"
	"github.com/walteh/nlsls/pkg/placeholder"
	"gitlab.com/tozd/go/errors"
)

// Document represents a text document with its metadata
type Document struct {
	URI        protocol.DocumentURI
	Path       string
	LanguageID string
	Version    int32
	Content    string
}

func (d *Document) Manifest() placeholder.Manifest {
	return placeholder.Manifest{Path: d.Path, Text: d.Content}
}

// DocumentManager holds the open editor buffers, keyed by filesystem path.
// Reads of files that are not open fall through to the filesystem, so an
// unsaved localization buffer wins over the file on disk.
type DocumentManager struct {
	store *sync.Map // map[string]*Document
	fs    afero.Fs
}

var _ nls.Source = (*DocumentManager)(nil)

func NewDocumentManager(fsys afero.Fs) *DocumentManager {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &DocumentManager{
		store: &sync.Map{},
		fs:    fsys,
	}
}

func keyOf(path string) string {
	return filepath.Clean(path)
}

// Get returns the open document for uri.
func (m *DocumentManager) Get(uri protocol.DocumentURI) (*Document, bool) {
	return m.GetPath(uri.Path())
}

func (m *DocumentManager) GetPath(path string) (*Document, bool) {
	content, ok := m.store.Load(keyOf(path))
	if !ok {
		return nil, false
	}
	doc, ok := content.(*Document)
	return doc, ok
}

// Load returns the open document for uri, or reads it from the filesystem
// without opening it.
func (m *DocumentManager) Load(uri protocol.DocumentURI) (*Document, error) {
	if doc, ok := m.Get(uri); ok {
		return doc, nil
	}

	path := uri.Path()
	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}

	return &Document{URI: uri, Path: path, Content: string(data)}, nil
}

func (m *DocumentManager) Store(doc *Document) {
	if doc.Path == "" {
		doc.Path = doc.URI.Path()
	}
	m.store.Store(keyOf(doc.Path), doc)
}

func (m *DocumentManager) Delete(uri protocol.DocumentURI) {
	m.store.Delete(keyOf(uri.Path()))
}

// ReadFile implements nls.Source.
func (m *DocumentManager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if doc, ok := m.GetPath(path); ok {
		return []byte(doc.Content), nil
	}

	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		// afero reports a missing file as an *fs.PathError wrapping fs.ErrNotExist
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// InDir returns the open documents in dir whose base name is name, sorted by path.
func (m *DocumentManager) InDir(dir, name string) []*Document {
	dir = keyOf(dir)
	var docs []*Document
	m.store.Range(func(_, value any) bool {
		doc := value.(*Document)
		if filepath.Dir(doc.Path) == dir && filepath.Base(doc.Path) == name {
			docs = append(docs, doc)
		}
		return true
	})
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Path < docs[j].Path
	})
	return docs
}

// All returns every open document, sorted by path.
func (m *DocumentManager) All() []*Document {
	var docs []*Document
	m.store.Range(func(_, value any) bool {
		docs = append(docs, value.(*Document))
		return true
	})
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Path < docs[j].Path
	})
	return docs
}
