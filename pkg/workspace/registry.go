// Package workspace tracks which folders the server serves and watches the
// localization files next to open manifests.
package workspace

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
)

// Capability methods registered for each attached folder.
var RegisteredMethods = []string{
	"textDocument/hover",
	"textDocument/completion",
	"textDocument/definition",
}

// Attachment is the selector set attached for one workspace folder.
type Attachment struct {
	Folder string
	// Pattern is the manifest glob relative to Folder
	Pattern string
	// IDs maps each registered method to its registration id
	IDs map[string]string
}

// Selector is the absolute glob of manifests under the folder, always with forward slashes.
func (a *Attachment) Selector() string {
	return strings.TrimSuffix(filepath.ToSlash(a.Folder), "/") + "/" + a.Pattern
}

// Registry maps folder paths to their attachment. Attach and Detach are
// idempotent so the initial folder list and later folder events can both call
// them freely.
type Registry struct {
	mu           sync.Mutex
	pattern      string
	manifestName string
	folders      map[string]*Attachment
}

func NewRegistry(pattern string) *Registry {
	return &Registry{
		pattern:      pattern,
		manifestName: filepath.Base(filepath.FromSlash(pattern)),
		folders:      make(map[string]*Attachment),
	}
}

func normalizeFolder(folder string) string {
	return filepath.Clean(folder)
}

// Attach adds folder. The returned bool is false when the folder was already attached.
func (me *Registry) Attach(folder string) (*Attachment, bool) {
	me.mu.Lock()
	defer me.mu.Unlock()

	folder = normalizeFolder(folder)
	if existing, ok := me.folders[folder]; ok {
		return existing, false
	}

	ids := make(map[string]string, len(RegisteredMethods))
	for _, method := range RegisteredMethods {
		ids[method] = uuid.NewString()
	}

	att := &Attachment{Folder: folder, Pattern: me.pattern, IDs: ids}
	me.folders[folder] = att
	return att, true
}

// Detach removes folder. The returned bool is false when it was not attached.
func (me *Registry) Detach(folder string) (*Attachment, bool) {
	me.mu.Lock()
	defer me.mu.Unlock()

	folder = normalizeFolder(folder)
	att, ok := me.folders[folder]
	if !ok {
		return nil, false
	}
	delete(me.folders, folder)
	return att, true
}

// Folders returns the attached folders, sorted.
func (me *Registry) Folders() []string {
	me.mu.Lock()
	defer me.mu.Unlock()

	folders := make([]string, 0, len(me.folders))
	for folder := range me.folders {
		folders = append(folders, folder)
	}
	sort.Strings(folders)
	return folders
}

// Match reports whether path is a manifest the server should answer for.
// Without attached folders any file named like the manifest matches.
func (me *Registry) Match(path string) bool {
	me.mu.Lock()
	defer me.mu.Unlock()

	if len(me.folders) == 0 {
		return filepath.Base(path) == me.manifestName
	}

	for folder, att := range me.folders {
		rel, err := filepath.Rel(folder, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		ok, err := doublestar.Match(att.Pattern, filepath.ToSlash(rel))
		if err == nil && ok {
			return true
		}
	}
	return false
}
