package lsp_test

import (
	"context"
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/nlsls/pkg/lsp"
	"github.com/walteh/nlsls/pkg/lsp/protocol"
)

func TestDocumentManager(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/ws/package.nls.json", []byte(`{"a": "disk"}`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/ws/package.json", []byte(`{}`), 0o644))

	docs := lsp.NewDocumentManager(fsys)
	ctx := context.Background()

	data, err := docs.ReadFile(ctx, "/ws/package.nls.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a": "disk"}`, string(data))

	nlsURI := protocol.URIFromPath("/ws/package.nls.json")
	docs.Store(&lsp.Document{URI: nlsURI, Content: `{"a": "buffer"}`})

	doc, ok := docs.Get(nlsURI)
	require.True(t, ok)
	assert.Equal(t, "/ws/package.nls.json", doc.Path)

	data, err = docs.ReadFile(ctx, "/ws/./package.nls.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a": "buffer"}`, string(data), "open buffer wins over disk")

	loaded, err := docs.Load(protocol.URIFromPath("/ws/package.json"))
	require.NoError(t, err)
	assert.Equal(t, `{}`, loaded.Content)
	_, ok = docs.GetPath("/ws/package.json")
	assert.False(t, ok, "loading does not open the document")

	docs.Delete(nlsURI)
	data, err = docs.ReadFile(ctx, "/ws/package.nls.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a": "disk"}`, string(data))

	_, err = docs.ReadFile(ctx, "/nope/package.nls.json")
	require.ErrorIs(t, err, fs.ErrNotExist)

	_, err = docs.Load(protocol.URIFromPath("/nope/package.json"))
	require.Error(t, err)
}

func TestDocumentManagerInDir(t *testing.T) {
	docs := lsp.NewDocumentManager(afero.NewMemMapFs())
	for _, path := range []string{
		"/b/package.json",
		"/a/package.json",
		"/a/package.nls.json",
		"/a/sub/package.json",
	} {
		docs.Store(&lsp.Document{URI: protocol.URIFromPath(path), Path: path})
	}

	var paths []string
	for _, doc := range docs.InDir("/a", "package.json") {
		paths = append(paths, doc.Path)
	}
	assert.Equal(t, []string{"/a/package.json"}, paths)

	paths = nil
	for _, doc := range docs.All() {
		paths = append(paths, doc.Path)
	}
	assert.Equal(t, []string{"/a/package.json", "/a/package.nls.json", "/a/sub/package.json", "/b/package.json"}, paths)
}
