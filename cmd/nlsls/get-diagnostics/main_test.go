package get_diagnostics

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/nlsls/cmd/nlsls/query"
)

func setupWorkspace(t *testing.T) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"/ws/a/package.json":            `{"title": "%a.title%", "description": "%a.missing%"}`,
		"/ws/a/package.nls.json":        `{"a.title": "A"}`,
		"/ws/b/package.json":            `{"title": "%b.title%"}`,
		"/ws/b/package.nls.json":        `{"b.title": "B"}`,
		"/ws/node_modules/package.json": `{"title": "%never.checked%"}`,
	}
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
	return fsys
}

func TestGetDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		path string
		want map[string][]string
	}{
		{
			name: "single manifest",
			path: "/ws/a/package.json",
			want: map[string][]string{
				"/ws/a/package.json": {"The key a.missing was not found in the package.nls.json file"},
			},
		},
		{
			name: "directory",
			path: "/ws",
			want: map[string][]string{
				"/ws/a/package.json": {"The key a.missing was not found in the package.nls.json file"},
				"/ws/b/package.json": {},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			me := &Handler{
				Target: query.Target{ManifestPath: tt.path, Fs: setupWorkspace(t)},
				out:    out,
			}

			require.NoError(t, me.Run(context.Background()))

			var results []FileDiagnostics
			require.NoError(t, json.Unmarshal(out.Bytes(), &results))

			got := map[string][]string{}
			for _, r := range results {
				messages := []string{}
				for _, d := range r.Diagnostics {
					messages = append(messages, d.Message)
				}
				got[r.Path] = messages
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetDiagnosticsMissingPath(t *testing.T) {
	me := &Handler{
		Target: query.Target{ManifestPath: "/nope", Fs: afero.NewMemMapFs()},
		out:    &bytes.Buffer{},
	}
	require.Error(t, me.Run(context.Background()))
}
