package lsp_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/nlsls/pkg/config"
	"github.com/walteh/nlsls/pkg/lsp"
	"github.com/walteh/nlsls/pkg/lsp/protocol"
)

const waitFor = 5 * time.Second

type editor struct {
	t      *testing.T
	client *jrpc2.Client
	server *lsp.Server
	done   chan error
	result protocol.InitializeResult

	mu              sync.Mutex
	diagnostics     map[protocol.DocumentURI][]*protocol.PublishDiagnosticsParams
	registrations   []protocol.Registration
	unregistrations []protocol.Unregistration
}

type editorOpts struct {
	files   map[string]string
	config  *config.Config
	folders []string
	dynamic bool
}

func newEditor(t *testing.T, opts editorOpts) *editor {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for path, content := range opts.files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}

	cfg := opts.config
	if cfg == nil {
		cfg = config.Default()
	}
	watch := false
	cfg.Watch = &watch

	ctx := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.WarnLevel).WithContext(context.Background())

	serverReader, clientWriter := io.Pipe()
	clientReader, serverWriter := io.Pipe()

	server, instance := lsp.BuildServerInstance(ctx, &lsp.ServerOpts{
		Config:  cfg,
		Fs:      fsys,
		Version: "test",
	}, &jrpc2.ServerOptions{
		RPCLog: protocol.NewTestLogger(t, nil),
	})

	ed := &editor{
		t:           t,
		server:      server,
		done:        make(chan error, 1),
		diagnostics: map[protocol.DocumentURI][]*protocol.PublishDiagnosticsParams{},
	}

	go func() {
		ed.done <- instance.StartAndWait(serverReader, serverWriter)
	}()

	ed.client = jrpc2.NewClient(channel.LSP(clientReader, clientWriter), &jrpc2.ClientOptions{
		OnNotify: ed.onNotify,
		OnCallback: func(ctx context.Context, req *jrpc2.Request) (any, error) {
			ed.mu.Lock()
			defer ed.mu.Unlock()
			switch req.Method() {
			case "client/registerCapability":
				var params protocol.RegistrationParams
				if err := req.UnmarshalParams(&params); err != nil {
					return nil, err
				}
				ed.registrations = append(ed.registrations, params.Registrations...)
			case "client/unregisterCapability":
				var params protocol.UnregistrationParams
				if err := req.UnmarshalParams(&params); err != nil {
					return nil, err
				}
				ed.unregistrations = append(ed.unregistrations, params.Unregisterations...)
			}
			return nil, nil
		},
	})

	t.Cleanup(func() {
		ed.client.Close()
		_ = clientWriter.Close()
		_ = serverWriter.Close()
		_ = server.Close()
	})

	caps := protocol.ClientCapabilities{}
	if opts.dynamic {
		caps.TextDocument.Hover.DynamicRegistration = true
		caps.TextDocument.Completion.DynamicRegistration = true
		caps.TextDocument.Definition.DynamicRegistration = true
		caps.Workspace.DidChangeWatchedFiles.DynamicRegistration = true
	}

	params := &protocol.InitializeParams{
		ClientInfo:   &protocol.ClientInfo{Name: "test-editor"},
		Capabilities: caps,
	}
	for _, folder := range opts.folders {
		params.WorkspaceFolders = append(params.WorkspaceFolders, protocol.WorkspaceFolder{
			URI:  protocol.URIFromPath(folder),
			Name: folder,
		})
	}

	require.NoError(t, ed.client.CallResult(ctx, "initialize", params, &ed.result))
	require.NoError(t, ed.client.Notify(ctx, "initialized", &protocol.InitializedParams{}))

	return ed
}

func (ed *editor) onNotify(req *jrpc2.Request) {
	if req.Method() == "textDocument/publishDiagnostics" {
		var params protocol.PublishDiagnosticsParams
		if err := req.UnmarshalParams(&params); err != nil {
			ed.t.Errorf("bad diagnostics: %v", err)
			return
		}
		ed.mu.Lock()
		ed.diagnostics[params.URI] = append(ed.diagnostics[params.URI], &params)
		ed.mu.Unlock()
	}
}

func (ed *editor) open(path, text string) protocol.DocumentURI {
	ed.t.Helper()
	uri := protocol.URIFromPath(path)
	require.NoError(ed.t, ed.client.Notify(context.Background(), "textDocument/didOpen", &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: "json",
			Version:    1,
			Text:       text,
		},
	}))
	return uri
}

func (ed *editor) at(uri protocol.DocumentURI, line, character uint32) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     protocol.Position{Line: line, Character: character},
	}
}

func (ed *editor) hover(uri protocol.DocumentURI, line, character uint32) *protocol.Hover {
	ed.t.Helper()
	var result *protocol.Hover
	require.NoError(ed.t, ed.client.CallResult(context.Background(), "textDocument/hover", &protocol.HoverParams{
		TextDocumentPositionParams: ed.at(uri, line, character),
	}, &result))
	return result
}

func (ed *editor) complete(uri protocol.DocumentURI, line, character uint32) *protocol.CompletionList {
	ed.t.Helper()
	var result protocol.CompletionList
	require.NoError(ed.t, ed.client.CallResult(context.Background(), "textDocument/completion", &protocol.CompletionParams{
		TextDocumentPositionParams: ed.at(uri, line, character),
	}, &result))
	return &result
}

func (ed *editor) definition(uri protocol.DocumentURI, line, character uint32) []protocol.Location {
	ed.t.Helper()
	var result []protocol.Location
	require.NoError(ed.t, ed.client.CallResult(context.Background(), "textDocument/definition", &protocol.DefinitionParams{
		TextDocumentPositionParams: ed.at(uri, line, character),
	}, &result))
	return result
}

// latestDiagnostics waits until uri has been published n times and returns the last publish.
func (ed *editor) latestDiagnostics(uri protocol.DocumentURI, n int) *protocol.PublishDiagnosticsParams {
	ed.t.Helper()
	var latest *protocol.PublishDiagnosticsParams
	require.Eventually(ed.t, func() bool {
		ed.mu.Lock()
		defer ed.mu.Unlock()
		published := ed.diagnostics[uri]
		if len(published) < n {
			return false
		}
		latest = published[len(published)-1]
		return true
	}, waitFor, 10*time.Millisecond)
	return latest
}

func (ed *editor) registered() ([]protocol.Registration, []protocol.Unregistration) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return append([]protocol.Registration(nil), ed.registrations...), append([]protocol.Unregistration(nil), ed.unregistrations...)
}

const manifest = `{
  "description": "%ext.description%",
  "title": "%ext.title%"
}
`

func TestHoverMessages(t *testing.T) {
	tests := []struct {
		name string
		nls  *string
		want string
	}{
		{
			name: "resolves the value",
			nls:  ptr(`{"ext.description": "My extension"}`),
			want: "My extension",
		},
		{
			name: "no localization file",
			want: "No package.nls.json found at /ws/package.nls.json",
		},
		{
			name: "invalid json",
			nls:  ptr(`{"a":}`),
			want: "Could not read the package.nls.json file at /ws/package.nls.json",
		},
		{
			name: "missing key",
			nls:  ptr(`{"other": "x"}`),
			want: "The key ext.description was not found in the package.nls.json file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]string{}
			if tt.nls != nil {
				files["/ws/package.nls.json"] = *tt.nls
			}
			ed := newEditor(t, editorOpts{files: files, folders: []string{"/ws"}})
			uri := ed.open("/ws/package.json", manifest)

			result := ed.hover(uri, 1, 20)
			require.NotNil(t, result)
			assert.Equal(t, protocol.PlainText, result.Contents.Kind)
			assert.Equal(t, tt.want, result.Contents.Value)
			require.NotNil(t, result.Range)
			assert.Equal(t, protocol.Range{
				Start: protocol.Position{Line: 1, Character: 17},
				End:   protocol.Position{Line: 1, Character: 36},
			}, *result.Range)
		})
	}
}

func TestHoverOffToken(t *testing.T) {
	ed := newEditor(t, editorOpts{
		files:   map[string]string{"/ws/package.nls.json": `{"ext.description": "My extension"}`},
		folders: []string{"/ws"},
	})
	uri := ed.open("/ws/package.json", manifest)

	assert.Nil(t, ed.hover(uri, 1, 4), "key position")
	assert.Nil(t, ed.hover(uri, 0, 0), "outside any string")
}

func TestHoverReadsUnopenedManifest(t *testing.T) {
	ed := newEditor(t, editorOpts{
		files: map[string]string{
			"/ws/package.json":     manifest,
			"/ws/package.nls.json": `{"ext.description": "From disk"}`,
		},
		folders: []string{"/ws"},
	})

	result := ed.hover(protocol.URIFromPath("/ws/package.json"), 1, 20)
	require.NotNil(t, result)
	assert.Equal(t, "From disk", result.Contents.Value)
}

func TestHoverIgnoresOtherFiles(t *testing.T) {
	ed := newEditor(t, editorOpts{
		files:   map[string]string{"/ws/package.nls.json": `{"ext.description": "My extension"}`},
		folders: []string{"/ws"},
	})
	uri := ed.open("/ws/tsconfig.json", manifest)

	assert.Nil(t, ed.hover(uri, 1, 20))
}

func TestCompletionPositions(t *testing.T) {
	nlsFile := `{"a.b": "X", "a.c": "Y", "other": "Z"}`

	tests := []struct {
		name      string
		text      string
		line      uint32
		character uint32
		want      []protocol.CompletionItem
	}{
		{
			name:      "value position",
			text:      "{\n  \"title\": \"%a.\n}\n",
			line:      1,
			character: 15,
			want: []protocol.CompletionItem{
				{
					Label:      `"%a.b%"`,
					Kind:       protocol.ValueCompletion,
					Detail:     "X",
					SortText:   "a.b",
					FilterText: `"%a.b%"`,
					TextEdit: &protocol.TextEdit{
						Range: protocol.Range{
							Start: protocol.Position{Line: 1, Character: 11},
							End:   protocol.Position{Line: 1, Character: 15},
						},
						NewText: `"%a.b%"`,
					},
				},
				{
					Label:      `"%a.c%"`,
					Kind:       protocol.ValueCompletion,
					Detail:     "Y",
					SortText:   "a.c",
					FilterText: `"%a.c%"`,
					TextEdit: &protocol.TextEdit{
						Range: protocol.Range{
							Start: protocol.Position{Line: 1, Character: 11},
							End:   protocol.Position{Line: 1, Character: 15},
						},
						NewText: `"%a.c%"`,
					},
				},
			},
		},
		{
			name:      "key position",
			text:      "{\n  \"%a.\n}\n",
			line:      1,
			character: 6,
			want:      []protocol.CompletionItem{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := newEditor(t, editorOpts{
				files:   map[string]string{"/ws/package.nls.json": nlsFile},
				folders: []string{"/ws"},
			})
			uri := ed.open("/ws/package.json", tt.text)

			result := ed.complete(uri, tt.line, tt.character)
			assert.False(t, result.IsIncomplete)
			assert.Equal(t, tt.want, result.Items)
		})
	}
}

func TestCompletionWithoutLocalizationFile(t *testing.T) {
	ed := newEditor(t, editorOpts{folders: []string{"/ws"}})
	uri := ed.open("/ws/package.json", "{\n  \"title\": \"%a.\n}\n")

	result := ed.complete(uri, 1, 15)
	assert.Empty(t, result.Items)
}

func TestResolveCompletionItem(t *testing.T) {
	ed := newEditor(t, editorOpts{folders: []string{"/ws"}})

	item := protocol.CompletionItem{Label: `"%a.b%"`, Detail: "X", Kind: protocol.ValueCompletion}
	var result protocol.CompletionItem
	require.NoError(t, ed.client.CallResult(context.Background(), "completionItem/resolve", &item, &result))
	assert.Equal(t, item, result)
}

func TestDefinition(t *testing.T) {
	nlsFile := "{\n  \"ext.description\": \"My extension\"\n}\n"

	ed := newEditor(t, editorOpts{
		files:   map[string]string{"/ws/package.nls.json": nlsFile},
		folders: []string{"/ws"},
	})
	uri := ed.open("/ws/package.json", manifest)

	locations := ed.definition(uri, 1, 20)
	require.Len(t, locations, 1)
	assert.Equal(t, protocol.URIFromPath("/ws/package.nls.json"), locations[0].URI)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 1, Character: 2},
		End:   protocol.Position{Line: 1, Character: 19},
	}, locations[0].Range)

	assert.Empty(t, ed.definition(uri, 2, 14), "missing key has no definition")
}

func TestDiagnostics(t *testing.T) {
	ed := newEditor(t, editorOpts{
		files:   map[string]string{"/ws/package.nls.json": `{"ext.description": "My extension"}`},
		folders: []string{"/ws"},
	})
	uri := ed.open("/ws/package.json", manifest)

	published := ed.latestDiagnostics(uri, 1)
	require.NotNil(t, published.Version)
	assert.Equal(t, int32(1), *published.Version)
	require.Len(t, published.Diagnostics, 1)

	diag := published.Diagnostics[0]
	assert.Equal(t, protocol.SeverityWarning, diag.Severity)
	assert.Equal(t, lsp.ServerName, diag.Source)
	assert.Equal(t, "The key ext.title was not found in the package.nls.json file", diag.Message)
	assert.Equal(t, uint32(2), diag.Range.Start.Line)

	// an unsaved localization buffer wins over the file on disk
	ed.open("/ws/package.nls.json", `{"ext.description": "x", "ext.title": "y"}`)
	published = ed.latestDiagnostics(uri, 2)
	assert.Empty(t, published.Diagnostics)

	// the manifest falls back to disk once the buffer is closed
	require.NoError(t, ed.client.Notify(context.Background(), "textDocument/didClose", &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.URIFromPath("/ws/package.nls.json")},
	}))
	published = ed.latestDiagnostics(uri, 3)
	assert.Len(t, published.Diagnostics, 1)
}

func TestDiagnosticsDisabled(t *testing.T) {
	disabled := false
	ed := newEditor(t, editorOpts{
		files:   map[string]string{"/ws/package.nls.json": `{}`},
		folders: []string{"/ws"},
		config:  &config.Config{Diagnostics: &disabled},
	})
	uri := ed.open("/ws/package.json", manifest)

	// hover is answered after didOpen is handled
	require.NotNil(t, ed.hover(uri, 1, 20))

	ed.mu.Lock()
	defer ed.mu.Unlock()
	assert.Empty(t, ed.diagnostics[uri])
}

func TestDidChangeIncremental(t *testing.T) {
	ed := newEditor(t, editorOpts{
		files:   map[string]string{"/ws/package.nls.json": `{"ext.description": "D", "ext.other": "O"}`},
		folders: []string{"/ws"},
	})
	uri := ed.open("/ws/package.json", manifest)
	ed.latestDiagnostics(uri, 1)

	// ext.title -> ext.other
	require.NoError(t, ed.client.Notify(context.Background(), "textDocument/didChange", &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{
			{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 2, Character: 17},
					End:   protocol.Position{Line: 2, Character: 22},
				},
				Text: "other",
			},
		},
	}))

	published := ed.latestDiagnostics(uri, 2)
	require.NotNil(t, published.Version)
	assert.Equal(t, int32(2), *published.Version)
	assert.Empty(t, published.Diagnostics)

	doc, ok := ed.server.Documents().Get(uri)
	require.True(t, ok)
	assert.Contains(t, doc.Content, `"title": "%ext.other%"`)
}

func TestManifestPattern(t *testing.T) {
	ed := newEditor(t, editorOpts{
		files:   map[string]string{"/ws/ext/package.nls.json": `{"ext.description": "Scoped"}`, "/ws/other/package.nls.json": `{"ext.description": "Other"}`},
		folders: []string{"/ws"},
		config:  &config.Config{ManifestPattern: "ext/**/package.json"},
	})

	result := ed.hover(ed.open("/ws/ext/package.json", manifest), 1, 20)
	require.NotNil(t, result)
	assert.Equal(t, "Scoped", result.Contents.Value)

	assert.Nil(t, ed.hover(ed.open("/ws/other/package.json", manifest), 1, 20))
}

func TestFeaturesBeforeInitialize(t *testing.T) {
	ctx := zerolog.Nop().WithContext(context.Background())
	server := lsp.NewServer(ctx, &lsp.ServerOpts{Fs: afero.NewMemMapFs(), Config: &config.Config{Watch: ptrBool(false)}})

	_, err := server.Hover(ctx, &protocol.HoverParams{})
	require.ErrorIs(t, err, protocol.ServerNotInitializedError)
}

func TestStaticCapabilities(t *testing.T) {
	ed := newEditor(t, editorOpts{folders: []string{"/ws"}})
	result := ed.result

	caps := result.Capabilities
	assert.True(t, caps.HoverProvider)
	assert.True(t, caps.DefinitionProvider)
	require.NotNil(t, caps.CompletionProvider)
	assert.Equal(t, []string{"%", "."}, caps.CompletionProvider.TriggerCharacters)
	require.NotNil(t, caps.TextDocumentSync)
	assert.Equal(t, protocol.Incremental, caps.TextDocumentSync.Change)
	require.NotNil(t, result.ServerInfo)
	assert.Equal(t, lsp.ServerName, result.ServerInfo.Name)
	assert.Equal(t, "test", result.ServerInfo.Version)
}

func TestDynamicRegistration(t *testing.T) {
	ed := newEditor(t, editorOpts{folders: []string{"/ws"}, dynamic: true})

	require.Eventually(t, func() bool {
		regs, _ := ed.registered()
		return len(regs) == 4
	}, waitFor, 10*time.Millisecond)

	regs, _ := ed.registered()
	methods := map[string]protocol.Registration{}
	for _, reg := range regs {
		methods[reg.Method] = reg
		assert.NotEmpty(t, reg.ID)
	}
	assert.Contains(t, methods, "textDocument/hover")
	assert.Contains(t, methods, "textDocument/completion")
	assert.Contains(t, methods, "textDocument/definition")
	assert.Contains(t, methods, "workspace/didChangeWatchedFiles")

	hoverID := methods["textDocument/hover"].ID

	require.NoError(t, ed.client.Notify(context.Background(), "workspace/didChangeWorkspaceFolders", &protocol.DidChangeWorkspaceFoldersParams{
		Event: protocol.WorkspaceFoldersChangeEvent{
			Added:   []protocol.WorkspaceFolder{{URI: protocol.URIFromPath("/other"), Name: "other"}},
			Removed: []protocol.WorkspaceFolder{{URI: protocol.URIFromPath("/ws"), Name: "ws"}},
		},
	}))

	require.Eventually(t, func() bool {
		regs, unregs := ed.registered()
		return len(regs) == 7 && len(unregs) == 3
	}, waitFor, 10*time.Millisecond)

	_, unregs := ed.registered()
	ids := make([]string, 0, len(unregs))
	for _, u := range unregs {
		ids = append(ids, u.ID)
	}
	assert.Contains(t, ids, hoverID)
	assert.Equal(t, []string{"/other"}, ed.server.Registry().Folders())
}

func TestWorkspaceFoldersAreIdempotent(t *testing.T) {
	ed := newEditor(t, editorOpts{folders: []string{"/ws"}})

	add := &protocol.DidChangeWorkspaceFoldersParams{
		Event: protocol.WorkspaceFoldersChangeEvent{
			Added: []protocol.WorkspaceFolder{
				{URI: protocol.URIFromPath("/ws"), Name: "ws"},
				{URI: protocol.URIFromPath("/b"), Name: "b"},
			},
		},
	}
	require.NoError(t, ed.client.Notify(context.Background(), "workspace/didChangeWorkspaceFolders", add))
	require.NoError(t, ed.client.Notify(context.Background(), "workspace/didChangeWorkspaceFolders", add))

	// a request after the notifications observes their effects
	ed.hover(protocol.URIFromPath("/ws/package.json"), 0, 0)

	assert.Equal(t, []string{"/b", "/ws"}, ed.server.Registry().Folders())
}

func TestRequestsOnMissingManifest(t *testing.T) {
	ed := newEditor(t, editorOpts{
		files:   map[string]string{"/ws/package.nls.json": `{"ext.description": "An extension"}`},
		folders: []string{"/ws"},
	})
	uri := protocol.URIFromPath("/ws/package.json")

	assert.Nil(t, ed.hover(uri, 1, 20))
	assert.Empty(t, ed.complete(uri, 1, 15).Items)
	assert.Empty(t, ed.definition(uri, 1, 20))
}

func TestCancelledRequests(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/ws/package.json", []byte(manifest), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/ws/package.nls.json", []byte(`{"ext.description": "An extension"}`), 0o644))

	ctx := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.WarnLevel).WithContext(context.Background())
	server := lsp.NewServer(ctx, &lsp.ServerOpts{
		Config: &config.Config{Watch: ptrBool(false)},
		Fs:     fsys,
	})
	t.Cleanup(func() { _ = server.Close() })

	_, err := server.Initialize(ctx, &protocol.InitializeParams{
		WorkspaceFolders: []protocol.WorkspaceFolder{{URI: protocol.URIFromPath("/ws"), Name: "ws"}},
	})
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	at := protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.URIFromPath("/ws/package.json")},
		Position:     protocol.Position{Line: 1, Character: 20},
	}

	_, err = server.Hover(cancelled, &protocol.HoverParams{TextDocumentPositionParams: at})
	require.ErrorIs(t, err, protocol.RequestCancelledError)

	_, err = server.Completion(cancelled, &protocol.CompletionParams{TextDocumentPositionParams: at})
	require.ErrorIs(t, err, protocol.RequestCancelledError)

	_, err = server.Definition(cancelled, &protocol.DefinitionParams{TextDocumentPositionParams: at})
	require.ErrorIs(t, err, protocol.RequestCancelledError)

	hover, err := server.Hover(ctx, &protocol.HoverParams{TextDocumentPositionParams: at})
	require.NoError(t, err)
	require.NotNil(t, hover)
}

func TestShutdownAndExit(t *testing.T) {
	ed := newEditor(t, editorOpts{folders: []string{"/ws"}})
	uri := ed.open("/ws/package.json", manifest)

	_, err := ed.client.Call(context.Background(), "shutdown", nil)
	require.NoError(t, err)

	_, err = ed.client.Call(context.Background(), "textDocument/hover", &protocol.HoverParams{
		TextDocumentPositionParams: ed.at(uri, 1, 20),
	})
	require.Error(t, err)
	var rpcErr *jrpc2.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, protocol.InvalidRequestError.Code, rpcErr.Code)

	require.NoError(t, ed.client.Notify(context.Background(), "exit", nil))

	select {
	case err := <-ed.done:
		assert.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("server did not stop after exit")
	}
}

func ptr(s string) *string {
	return &s
}

func ptrBool(b bool) *bool {
	return &b
}
