package protocol

import (
	"context"

	"github.com/creachadair/jrpc2/handler"
)

// Server is the set of LSP methods the language server answers.
type Server interface {
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#initialize
	Initialize(context.Context, *InitializeParams) (*InitializeResult, error)
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#initialized
	Initialized(context.Context, *InitializedParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#shutdown
	Shutdown(context.Context) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#exit
	Exit(context.Context) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#setTrace
	SetTrace(context.Context, *SetTraceParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_didOpen
	DidOpen(context.Context, *DidOpenTextDocumentParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_didChange
	DidChange(context.Context, *DidChangeTextDocumentParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_didClose
	DidClose(context.Context, *DidCloseTextDocumentParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_didSave
	DidSave(context.Context, *DidSaveTextDocumentParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_hover
	Hover(context.Context, *HoverParams) (*Hover, error)
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_completion
	Completion(context.Context, *CompletionParams) (*CompletionList, error)
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#completionItem_resolve
	ResolveCompletionItem(context.Context, *CompletionItem) (*CompletionItem, error)
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_definition
	Definition(context.Context, *DefinitionParams) ([]Location, error)
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#workspace_didChangeWorkspaceFolders
	DidChangeWorkspaceFolders(context.Context, *DidChangeWorkspaceFoldersParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#workspace_didChangeWatchedFiles
	DidChangeWatchedFiles(context.Context, *DidChangeWatchedFilesParams) error
}

func buildServerDispatchMap(server Server) handler.Map {
	return handler.Map{
		"initialize":                          createHandler(server.Initialize),
		"initialized":                         createEmptyResultHandler(server.Initialized),
		"shutdown":                            createEmptyHandler(server.Shutdown),
		"exit":                                createEmptyHandler(server.Exit),
		"$/setTrace":                          createEmptyResultHandler(server.SetTrace),
		"textDocument/didOpen":                createEmptyResultHandler(server.DidOpen),
		"textDocument/didChange":              createEmptyResultHandler(server.DidChange),
		"textDocument/didClose":               createEmptyResultHandler(server.DidClose),
		"textDocument/didSave":                createEmptyResultHandler(server.DidSave),
		"textDocument/hover":                  createHandler(server.Hover),
		"textDocument/completion":             createHandler(server.Completion),
		"completionItem/resolve":              createHandler(server.ResolveCompletionItem),
		"textDocument/definition":             createHandler(server.Definition),
		"workspace/didChangeWorkspaceFolders": createEmptyResultHandler(server.DidChangeWorkspaceFolders),
		"workspace/didChangeWatchedFiles":     createEmptyResultHandler(server.DidChangeWatchedFiles),
	}
}
