package lsp

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/nlsls/pkg/lsp/protocol"
	"github.com/walteh/nlsls/pkg/workspace"
)

func (me *Server) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	logger := zerolog.Ctx(ctx)

	caps := params.Capabilities
	textCaps := caps.TextDocument

	folders := initialFolders(params)
	for _, folder := range folders {
		me.registry.Attach(folder)
	}

	// per folder registrations need a folder to scope them to
	dynamic := textCaps.Hover.DynamicRegistration &&
		textCaps.Completion.DynamicRegistration &&
		textCaps.Definition.DynamicRegistration &&
		len(folders) > 0

	me.mu.Lock()
	me.clientCapabilities = caps
	me.dynamic = dynamic
	me.trace = params.Trace
	me.mu.Unlock()

	name := ""
	if params.ClientInfo != nil {
		name = params.ClientInfo.Name
	}

	logger.Info().
		Str("client", name).
		Strs("folders", folders).
		Bool("dynamic_registration", dynamic).
		Msg("initializing server")

	result := &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.Incremental,
				Save:      &protocol.SaveOptions{IncludeText: true},
			},
			Workspace: &protocol.WorkspaceOptions{
				WorkspaceFolders: &protocol.WorkspaceFoldersServerCapabilities{
					Supported:           true,
					ChangeNotifications: true,
				},
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    ServerName,
			Version: me.version,
		},
	}

	if !dynamic {
		result.Capabilities.HoverProvider = true
		result.Capabilities.DefinitionProvider = true
		result.Capabilities.CompletionProvider = &protocol.CompletionOptions{
			TriggerCharacters: me.cfg.GetTriggerCharacters(),
			ResolveProvider:   true,
		}
	}

	me.initialized.Store(true)

	return result, nil
}

func initialFolders(params *protocol.InitializeParams) []string {
	folders := make([]string, 0, len(params.WorkspaceFolders))
	for _, f := range params.WorkspaceFolders {
		folders = append(folders, f.URI.Path())
	}
	if len(folders) > 0 {
		return folders
	}
	if params.RootURI != "" {
		return []string{params.RootURI.Path()}
	}
	if params.RootPath != "" {
		return []string{params.RootPath}
	}
	return folders
}

func (me *Server) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Msg("server initialized")

	me.mu.Lock()
	dynamic := me.dynamic
	watchedFiles := me.clientCapabilities.Workspace.DidChangeWatchedFiles.DynamicRegistration
	me.mu.Unlock()

	var registrations []protocol.Registration

	if dynamic {
		for _, folder := range me.registry.Folders() {
			att, _ := me.registry.Attach(folder)
			registrations = append(registrations, me.folderRegistrations(att)...)
		}
	}

	if watchedFiles {
		registrations = append(registrations, protocol.Registration{
			ID:     uuid.NewString(),
			Method: "workspace/didChangeWatchedFiles",
			RegisterOptions: &protocol.DidChangeWatchedFilesRegistrationOptions{
				Watchers: []protocol.FileSystemWatcher{
					{
						GlobPattern: "**/" + me.resolver.FileName,
						Kind:        protocol.WatchCreate | protocol.WatchChange | protocol.WatchDelete,
					},
				},
			},
		})
	}

	if len(registrations) == 0 {
		return nil
	}

	// the client answers registrations on the same connection, so never block the handler on it
	go me.register(context.WithoutCancel(ctx), registrations)

	return nil
}

// folderRegistrations scopes hover, completion and definition to the
// manifests under one folder.
func (me *Server) folderRegistrations(att *workspace.Attachment) []protocol.Registration {
	selector := protocol.TextDocumentRegistrationOptions{
		DocumentSelector: []protocol.DocumentFilter{
			{Scheme: "file", Pattern: att.Selector()},
		},
	}

	registrations := make([]protocol.Registration, 0, len(workspace.RegisteredMethods))
	for _, method := range workspace.RegisteredMethods {
		var opts any = &selector
		if method == "textDocument/completion" {
			opts = &protocol.CompletionRegistrationOptions{
				TextDocumentRegistrationOptions: selector,
				CompletionOptions: protocol.CompletionOptions{
					TriggerCharacters: me.cfg.GetTriggerCharacters(),
					ResolveProvider:   true,
				},
			}
		}
		registrations = append(registrations, protocol.Registration{
			ID:              att.IDs[method],
			Method:          method,
			RegisterOptions: opts,
		})
	}
	return registrations
}

func folderUnregistrations(att *workspace.Attachment) []protocol.Unregistration {
	unregistrations := make([]protocol.Unregistration, 0, len(workspace.RegisteredMethods))
	for _, method := range workspace.RegisteredMethods {
		unregistrations = append(unregistrations, protocol.Unregistration{
			ID:     att.IDs[method],
			Method: method,
		})
	}
	return unregistrations
}

func (me *Server) register(ctx context.Context, registrations []protocol.Registration) {
	client := me.client()
	if client == nil {
		return
	}
	if err := client.RegisterCapability(ctx, &protocol.RegistrationParams{Registrations: registrations}); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("registering capabilities")
	}
}

func (me *Server) unregister(ctx context.Context, unregistrations []protocol.Unregistration) {
	client := me.client()
	if client == nil {
		return
	}
	if err := client.UnregisterCapability(ctx, &protocol.UnregistrationParams{Unregisterations: unregistrations}); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("unregistering capabilities")
	}
}

func (me *Server) DidChangeWorkspaceFolders(ctx context.Context, params *protocol.DidChangeWorkspaceFoldersParams) error {
	logger := zerolog.Ctx(ctx)

	me.mu.Lock()
	dynamic := me.dynamic
	me.mu.Unlock()

	var (
		registrations   []protocol.Registration
		unregistrations []protocol.Unregistration
	)

	for _, folder := range params.Event.Removed {
		att, ok := me.registry.Detach(folder.URI.Path())
		if !ok {
			continue
		}
		logger.Debug().Str("folder", att.Folder).Msg("detached workspace folder")
		unregistrations = append(unregistrations, folderUnregistrations(att)...)
	}

	for _, folder := range params.Event.Added {
		att, added := me.registry.Attach(folder.URI.Path())
		if !added {
			continue
		}
		logger.Debug().Str("folder", att.Folder).Msg("attached workspace folder")
		registrations = append(registrations, me.folderRegistrations(att)...)
	}

	if dynamic {
		bg := context.WithoutCancel(ctx)
		go func() {
			if len(unregistrations) > 0 {
				me.unregister(bg, unregistrations)
			}
			if len(registrations) > 0 {
				me.register(bg, registrations)
			}
		}()
	}

	// membership may have changed for open documents
	me.refreshAll(ctx)

	return nil
}

func (me *Server) SetTrace(ctx context.Context, params *protocol.SetTraceParams) error {
	me.mu.Lock()
	me.trace = params.Value
	me.mu.Unlock()
	zerolog.Ctx(ctx).Debug().Str("trace", params.Value).Msg("trace level changed")
	return nil
}

func (me *Server) Shutdown(ctx context.Context) error {
	zerolog.Ctx(ctx).Info().Msg("shutting down")
	me.shutdown.Store(true)
	if err := me.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("closing server")
	}
	return nil
}

func (me *Server) Exit(ctx context.Context) error {
	zerolog.Ctx(ctx).Info().Bool("after_shutdown", me.shutdown.Load()).Msg("exiting")

	me.mu.Lock()
	onExit := me.onExit
	me.mu.Unlock()

	if err := me.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("closing server")
	}

	if onExit != nil {
		// stopping waits on in flight handlers, this one included
		go onExit()
	}
	return nil
}
