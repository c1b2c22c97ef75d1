package protocol

import (
	"context"
)

// Client is the set of LSP methods the server calls on the editor.
type Client interface {
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_publishDiagnostics
	PublishDiagnostics(context.Context, *PublishDiagnosticsParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#window_logMessage
	LogMessage(context.Context, *LogMessageParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#client_registerCapability
	RegisterCapability(context.Context, *RegistrationParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#client_unregisterCapability
	UnregisterCapability(context.Context, *UnregistrationParams) error
}

// CallbackClient implements Client by pushing messages through a jrpc2 server.
type CallbackClient struct {
	server Callbacker
}

var _ Client = (*CallbackClient)(nil)

func NewCallbackClient(server Callbacker) *CallbackClient {
	return &CallbackClient{server: server}
}

func (c *CallbackClient) PublishDiagnostics(ctx context.Context, params *PublishDiagnosticsParams) error {
	return createNotify(ctx, c.server, "textDocument/publishDiagnostics", params)
}

func (c *CallbackClient) LogMessage(ctx context.Context, params *LogMessageParams) error {
	return createNotify(ctx, c.server, "window/logMessage", params)
}

func (c *CallbackClient) RegisterCapability(ctx context.Context, params *RegistrationParams) error {
	return createEmptyResultCallback(ctx, c.server, "client/registerCapability", params)
}

func (c *CallbackClient) UnregisterCapability(ctx context.Context, params *UnregistrationParams) error {
	return createEmptyResultCallback(ctx, c.server, "client/unregisterCapability", params)
}
