package protocol

import (
	"context"
	"io"
	"strings"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	RequestCancelledError     = &jrpc2.Error{Code: -32800, Message: "JSON RPC cancelled"}
	ServerNotInitializedError = &jrpc2.Error{Code: -32002, Message: "server not initialized"}
	InvalidRequestError       = &jrpc2.Error{Code: -32600, Message: "server is shutting down"}
)

// ServerInstance is a Server bound to a jrpc2 server speaking LSP framing.
type ServerInstance struct {
	rpc    *jrpc2.Server
	client *CallbackClient
}

// NewServerInstance builds the dispatch table for server and prepares the
// push side used to reach the editor. The returned instance is not started.
func NewServerInstance(ctx context.Context, server Server, opts *jrpc2.ServerOptions) *ServerInstance {
	methods := buildServerDispatchMap(server)
	methods["$/cancelRequest"] = createEmptyResultHandler(cancelRequest)

	if opts == nil {
		opts = &jrpc2.ServerOptions{}
	}

	opts.AllowPush = true

	inst := &ServerInstance{}

	opts.NewContext = func() context.Context {
		if inst.client == nil {
			return ctx
		}
		return ApplyClientToZerolog(ctx, inst.client)
	}

	inst.rpc = jrpc2.NewServer(methods, opts)
	inst.client = NewCallbackClient(&loggingCallbacker{server: inst.rpc, rpcLog: opts.RPCLog})

	return inst
}

// Client returns the push side of the instance.
func (me *ServerInstance) Client() *CallbackClient {
	return me.client
}

// Stop closes the channel and ends Wait. It is safe to call more than once.
func (me *ServerInstance) Stop() {
	me.rpc.Stop()
}

// StartAndWait serves LSP-framed JSON-RPC on r and w until the channel closes
// or Stop is called.
func (me *ServerInstance) StartAndWait(r io.Reader, w io.WriteCloser) error {
	me.rpc.Start(channel.LSP(r, w))
	if err := me.rpc.Wait(); err != nil && !errors.Is(err, io.EOF) {
		return errors.Errorf("serving lsp: %w", err)
	}
	return nil
}

func cancelRequest(ctx context.Context, params *CancelParams) error {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil
	}
	zerolog.Ctx(ctx).Debug().Str("cancel_id", id).Msg("cancelling request")
	if srv := jrpc2.ServerFromContext(ctx); srv != nil {
		srv.CancelRequest(id)
	}
	return nil
}

// loggingCallbacker reports server-initiated traffic to an RPC logger that
// knows how to show it.
type loggingCallbacker struct {
	server *jrpc2.Server
	rpcLog jrpc2.RPCLogger
}

func (c *loggingCallbacker) Notify(ctx context.Context, method string, params any) error {
	if rl, ok := c.rpcLog.(CallbackRPCLogger); ok {
		rl.LogCallbackRequestRaw(ctx, method, params)
	}

	if err := c.server.Notify(ctx, method, params); err != nil {
		return errors.Errorf("notifying %s: %w", method, err)
	}

	return nil
}

func (c *loggingCallbacker) Callback(ctx context.Context, method string, params any) (*jrpc2.Response, error) {
	if rl, ok := c.rpcLog.(CallbackRPCLogger); ok {
		rl.LogCallbackRequestRaw(ctx, method, params)
	}

	res, err := c.server.Callback(ctx, method, params)
	if err != nil {
		return nil, errors.Errorf("calling back %s: %w", method, err)
	}

	if rl, ok := c.rpcLog.(CallbackRPCLogger); ok {
		rl.LogCallbackResponse(ctx, res)
	}

	return res, nil
}
