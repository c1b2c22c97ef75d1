package lsp

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/creachadair/jrpc2"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/nlsls/pkg/config"
	"github.com/walteh/nlsls/pkg/lsp/protocol"
	"github.com/walteh/nlsls/pkg/nls"
	"github.com/walteh/nlsls/pkg/position"
	"github.com/walteh/nlsls/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

const ServerName = "nlsls"

// ServerOpts configures a Server. Zero values fall back to the defaults.
type ServerOpts struct {
	Config  *config.Config
	Fs      afero.Fs
	Version string
}

// Server represents an LSP server instance
type Server struct {
	id      string
	version string

	cfg       *config.Config
	documents *DocumentManager
	resolver  *nls.Resolver
	registry  *workspace.Registry
	watcher   *workspace.Watcher

	// ctx outlives any single request; file watcher callbacks run with it
	ctx context.Context

	mu                 sync.Mutex
	clientCapabilities protocol.ClientCapabilities
	callbackClient     protocol.Client
	dynamic            bool
	trace              string
	onExit             func()

	initialized atomic.Bool
	shutdown    atomic.Bool
}

var _ protocol.Server = (*Server)(nil)

func NewServer(ctx context.Context, opts *ServerOpts) *Server {
	if opts == nil {
		opts = &ServerOpts{}
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	documents := NewDocumentManager(opts.Fs)

	s := &Server{
		id:        xid.New().String(),
		version:   opts.Version,
		cfg:       cfg,
		documents: documents,
		resolver:  nls.NewResolver(documents, cfg.GetLocalizationFile()),
		registry:  workspace.NewRegistry(cfg.GetManifestPattern()),
	}

	s.ctx = zerolog.Ctx(ctx).With().Str("server_id", s.id).Logger().WithContext(ctx)

	if cfg.WatchEnabled() {
		watcher, err := workspace.NewWatcher(s.ctx, cfg.GetLocalizationFile(), s.onLocalizationChanged)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("file watching disabled")
		} else {
			s.watcher = watcher
		}
	}

	return s
}

// BuildServerInstance wires a new Server to a jrpc2 server. The exit
// notification stops the returned instance.
func BuildServerInstance(ctx context.Context, opts *ServerOpts, rpcOpts *jrpc2.ServerOptions) (*Server, *protocol.ServerInstance) {
	server := NewServer(ctx, opts)
	instance := protocol.NewServerInstance(ctx, server, rpcOpts)
	server.SetCallbackClient(instance.Client())
	server.SetExitHandler(instance.Stop)
	return server, instance
}

func (me *Server) SetCallbackClient(client protocol.Client) {
	me.mu.Lock()
	defer me.mu.Unlock()
	me.callbackClient = client
}

func (me *Server) SetExitHandler(fn func()) {
	me.mu.Lock()
	defer me.mu.Unlock()
	me.onExit = fn
}

func (me *Server) Documents() *DocumentManager {
	return me.documents
}

func (me *Server) Registry() *workspace.Registry {
	return me.registry
}

func (me *Server) client() protocol.Client {
	me.mu.Lock()
	defer me.mu.Unlock()
	return me.callbackClient
}

// Close releases the file watcher. It is safe to call more than once.
func (me *Server) Close() error {
	me.mu.Lock()
	watcher := me.watcher
	me.watcher = nil
	me.mu.Unlock()

	if watcher == nil {
		return nil
	}
	if err := watcher.Close(); err != nil {
		return errors.Errorf("closing file watcher: %w", err)
	}
	return nil
}

func (me *Server) fileWatcher() *workspace.Watcher {
	me.mu.Lock()
	defer me.mu.Unlock()
	return me.watcher
}

// checkReady rejects feature requests before initialize and after shutdown.
func (me *Server) checkReady() error {
	if me.shutdown.Load() {
		return protocol.InvalidRequestError
	}
	if !me.initialized.Load() {
		return protocol.ServerNotInitializedError
	}
	return nil
}

func (me *Server) isManifest(path string) bool {
	return me.registry.Match(path)
}

func (me *Server) isLocalizationFile(path string) bool {
	return filepath.Base(path) == me.resolver.FileName
}

func toProtocolPosition(p position.Place) protocol.Position {
	return protocol.Position{
		Line:      uint32(p.Line),
		Character: uint32(p.Character),
	}
}

func toProtocolRange(r position.Range) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(r.Start),
		End:   toProtocolPosition(r.End),
	}
}

func fromProtocolPosition(p protocol.Position) position.Place {
	return position.Place{Line: int(p.Line), Character: int(p.Character)}
}
