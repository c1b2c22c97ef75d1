package serve_lsp

import (
	"context"
	"io"
	"os"

	"github.com/creachadair/jrpc2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/nlsls/pkg/config"
	"github.com/walteh/nlsls/pkg/debug"
	"github.com/walteh/nlsls/pkg/lsp"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	debug      bool
	configPath string
	version    string

	stdin  io.Reader
	stdout io.WriteCloser
	stderr io.Writer
}

func NewServeLSPCommand(version string) *cobra.Command {
	me := &Handler{
		version: version,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	cmd := &cobra.Command{
		Use:   "serve-lsp",
		Short: "start the language server on stdin and stdout",
	}

	cmd.Flags().BoolVar(&me.debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&me.configPath, "config", "", "path to an nlsls config file (.hcl, .yaml)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context())
	}

	return cmd
}

// RPCLogger logs raw traffic to stderr. It must not log through the request
// context, whose logger forwards to the editor.
type RPCLogger struct {
	logger zerolog.Logger
}

func (me *RPCLogger) LogRequest(ctx context.Context, req *jrpc2.Request) {
	me.logger.Trace().Str("rpc_params", req.ParamString()).Str("rpc_id", req.ID()).Str("rpc_method", req.Method()).Msg("client request")
}

func (me *RPCLogger) LogResponse(ctx context.Context, res *jrpc2.Response) {
	me.logger.Trace().Str("rpc_result", res.ResultString()).Str("rpc_id", res.ID()).Msg("server response")
}

func (me *Handler) Run(ctx context.Context) error {
	cfg, err := config.Load(nil, me.configPath)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	level := cfg.Level()
	if me.debug {
		level = zerolog.TraceLevel
	}

	logger := debug.NewLogger(me.stderr, level, false).With().Str("component", "lsp-server").Logger()
	ctx = logger.WithContext(ctx)

	logger.Info().Str("version", me.version).Str("config", me.configPath).Msg("starting language server")

	opts := &jrpc2.ServerOptions{
		RPCLog: &RPCLogger{logger: logger},
	}

	server, instance := lsp.BuildServerInstance(ctx, &lsp.ServerOpts{
		Config:  cfg,
		Version: me.version,
	}, opts)
	defer server.Close()

	if err := instance.StartAndWait(me.stdin, me.stdout); err != nil {
		return errors.Errorf("error running language server: %w", err)
	}

	return nil
}
