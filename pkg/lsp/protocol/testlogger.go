package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/creachadair/jrpc2"
)

// TestingLog is the part of testing.TB the rpc logger writes to.
type TestingLog interface {
	Logf(format string, args ...any)
}

// CallbackRPCLogger is implemented by rpc loggers that also want to see
// traffic the server starts.
type CallbackRPCLogger interface {
	LogCallbackRequestRaw(ctx context.Context, method string, params any)
	LogCallbackResponse(ctx context.Context, res *jrpc2.Response)
}

type rpcTestLogger struct {
	logger      TestingLog
	rewrites    map[string]string
	enabled     bool
	isHuman     bool
	bigMessages bool
}

var (
	_ jrpc2.RPCLogger   = (*rpcTestLogger)(nil)
	_ CallbackRPCLogger = (*rpcTestLogger)(nil)
)

const maxResultLength = 1000

func DebugAll() bool {
	return os.Getenv("DEBUG_LSP_ALL") == "1" || os.Getenv("DEBUG") == "1"
}

func DebugIsHuman() bool {
	return os.Getenv("HUMAN") == "1"
}

// NewTestLogger returns an rpc logger that writes every message to t when
// DEBUG=1 is set. Every key of rewrites is replaced by its value in the output,
// which keeps temp dirs out of the logs.
func NewTestLogger(t TestingLog, rewrites map[string]string) jrpc2.RPCLogger {
	if rewrites == nil {
		rewrites = make(map[string]string)
	}

	lgr := &rpcTestLogger{
		logger:      t,
		rewrites:    rewrites,
		enabled:     DebugAll(),
		isHuman:     DebugIsHuman(),
		bigMessages: os.Getenv("DEBUG_LSP_BIG_MESSAGES") == "1",
	}

	if !lgr.enabled {
		lgr.logger.Logf("FYI: rpc logs will be suppressed. Set DEBUG=1 to see them")
	}

	return lgr
}

type fancyRequest struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params"`
}

type fancyResponse struct {
	ID     string `json:"id"`
	Result any    `json:"result"`
	Error  any    `json:"error,omitempty"`
}

func (l *rpcTestLogger) LogRequest(ctx context.Context, req *jrpc2.Request) {
	if !l.enabled {
		return
	}

	var params any
	if n := len(req.ParamString()); n > maxResultLength && !l.bigMessages {
		params = fmt.Sprintf("suppressed %d chars: set DEBUG_LSP_BIG_MESSAGES=1 to see", n)
	} else if err := req.UnmarshalParams(&params); err != nil {
		params = req.ParamString()
	}

	id := req.ID()
	if id == "" {
		id = "notification"
	}

	l.logger.Logf("lsp client request:%s", l.formatJSON(fancyRequest{ID: id, Method: req.Method(), Params: params}))
}

func (l *rpcTestLogger) LogResponse(ctx context.Context, res *jrpc2.Response) {
	l.logResponse("server", res)
}

func (l *rpcTestLogger) LogCallbackResponse(ctx context.Context, res *jrpc2.Response) {
	l.logResponse("client (callback)", res)
}

func (l *rpcTestLogger) logResponse(name string, res *jrpc2.Response) {
	if !l.enabled {
		return
	}

	var result any
	if n := len(res.ResultString()); n > maxResultLength && !l.bigMessages {
		result = fmt.Sprintf("suppressed %d chars: set DEBUG_LSP_BIG_MESSAGES=1 to see", n)
	} else if err := res.UnmarshalResult(&result); err != nil {
		result = res.ResultString()
	}

	parsed := fancyResponse{ID: res.ID(), Result: result}
	if rerr := res.Error(); rerr != nil {
		parsed.Error = rerr
	}

	l.logger.Logf("lsp %s response:%s", name, l.formatJSON(parsed))
}

func (l *rpcTestLogger) LogCallbackRequestRaw(ctx context.Context, method string, params any) {
	if !l.enabled {
		return
	}
	l.logger.Logf("lsp server (callback) request:%s", l.formatJSON(fancyRequest{ID: "callback", Method: method, Params: params}))
}

func (l *rpcTestLogger) formatJSON(s any) string {
	prefix := " "
	suffix := ""
	if l.isHuman {
		prefix = "\n\n"
		suffix = "\n\n"
	}

	buf := bytes.NewBuffer(nil)
	enc := json.NewEncoder(buf)
	if l.isHuman {
		enc.SetIndent("", "\t")
	}
	if err := enc.Encode(s); err != nil {
		return prefix + fmt.Sprintf("%+v", s) + suffix
	}

	str := buf.String()
	for k, v := range l.rewrites {
		str = strings.ReplaceAll(str, k, v)
	}

	return prefix + str + suffix
}
