package protocol

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/walteh/nlsls/pkg/debug"
)

var myLoggerId = xid.New().String()

// ApplyClientToZerolog swaps the context logger for one that forwards every
// event to the editor as window/logMessage. The level of the existing context
// logger is kept.
func ApplyClientToZerolog(ctx context.Context, client Client) context.Context {
	writer := &logWriter{
		client: client,
		ctx:    ctx,
	}

	level := zerolog.Ctx(ctx).GetLevel()

	return zerolog.New(writer).With().
		Str("id", myLoggerId).
		Str("lsp_role", "server").
		Logger().
		Level(level).
		Hook(debug.CustomTimeHook{WithColor: false}).
		Hook(debug.CustomCallerHook{WithColor: false}).
		WithContext(ctx)
}

func ApplyRequestToZerolog(ctx context.Context, req *jrpc2.Request) context.Context {
	logger := zerolog.Ctx(ctx).With().Str("rpc_method", req.Method())
	if id := req.ID(); id != "" {
		logger = logger.Str("rpc_id", id)
	}
	return logger.Logger().WithContext(ctx)
}

type logWriter struct {
	client Client
	mu     sync.Mutex
	ctx    context.Context
}

var _ zerolog.LevelWriter = (*logWriter)(nil)

func (w *logWriter) Write(p []byte) (n int, err error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel turns one zerolog json line into a window/logMessage notification.
func (w *logWriter) WriteLevel(level zerolog.Level, p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var entry map[string]any
	if err := json.Unmarshal(p, &entry); err != nil {
		return len(p), nil
	}

	msg := extractField(entry, "message", "")
	if lvl := extractField(entry, "level", ""); lvl != "" && level == zerolog.NoLevel {
		if parsed, perr := zerolog.ParseLevel(lvl); perr == nil {
			level = parsed
		}
	}

	// the editor stamps its own time, and the rest is the same on every line
	for _, key := range []string{"time", "id", "lsp_role", "caller"} {
		delete(entry, key)
	}

	if len(entry) > 0 {
		if extra, err := json.Marshal(entry); err == nil {
			msg += " " + string(extra)
		}
	}

	if w.client != nil {
		// best effort, the editor may already be gone
		_ = w.client.LogMessage(w.ctx, &LogMessageParams{
			Type:    ParseMessageTypeFromZerolog(level),
			Message: msg,
		})
	}

	return len(p), nil
}

func extractField(entry map[string]any, key, defaultValue string) string {
	if v, ok := entry[key].(string); ok {
		delete(entry, key)
		return v
	}
	return defaultValue
}

// ParseMessageTypeFromZerolog converts a zerolog level to an LSP MessageType.
func ParseMessageTypeFromZerolog(level zerolog.Level) MessageType {
	switch level {
	case zerolog.PanicLevel, zerolog.FatalLevel, zerolog.ErrorLevel:
		return Error
	case zerolog.WarnLevel:
		return Warning
	case zerolog.InfoLevel:
		return Info
	case zerolog.DebugLevel, zerolog.TraceLevel:
		return Debug
	default:
		return Log
	}
}
