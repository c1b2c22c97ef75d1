package diagnostic

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/nlsls/pkg/nls"
	"github.com/walteh/nlsls/pkg/placeholder"
	"github.com/walteh/nlsls/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// Diagnostic represents a single diagnostic message
type Diagnostic struct {
	Message  string               `json:"message"`
	Key      string               `json:"key"`
	Severity DiagnosticSeverity   `json:"severity"`
	Position position.RawPosition `json:"position"`
	Range    position.Range       `json:"range"`
}

// DiagnosticSeverity represents the severity level of a diagnostic
type DiagnosticSeverity string

const (
	Error   DiagnosticSeverity = "error"
	Warning DiagnosticSeverity = "warning"
	Info    DiagnosticSeverity = "info"
	Hint    DiagnosticSeverity = "hint"
)

// Generate reports every placeholder in the manifest whose key is missing from
// the localization file. Nothing is reported when the file does not load,
// since hover already explains that case at each placeholder.
func Generate(ctx context.Context, resolver *nls.Resolver, manifest placeholder.Manifest) ([]Diagnostic, error) {
	if resolver == nil {
		return nil, errors.New("resolver cannot be nil")
	}

	diagnostics := make([]Diagnostic, 0)

	tokens := placeholder.FindAll(manifest.Text)
	if len(tokens) == 0 {
		return diagnostics, nil
	}

	logger := zerolog.Ctx(ctx).With().Str("manifest", manifest.Path).Logger()

	res := resolver.Resolve(ctx, manifest.Path)
	switch res.Status {
	case nls.StatusOK:
	case nls.StatusNotFound:
		logger.Debug().Str("nls_path", res.Path).Msg("skipping diagnostics, no localization file")
		return diagnostics, nil
	default:
		if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
			return nil, errors.Errorf("generating diagnostics: %w", res.Err)
		}
		logger.Warn().Err(res.Err).Str("nls_path", res.Path).Msg("skipping diagnostics, localization file not loaded")
		return diagnostics, nil
	}

	for _, tok := range tokens {
		if _, ok := res.Mapping.LookupExact(tok.Key); ok {
			continue
		}
		pos := tok.Position()
		diagnostics = append(diagnostics, Diagnostic{
			Message:  resolver.MissingKeyMessage(tok.Key),
			Key:      tok.Key,
			Severity: Warning,
			Position: pos,
			Range:    pos.GetRange(manifest.Text),
		})
	}

	return diagnostics, nil
}
