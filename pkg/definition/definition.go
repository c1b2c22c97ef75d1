// Package definition finds where a placeholder key is defined in the
// localization file.
package definition

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/nlsls/pkg/nls"
	"github.com/walteh/nlsls/pkg/placeholder"
	"github.com/walteh/nlsls/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// Location is the quoted key inside the localization file.
type Location struct {
	// Path is the localization file
	Path string `json:"path"`
	Key  string `json:"key"`
	// Origin is the placeholder token the lookup started from, in the manifest
	Origin position.RawPosition `json:"origin"`
	// Target is the quoted key token in the localization file
	Target position.RawPosition `json:"target"`
	Range  position.Range       `json:"range"`
}

// GetDefinition returns the definition of the placeholder at offset, or nil
// when the offset is not on a placeholder, the localization file does not
// load, or the key is not defined in it.
func GetDefinition(ctx context.Context, resolver *nls.Resolver, manifest placeholder.Manifest, offset int) (*Location, error) {
	if resolver == nil {
		return nil, errors.New("resolver cannot be nil")
	}

	tok, ok := placeholder.MatchFullToken(manifest.Text, offset)
	if !ok {
		return nil, nil
	}

	logger := zerolog.Ctx(ctx).With().Str("key", tok.Key).Logger()

	res := resolver.Resolve(ctx, manifest.Path)
	if !res.OK() {
		if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
			return nil, errors.Errorf("getting definition: %w", res.Err)
		}
		logger.Debug().Str("status", res.Status.String()).Msg("no definition, localization file not loaded")
		return nil, nil
	}

	if _, found := res.Mapping.LookupExact(tok.Key); !found {
		logger.Debug().Msg("no definition, key not found")
		return nil, nil
	}

	span, ok := nls.FindKeySpan(res.Raw, tok.Key)
	if !ok {
		// the key parsed but is not written literally, e.g. with escapes
		logger.Debug().Msg("no definition, key text not found in file")
		return nil, nil
	}

	return &Location{
		Path:   res.Path,
		Key:    tok.Key,
		Origin: tok.Position(),
		Target: span.Token,
		Range:  span.Range,
	}, nil
}
