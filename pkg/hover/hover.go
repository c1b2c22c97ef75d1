// Package hover provides functionality for generating hover information.
package hover

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/nlsls/pkg/nls"
	"github.com/walteh/nlsls/pkg/placeholder"
	"github.com/walteh/nlsls/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// Info represents the information to be displayed in a hover tooltip
type Info struct {
	// Content is the resolved value, or a message explaining why there is none
	Content string `json:"content"`
	// Resolved is true when Content is the value from the localization file
	Resolved bool `json:"resolved"`
	// Key is the placeholder key under the cursor
	Key string `json:"key"`
	// Position is the placeholder token in the manifest
	Position position.RawPosition `json:"position"`
	Range    position.Range       `json:"range"`
}

// BuildHover resolves the placeholder at offset in the manifest. It returns
// nil when the offset is not on a placeholder. Missing or broken localization
// files are reported through Info.Content, not as errors.
func BuildHover(ctx context.Context, resolver *nls.Resolver, manifest placeholder.Manifest, offset int) (*Info, error) {
	if resolver == nil {
		return nil, errors.New("resolver cannot be nil")
	}

	tok, ok := placeholder.MatchFullToken(manifest.Text, offset)
	if !ok {
		return nil, nil
	}

	logger := zerolog.Ctx(ctx).With().Str("key", tok.Key).Logger()

	info := &Info{
		Key:      tok.Key,
		Position: tok.Position(),
		Range:    tok.Position().GetRange(manifest.Text),
	}

	res := resolver.Resolve(ctx, manifest.Path)

	switch res.Status {
	case nls.StatusNotFound:
		info.Content = resolver.NotFoundMessage(res.Path)
	case nls.StatusReadError, nls.StatusParseError:
		if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
			return nil, errors.Errorf("building hover: %w", res.Err)
		}
		info.Content = resolver.UnreadableMessage(res.Path)
	case nls.StatusOK:
		entry, found := res.Mapping.LookupExact(tok.Key)
		if !found {
			info.Content = resolver.MissingKeyMessage(tok.Key)
			break
		}
		info.Content = entry.Value
		info.Resolved = true
	}

	logger.Debug().Str("status", res.Status.String()).Bool("resolved", info.Resolved).Msg("built hover")

	return info, nil
}
