// Package completion suggests localization keys while a placeholder is typed.
package completion

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/walteh/nlsls/pkg/nls"
	"github.com/walteh/nlsls/pkg/placeholder"
	"github.com/walteh/nlsls/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// Item represents a single completion suggestion
type Item struct {
	// Label is the full placeholder, quotes included: "%key%"
	Label  string `json:"label"`
	Key    string `json:"key"`
	Detail string `json:"detail"`
	// IsString is false when Detail is raw JSON for a non string value
	IsString bool `json:"is_string"`
	Edit     Edit `json:"edit"`
}

// Edit replaces the partial placeholder with the completed one.
type Edit struct {
	Position position.RawPosition `json:"position"`
	Range    position.Range       `json:"range"`
	NewText  string               `json:"new_text"`
}

// FormatLabel returns the placeholder text for key.
func FormatLabel(key string) string {
	return fmt.Sprintf(`"%%%s%%"`, key)
}

// GetCompletions returns one item per localization key starting with the
// partial placeholder at offset, sorted by key. Outside a JSON value position,
// or when the localization file is missing or broken, the list is empty.
func GetCompletions(ctx context.Context, resolver *nls.Resolver, manifest placeholder.Manifest, offset int) ([]Item, error) {
	if resolver == nil {
		return nil, errors.New("resolver cannot be nil")
	}

	items := make([]Item, 0)

	partial, ok := placeholder.MatchPartialToken(manifest.Text, offset)
	if !ok {
		return items, nil
	}

	logger := zerolog.Ctx(ctx).With().Str("prefix", partial.Prefix).Logger()

	res := resolver.Resolve(ctx, manifest.Path)
	if !res.OK() {
		if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
			return nil, errors.Errorf("getting completions: %w", res.Err)
		}
		logger.Debug().Str("status", res.Status.String()).Msg("no completions, localization file not loaded")
		return items, nil
	}

	edit := replacementFor(manifest.Text, partial)

	for _, entry := range res.Mapping.LookupPrefix(partial.Prefix) {
		label := FormatLabel(entry.Key)
		e := edit
		e.NewText = label
		items = append(items, Item{
			Label:    label,
			Key:      entry.Key,
			Detail:   entry.Value,
			IsString: entry.IsString,
			Edit:     e,
		})
	}

	logger.Debug().Int("items", len(items)).Msg("built completions")

	return items, nil
}

// replacementFor covers the partial token and whatever the editor already
// closed after it: a trailing '%' and then a '"'.
func replacementFor(text string, partial placeholder.Partial) Edit {
	end := partial.Offset + len(partial.Text)
	if end < len(text) && text[end] == '%' {
		end++
	}
	if end < len(text) && text[end] == '"' {
		end++
	}

	pos := position.NewBasicPosition(text[partial.Offset:end], partial.Offset)

	return Edit{
		Position: pos,
		Range:    pos.GetRange(text),
	}
}
