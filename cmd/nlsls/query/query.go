// Package query holds what the one-shot lookup commands share: reading the
// manifest and config from disk and turning a line and character into an offset.
package query

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/nlsls/pkg/config"
	"github.com/walteh/nlsls/pkg/nls"
	"github.com/walteh/nlsls/pkg/placeholder"
	"github.com/walteh/nlsls/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// Target is a position inside a manifest, given as a 0-based line and a
// UTF-16 character like an editor would send.
type Target struct {
	ConfigPath   string
	ManifestPath string
	Line         int
	Character    int

	Fs afero.Fs
}

func (me *Target) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&me.ConfigPath, "config", "", "path to an nlsls config file (.hcl, .yaml)")
}

// ParseArgs reads `<manifest> <line> <character>`.
func (me *Target) ParseArgs(args []string) error {
	if len(args) != 3 {
		return errors.Errorf("expected 3 arguments, got %d", len(args))
	}

	me.ManifestPath = args[0]

	var err error
	me.Line, err = strconv.Atoi(args[1])
	if err != nil {
		return errors.Errorf("invalid line number: %w", err)
	}
	me.Character, err = strconv.Atoi(args[2])
	if err != nil {
		return errors.Errorf("invalid character number: %w", err)
	}
	if me.Line < 0 || me.Character < 0 {
		return errors.Errorf("line and character must not be negative")
	}
	return nil
}

// Loaded is a manifest ready to be queried.
type Loaded struct {
	Config   *config.Config
	Resolver *nls.Resolver
	Manifest placeholder.Manifest
	Offset   int
}

func (me *Target) Load(ctx context.Context) (*Loaded, error) {
	fsys := me.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	cfg, err := config.Load(fsys, me.ConfigPath)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	path, err := filepath.Abs(me.ManifestPath)
	if err != nil {
		return nil, errors.Errorf("resolving manifest path: %w", err)
	}

	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Errorf("failed to read manifest: %w", err)
	}

	text := string(content)

	return &Loaded{
		Config:   cfg,
		Resolver: nls.NewResolver(nls.NewFsSource(fsys), cfg.GetLocalizationFile()),
		Manifest: placeholder.Manifest{Path: path, Text: text},
		Offset:   position.OffsetAt(text, position.Place{Line: me.Line, Character: me.Character}),
	}, nil
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return errors.Errorf("failed to encode result: %w", err)
	}
	return nil
}
