package get_diagnostics

import (
	"context"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/nlsls/cmd/nlsls/query"
	"github.com/walteh/nlsls/pkg/config"
	"github.com/walteh/nlsls/pkg/diagnostic"
	"github.com/walteh/nlsls/pkg/finder"
	"github.com/walteh/nlsls/pkg/nls"
	"github.com/walteh/nlsls/pkg/placeholder"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	query.Target
	out io.Writer
}

// FileDiagnostics is what is printed for each manifest checked.
type FileDiagnostics struct {
	Path        string                  `json:"path"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics"`
}

func NewGetDiagnosticsCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "get-diagnostics [manifest or directory]",
		Short: "report placeholders whose key is missing from the localization file",
		Long: "Checks one manifest, or every manifest under a directory that matches the " +
			"configured manifest_pattern. node_modules and .git are skipped.",
		Args: cobra.ExactArgs(1),
	}

	me.AddFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.ManifestPath = args[0]
		me.out = cmd.OutOrStdout()
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	fsys := me.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	cfg, err := config.Load(fsys, me.ConfigPath)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	root, err := filepath.Abs(me.ManifestPath)
	if err != nil {
		return errors.Errorf("resolving path: %w", err)
	}

	info, err := fsys.Stat(root)
	if err != nil {
		return errors.Errorf("failed to stat %s: %w", root, err)
	}

	paths := []string{root}
	if info.IsDir() {
		paths, err = finder.NewDefaultFinder(fsys).FindManifests(ctx, root, cfg.GetManifestPattern())
		if err != nil {
			return errors.Errorf("failed to find manifests: %w", err)
		}
	}

	resolver := nls.NewResolver(nls.NewFsSource(fsys), cfg.GetLocalizationFile())

	results := make([]FileDiagnostics, 0, len(paths))
	for _, path := range paths {
		content, err := afero.ReadFile(fsys, path)
		if err != nil {
			return errors.Errorf("failed to read manifest: %w", err)
		}

		diagnostics, err := diagnostic.Generate(ctx, resolver, placeholder.Manifest{Path: path, Text: string(content)})
		if err != nil {
			return errors.Errorf("failed to generate diagnostics for %s: %w", path, err)
		}

		if diagnostics == nil {
			diagnostics = []diagnostic.Diagnostic{}
		}

		results = append(results, FileDiagnostics{Path: path, Diagnostics: diagnostics})
	}

	return query.WriteJSON(me.out, results)
}
