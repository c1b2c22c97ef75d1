package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	get_completions "github.com/walteh/nlsls/cmd/nlsls/get-completions"
	get_definition "github.com/walteh/nlsls/cmd/nlsls/get-definition"
	get_diagnostics "github.com/walteh/nlsls/cmd/nlsls/get-diagnostics"
	get_hover "github.com/walteh/nlsls/cmd/nlsls/get-hover"
	serve_lsp "github.com/walteh/nlsls/cmd/nlsls/serve-lsp"
	"gitlab.com/tozd/go/errors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "nlsls",
		Short: "A language server for package.nls.json placeholders in extension manifests",
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	rootCmd.SilenceUsage = true

	cmdVersion := &cobra.Command{
		Use: "raw-version",
		Run: func(cmdz *cobra.Command, args []string) {
			cmdz.Println(rootCmd.Version)
		},
		Hidden: true,
	}

	rootCmd.AddCommand(cmdVersion)
	rootCmd.AddCommand(serve_lsp.NewServeLSPCommand(rootCmd.Version))
	rootCmd.AddCommand(get_hover.NewGetHoverCommand())
	rootCmd.AddCommand(get_completions.NewGetCompletionsCommand())
	rootCmd.AddCommand(get_definition.NewGetDefinitionCommand())
	rootCmd.AddCommand(get_diagnostics.NewGetDiagnosticsCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}

	return nil
}
