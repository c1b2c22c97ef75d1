package get_completions

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/walteh/nlsls/cmd/nlsls/query"
	"github.com/walteh/nlsls/pkg/completion"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	query.Target
	out io.Writer
}

func NewGetCompletionsCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "get-completions [manifest] [line] [character]",
		Short: "list the placeholder completions for a position in a manifest",
		Args:  cobra.ExactArgs(3),
	}

	me.AddFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := me.ParseArgs(args); err != nil {
			return err
		}
		me.out = cmd.OutOrStdout()
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	loaded, err := me.Load(ctx)
	if err != nil {
		return err
	}

	items, err := completion.GetCompletions(ctx, loaded.Resolver, loaded.Manifest, loaded.Offset)
	if err != nil {
		return errors.Errorf("failed to get completions: %w", err)
	}

	return query.WriteJSON(me.out, items)
}
