package get_hover

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/walteh/nlsls/cmd/nlsls/query"
	"github.com/walteh/nlsls/pkg/hover"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	query.Target
	out io.Writer
}

func NewGetHoverCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "get-hover [manifest] [line] [character]",
		Short: "resolve the placeholder at a position in a manifest",
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

	info, err := hover.BuildHover(ctx, loaded.Resolver, loaded.Manifest, loaded.Offset)
	if err != nil {
		return errors.Errorf("failed to build hover: %w", err)
	}

	// null when the position is not on a placeholder
	return query.WriteJSON(me.out, info)
}
