package get_definition

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/walteh/nlsls/cmd/nlsls/query"
	"github.com/walteh/nlsls/pkg/definition"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	query.Target
	out io.Writer
}

func NewGetDefinitionCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "get-definition [manifest] [line] [character]",
		Short: "locate the localization key for the placeholder at a position",
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

	loc, err := definition.GetDefinition(ctx, loaded.Resolver, loaded.Manifest, loaded.Offset)
	if err != nil {
		return errors.Errorf("failed to get definition: %w", err)
	}

	return query.WriteJSON(me.out, loc)
}
