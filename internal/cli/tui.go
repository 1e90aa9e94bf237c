package cli

import (
	"github.com/spf13/cobra"

	"github.com/aradsms/contactbook/internal/ui"
)

func newTUICommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive contact book",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			app, err := rt.contactApp(cmd.Context())
			if err != nil {
				return err
			}
			return ui.RunContactBook(cmd.Context(), app)
		}),
	}
}
