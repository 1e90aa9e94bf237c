package cli

import (
	"github.com/spf13/cobra"

	"github.com/aradsms/contactbook/internal/ui"
)

// passwordFlag falls back to an interactive prompt when the flag is not given.
func passwordFlag(cmd *cobra.Command, password string) (string, error) {
	if cmd.Flags().Changed("password") {
		return password, nil
	}
	return ui.PromptPassword("Password")
}

func newUserCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}

	var password string
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a login account",
		Args:  cobra.ExactArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFlag(cmd, password)
			if err != nil {
				return err
			}
			auth, err := rt.authService(cmd.Context())
			if err != nil {
				return err
			}
			u, err := auth.Register(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			if rt.opts.jsonOut {
				return rt.printJSON(cmd, u)
			}
			cmd.Printf("User %q created (id %d).\n", u.Username, u.ID)
			return nil
		}),
	}
	add.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	cmd.AddCommand(add)
	return cmd
}

type loginResult struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}

func newLoginCommand(rt *runtime) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Check credentials and print an access token",
		Args:  cobra.ExactArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFlag(cmd, password)
			if err != nil {
				return err
			}
			auth, err := rt.authService(cmd.Context())
			if err != nil {
				return err
			}
			token, u, err := auth.Login(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			if rt.opts.jsonOut {
				return rt.printJSON(cmd, loginResult{AccessToken: token, Username: u.Username})
			}
			cmd.PrintErrln(ui.StyleSuccess.Render("Login Successful"))
			cmd.Println(token)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}
