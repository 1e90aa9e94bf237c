package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	contactapp "github.com/aradsms/contactbook/internal/contact_service/app"
	"github.com/aradsms/contactbook/internal/contact_service/domain"
	"github.com/aradsms/contactbook/internal/ui"
)

func newContactCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contact",
		Aliases: []string{"contacts", "c"},
		Short:   "Add, list, update, delete and export contacts",
	}
	cmd.AddCommand(
		newContactAddCommand(rt),
		newContactListCommand(rt),
		newContactGetCommand(rt),
		newContactUpdateCommand(rt),
		newContactDeleteCommand(rt),
		newContactExportCommand(rt),
	)
	return cmd
}

func newContactAddCommand(rt *runtime) *cobra.Command {
	var name, phone, email string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Long: `Add a contact. Name, phone and email are required and surrounding spaces are
trimmed; the phone number must contain only digits.`,
		Args: cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			app, err := rt.contactApp(cmd.Context())
			if err != nil {
				return err
			}
			c, err := app.Add(cmd.Context(), name, phone, email)
			if err != nil {
				return err
			}
			if rt.opts.jsonOut {
				return rt.printJSON(cmd, c)
			}
			cmd.Printf("%s Contact #%d added.\n", ui.StyleSuccess.Render("✔"), c.ID)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "contact name")
	cmd.Flags().StringVarP(&phone, "phone", "p", "", "phone number (digits only)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	return cmd
}

type filterFlags struct {
	search        string
	scope         string
	caseSensitive bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "only contacts containing this text")
	cmd.Flags().StringVar(&f.scope, "scope", "all", "field to search: all, name, phone or email")
	cmd.Flags().BoolVar(&f.caseSensitive, "case-sensitive", false, "match the search text exactly")
}

func (f *filterFlags) filter() (domain.Filter, error) {
	scope, err := domain.ParseScope(f.scope)
	if err != nil {
		return domain.Filter{}, err
	}
	return domain.Filter{Search: f.search, Scope: scope, CaseSensitive: f.caseSensitive}, nil
}

func newContactListCommand(rt *runtime) *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List contacts, optionally filtered",
		Args:    cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			f, err := ff.filter()
			if err != nil {
				return err
			}
			app, err := rt.contactApp(cmd.Context())
			if err != nil {
				return err
			}
			contacts, err := app.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			if rt.opts.jsonOut {
				return rt.printJSON(cmd, contacts)
			}
			if len(contacts) == 0 {
				cmd.Println("No contacts found.")
				return nil
			}
			cmd.Print(ui.RenderContactTable(contacts))
			return nil
		}),
	}
	ff.register(cmd)
	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid contact id %q", arg)
	}
	return id, nil
}

func newContactGetCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one contact",
		Args:  cobra.ExactArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := rt.contactApp(cmd.Context())
			if err != nil {
				return err
			}
			c, err := app.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if rt.opts.jsonOut {
				return rt.printJSON(cmd, c)
			}
			cmd.Print(ui.RenderContactTable([]*domain.Contact{c}))
			return nil
		}),
	}
}

func newContactUpdateCommand(rt *runtime) *cobra.Command {
	var name, phone, email string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a contact",
		Long: `Change fields of a contact. Fields whose flag is not given keep their value.
Values are stored exactly as given.`,
		Args: cobra.ExactArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := rt.contactApp(cmd.Context())
			if err != nil {
				return err
			}
			current, err := app.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				current.Name = name
			}
			if flags.Changed("phone") {
				current.Phone = phone
			}
			if flags.Changed("email") {
				current.Email = email
			}
			c, err := app.Update(cmd.Context(), id, current.Name, current.Phone, current.Email)
			if err != nil {
				return err
			}
			if rt.opts.jsonOut {
				return rt.printJSON(cmd, c)
			}
			cmd.Println("Contact updated successfully.")
			return nil
		}),
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVarP(&phone, "phone", "p", "", "new phone number")
	cmd.Flags().StringVarP(&email, "email", "e", "", "new email address")
	return cmd
}

func newContactDeleteCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a contact",
		Args:    cobra.ExactArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := rt.contactApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.Delete(cmd.Context(), id); err != nil {
				return err
			}
			cmd.Println("Contact deleted successfully.")
			return nil
		}),
	}
}

func newContactExportCommand(rt *runtime) *cobra.Command {
	var (
		ff     filterFlags
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write contacts to a CSV or Excel file",
		Long: `Write the contacts matching the filter to a file.

Examples:
  contactbook contact export --format xlsx -o contacts.xlsx
  contactbook contact export --search gmail --scope email -o -`,
		Args: cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			fmtSel, err := contactapp.ParseExportFormat(format)
			if err != nil {
				return err
			}
			f, err := ff.filter()
			if err != nil {
				return err
			}
			app, err := rt.contactApp(cmd.Context())
			if err != nil {
				return err
			}

			if output == "" {
				output = "contacts." + string(fmtSel)
			}
			var n int
			export := func(w io.Writer) error {
				var werr error
				n, werr = app.ExportContacts(cmd.Context(), w, fmtSel, f)
				return werr
			}
			if output == "-" {
				return export(cmd.OutOrStdout())
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := writeAndClose(file, export); err != nil {
				_ = os.Remove(output)
				return err
			}
			cmd.PrintErrf("Exported %d contacts to %s\n", n, output)
			return nil
		}),
	}
	ff.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default contacts.<format>)")
	return cmd
}

// writeAndClose runs write against wc and always closes it. A failed Close is returned.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	if err := write(wc); err != nil {
		_ = wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}
