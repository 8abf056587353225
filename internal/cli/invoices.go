package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/andy/invoicer/internal/controller"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/editor"
	"github.com/andy/invoicer/internal/render"
	"github.com/spf13/cobra"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices",
	Long:  `Create, list, edit, show and print invoices.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		invoices := appInstance.Controller.Invoices()

		if len(invoices) == 0 {
			fmt.Fprintln(out, "No invoices found")
			return nil
		}

		fmt.Fprintf(out, "%-16s %-12s %-12s %-24s %12s\n", "Number", "Date", "Due", "Client", "Total")
		fmt.Fprintln(out, strings.Repeat("-", 80))

		for _, inv := range invoices {
			fmt.Fprintf(out, "%-16s %-12s %-12s %-24s %12s\n",
				render.Truncate(inv.Number, 16),
				inv.Date,
				inv.DueDate,
				render.Truncate(inv.ClientName, 24),
				render.FormatMoney(inv.Total()),
			)
		}

		fmt.Fprintf(out, "\nTotal: %d invoice(s)\n", len(invoices))
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [id_or_number]",
	Short: "Show an invoice as it will be printed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl := appInstance.Controller
		if err := selectInvoice(ctrl, args[0]); err != nil {
			return err
		}
		defer ctrl.Close()

		doc, err := ctrl.Document()
		if err != nil {
			return err
		}
		inv, _ := ctrl.Selected()

		fmt.Fprint(cmd.OutOrStdout(), doc.Text())
		fmt.Fprintf(cmd.OutOrStdout(), "\nID: %s\n", inv.ID)
		return nil
	},
}

var invoicesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new invoice",
	Long: `Create a new invoice. Unset fields get the usual defaults: today's date,
a due date after invoice.default_due_days and a suggested number.

Example:
  invoicer invoices create --client "ACME" --email billing@acme.test \
    --address "1 Road" --address "Springfield" \
    --item "Widget;2;9.99" --item "Shipping;1;5.00"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		ctrl := appInstance.Controller

		ed, err := ctrl.New()
		if err != nil {
			return err
		}

		inv, err := applyAndSubmit(ctx, cmd, ctrl, ed)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Invoice created: %s\n", inv.Number)
		fmt.Fprintf(out, "  ID: %s\n", inv.ID)
		fmt.Fprintf(out, "  Client: %s\n", inv.ClientName)
		fmt.Fprintf(out, "  Total: %s\n", render.FormatMoney(inv.Total()))
		return nil
	},
}

var invoicesEditCmd = &cobra.Command{
	Use:   "edit [id_or_number]",
	Short: "Edit an existing invoice",
	Long: `Edit an existing invoice. Only the flags given are changed; --item appends
line items and --remove-item drops items by ID or description.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		ctrl := appInstance.Controller

		if err := selectInvoice(ctrl, args[0]); err != nil {
			return err
		}
		ed, err := ctrl.Edit()
		if err != nil {
			ctrl.Close()
			return err
		}

		inv, err := applyAndSubmit(ctx, cmd, ctrl, ed)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Invoice updated: %s\n", inv.Number)
		fmt.Fprintf(out, "  Total: %s\n", render.FormatMoney(inv.Total()))
		return nil
	},
}

var invoicesPrintCmd = &cobra.Command{
	Use:   "print [id_or_number]",
	Short: "Print an invoice (writes PDF or text, then runs print.command if set)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl := appInstance.Controller
		if err := selectInvoice(ctrl, args[0]); err != nil {
			return err
		}
		defer ctrl.Close()

		path, err := ctrl.Print(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Printed to %s\n", path)
		return nil
	},
}

// selectInvoice resolves an ID or number and moves the controller to viewing
func selectInvoice(ctrl *controller.Controller, idOrNumber string) error {
	inv, ok := ctrl.Find(idOrNumber)
	if !ok {
		return fmt.Errorf("%w: %s", controller.ErrNotFound, idOrNumber)
	}
	return ctrl.Select(inv.ID)
}

// applyAndSubmit copies the command's flags into the draft, checks the
// required fields and submits. The draft is discarded on any error.
func applyAndSubmit(ctx context.Context, cmd *cobra.Command, ctrl *controller.Controller, ed *editor.Editor) (domain.Invoice, error) {
	if err := applyFlags(cmd, ed, time.Now()); err != nil {
		ctrl.Cancel()
		return domain.Invoice{}, err
	}
	if err := ed.Draft().Validate(); err != nil {
		ctrl.Cancel()
		return domain.Invoice{}, fmt.Errorf("invalid invoice: %w", err)
	}
	inv, err := ctrl.Submit(ctx)
	if err != nil {
		ctrl.Cancel()
		return domain.Invoice{}, err
	}
	return inv, nil
}

var scalarFlags = map[string]editor.Field{
	"number": editor.FieldNumber,
	"client": editor.FieldClientName,
	"email":  editor.FieldClientEmail,
	"notes":  editor.FieldNotes,
}

func applyFlags(cmd *cobra.Command, ed *editor.Editor, now time.Time) error {
	flags := cmd.Flags()

	for name, field := range scalarFlags {
		if flags.Changed(name) {
			v, _ := flags.GetString(name)
			ed.UpdateField(field, v)
		}
	}

	for name, field := range map[string]editor.Field{"date": editor.FieldDate, "due": editor.FieldDueDate} {
		if !flags.Changed(name) {
			continue
		}
		v, _ := flags.GetString(name)
		d, err := parseDate(v, now)
		if err != nil {
			return fmt.Errorf("invalid --%s: %w", name, err)
		}
		ed.UpdateField(field, d)
	}

	if flags.Changed("address") {
		lines, _ := flags.GetStringArray("address")
		ed.UpdateField(editor.FieldClientAddress, strings.Join(lines, "\n"))
	}

	if flags.Lookup("remove-item") != nil {
		removals, _ := flags.GetStringArray("remove-item")
		for _, r := range removals {
			if !removeItem(ed, r) {
				return fmt.Errorf("no item %q on this invoice", r)
			}
		}
	}

	items, _ := flags.GetStringArray("item")
	for _, raw := range items {
		patch, err := parseItem(raw)
		if err != nil {
			return err
		}
		ed.UpdateItem(ed.AddItem(), patch)
	}
	return nil
}

// removeItem drops the item with the given ID, or else the first one whose
// description matches
func removeItem(ed *editor.Editor, idOrDescription string) bool {
	for _, it := range ed.Draft().Items {
		if it.ID == idOrDescription {
			ed.RemoveItem(it.ID)
			return true
		}
	}
	for _, it := range ed.Draft().Items {
		if strings.EqualFold(it.Description, idOrDescription) {
			ed.RemoveItem(it.ID)
			return true
		}
	}
	return false
}

func printItems(out io.Writer, inv domain.Invoice) {
	for _, it := range inv.Items {
		fmt.Fprintf(out, "  %-12s %-32s %6s x %10s\n",
			render.Truncate(it.ID, 12),
			render.Truncate(it.Description, 32),
			render.FormatQuantity(it.Quantity),
			render.FormatMoney(it.Price),
		)
	}
}

var invoicesItemsCmd = &cobra.Command{
	Use:   "items [id_or_number]",
	Short: "List an invoice's line items with their IDs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, ok := appInstance.Controller.Find(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", controller.ErrNotFound, args[0])
		}
		if len(inv.Items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No items")
			return nil
		}
		printItems(cmd.OutOrStdout(), inv)
		return nil
	},
}

func addDraftFlags(cmd *cobra.Command) {
	cmd.Flags().String("number", "", "Invoice number")
	cmd.Flags().String("date", "", "Issue date (YYYY-MM-DD, today, yesterday)")
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD, today, yesterday)")
	cmd.Flags().String("client", "", "Client name")
	cmd.Flags().String("email", "", "Client email")
	cmd.Flags().StringArray("address", nil, "Client address line (repeatable)")
	cmd.Flags().String("notes", "", "Notes printed at the bottom of the invoice")
	cmd.Flags().StringArray("item", nil, `Line item "description;quantity;price" (repeatable)`)
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesItemsCmd)
	invoicesCmd.AddCommand(invoicesCreateCmd)
	invoicesCmd.AddCommand(invoicesEditCmd)
	invoicesCmd.AddCommand(invoicesPrintCmd)

	addDraftFlags(invoicesCreateCmd)
	addDraftFlags(invoicesEditCmd)
	invoicesEditCmd.Flags().StringArray("remove-item", nil, "Remove a line item by ID or description (repeatable)")
}
