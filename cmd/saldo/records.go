package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"saldo/internal/core"
	"saldo/internal/ledger"
)

type entryFlags struct {
	description string
	amount      string
	category    string
	date        string
}

func (f *entryFlags) edits(store *ledger.Store, withCategory bool) []ledger.Edit {
	date := f.date
	if date == "" {
		date = store.Today().String()
	}
	edits := []ledger.Edit{
		{Field: ledger.FieldDescription, Value: f.description},
		{Field: ledger.FieldAmount, Value: f.amount},
		{Field: ledger.FieldDate, Value: date},
	}
	if withCategory {
		edits = append(edits, ledger.Edit{Field: ledger.FieldCategory, Value: f.category})
	}
	return edits
}

func (a *app) incomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Manage incomes",
	}
	cmd.AddCommand(a.addCmd(core.KindIncome))
	return cmd
}

func (a *app) expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Manage expenses",
	}
	cmd.AddCommand(a.addCmd(core.KindExpense))
	return cmd
}

func (a *app) addCmd(kind core.Kind) *cobra.Command {
	var f entryFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an " + string(kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, cleanup, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer a.closeStore(cleanup)

			tracker := ledger.NewTracker(store)
			var rec core.Record
			if kind == core.KindIncome {
				rec, err = tracker.SubmitIncome(ctx, f.edits(store, false)...)
			} else {
				rec, err = tracker.SubmitExpense(ctx, f.edits(store, true)...)
			}
			switch {
			case errors.Is(err, ledger.ErrIncomplete):
				return errors.New("--description and --amount are required")
			case errors.Is(err, ledger.ErrPersistFailed):
				return fmt.Errorf("%s %s was not saved: %w", kind, rec.ID, err)
			case err != nil:
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Added %s %s", kind, rec.ID)))
			return renderRecords(cmd.OutOrStdout(), []core.Record{rec})
		},
	}

	cmd.Flags().StringVarP(&f.description, "description", "d", "", "what the entry is for")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "positive amount, e.g. 1234.56 or 1.234,56")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default today)")
	if kind == core.KindExpense {
		cmd.Flags().StringVarP(&f.category, "category", "c", string(core.DefaultCategory), "expense category")
	}
	return cmd
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a record by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, cleanup, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer a.closeStore(cleanup)

			removed, err := store.Remove(ctx, args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("record %q not found", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Removed "+args[0]))
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k := core.Kind(strings.ToLower(kind))
			if kind != "" && !k.Valid() {
				return fmt.Errorf("--kind must be income or expense, got %q", kind)
			}

			store, cleanup, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeStore(cleanup)

			var records []core.Record
			for _, r := range store.Summary().Chronological {
				if kind == "" || r.Kind == k {
					records = append(records, r)
				}
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render("No entries yet. Use 'saldo income add' or 'saldo expense add'."))
				return nil
			}
			return renderRecords(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only show income or expense")
	return cmd
}
