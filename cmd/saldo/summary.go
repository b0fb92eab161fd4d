package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"saldo/internal/core"
)

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show balance, totals and spending by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cleanup, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeStore(cleanup)

			return renderSummary(cmd.OutOrStdout(), store.Summary())
		},
	}
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List expense categories",
		Args:  cobra.NoArgs,
		PersistentPreRunE: noSetup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, c := range core.Categories() {
				line := string(c)
				if c == core.DefaultCategory {
					line += mutedStyle.Render(" (default)")
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
