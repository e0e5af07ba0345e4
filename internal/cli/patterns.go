package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apperrors "pullback-trader/internal/errors"
)

func newPatternsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Browse the pattern journal",
		Long:  "List and inspect journaled pattern evaluations and their trade outcomes.",
	}

	var (
		symbol string
		limit  int
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				return apperrors.ErrDatabaseError
			}

			records, err := app.Journal.ListPatterns(context.Background(), symbol, limit)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(records)
			}

			table := NewTable(output, "ID", "SYMBOL", "TIME", "SIGNAL", "CONF", "OUTCOME")
			for _, rec := range records {
				outcome := "-"
				if rec.Outcome != nil {
					if rec.Outcome.Executed {
						outcome = fmt.Sprintf("%s (%s)", output.Profit(rec.Outcome.ProfitRate), rec.Outcome.ExitReason)
					} else {
						outcome = "not executed"
					}
				}
				table.AddRow(
					rec.ID,
					rec.StockID,
					rec.Timestamp.Format("2006-01-02 15:04"),
					output.Signal(rec.Signal.Type),
					fmt.Sprintf("%.0f", rec.Signal.Confidence),
					outcome,
				)
			}
			table.Render()
			return nil
		},
	}
	listCmd.Flags().StringVar(&symbol, "symbol", "", "filter by symbol")
	listCmd.Flags().IntVar(&limit, "limit", 20, "maximum records")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <pattern-id>",
		Short: "Show one journaled pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				return apperrors.ErrDatabaseError
			}

			rec, err := app.Journal.GetPattern(context.Background(), args[0])
			if err != nil {
				return err
			}
			return output.JSON(rec)
		},
	})

	return cmd
}
