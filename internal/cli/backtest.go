package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"pullback-trader/internal/data"
	"pullback-trader/internal/models"
	"pullback-trader/internal/trading"
)

func newBacktestCmd(app *App) *cobra.Command {
	var noJournal bool

	cmd := &cobra.Command{
		Use:   "backtest <session.csv> [session.csv...]",
		Short: "Replay sessions through the detector",
		Long: `Backtest replays each session bar by bar: entries on STRONG_BUY and
CAUTIOUS_BUY signals at the 4/5 body entry price, exits on risk signals,
target profit or session end. Sessions run concurrently, one per symbol.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			sessions := make(map[string][]models.Candle, len(args))
			for _, path := range args {
				candles, err := data.LoadSession(path)
				if err != nil {
					return err
				}
				sessions[symbolFromPath(path)] = candles
			}

			journal := app.Journal
			if noJournal {
				journal = nil
			}
			engine := trading.NewEngine(app.Detector, journal, app.Logger)

			results, err := engine.RunAll(context.Background(), sessions)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(results)
			}

			printBacktestResults(output, results)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "skip journaling patterns and outcomes")
	return cmd
}

func printBacktestResults(output *Output, results map[string]*trading.Result) {
	symbols := make([]string, 0, len(results))
	for s := range results {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	table := NewTable(output, "SYMBOL", "CANDLES", "SIGNALS", "TRADES", "WIN RATE", "RETURN", "MAX DD")
	var totalTrades, totalWins int
	var totalReturn float64
	for _, s := range symbols {
		r := results[s]
		wins := 0
		for _, t := range r.Trades {
			if t.ProfitRate > 0 {
				wins++
			}
		}
		totalTrades += len(r.Trades)
		totalWins += wins
		totalReturn += r.TotalReturn

		table.AddRow(
			s,
			fmt.Sprintf("%d", r.Candles),
			fmt.Sprintf("%d", r.BuySignals),
			fmt.Sprintf("%d", len(r.Trades)),
			fmt.Sprintf("%.0f%%", r.WinRate*100),
			output.Profit(r.TotalReturn),
			fmt.Sprintf("%.2f%%", r.MaxDrawdown*100),
		)
	}
	table.Render()
	output.Println()

	output.Bold("Total")
	output.Printf("  Trades:  %d\n", totalTrades)
	if totalTrades > 0 {
		output.Printf("  Wins:    %d (%.0f%%)\n", totalWins, float64(totalWins)/float64(totalTrades)*100)
	}
	output.Printf("  Return:  %s\n", output.Profit(totalReturn))
}
