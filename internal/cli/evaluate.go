package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"pullback-trader/internal/analysis/indicators"
	"pullback-trader/internal/data"
	"pullback-trader/internal/logging"
	"pullback-trader/internal/models"
)

func newEvaluateCmd(app *App) *cobra.Command {
	var (
		symbol  string
		journal bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate <session.csv>",
		Short: "Evaluate the last candle of a session",
		Long: `Evaluate loads a CSV candle session, runs the pullback detector on the
full series, and prints the signal for the final candle.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			path := args[0]
			if symbol == "" {
				symbol = symbolFromPath(path)
			}

			candles, err := data.LoadSession(path)
			if err != nil {
				return err
			}

			sig, analysis := app.Detector.Evaluate(candles)
			logging.LogSignal(logging.WithSymbol(app.Logger, symbol), symbol, sig)

			if journal && app.Journal != nil {
				last := candles[len(candles)-1]
				id, err := app.Journal.LogPattern(context.Background(), symbol, last.Timestamp, sig, analysis)
				if err != nil {
					output.Warning("Failed to journal pattern: %v", err)
				} else {
					output.Dim("Pattern journaled: %s", id)
				}
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol":   symbol,
					"signal":   sig,
					"analysis": analysis,
				})
			}

			printSignal(output, symbol, sig, analysis, len(candles))
			printSessionContext(output, candles, app.Detector.Config().UptrendMinGain)
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "instrument symbol (default: file name)")
	cmd.Flags().BoolVar(&journal, "journal", false, "record the evaluation in the pattern journal")
	return cmd
}

func symbolFromPath(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

func printSignal(output *Output, symbol string, sig models.SignalStrength, analysis models.PatternAnalysis, candleCount int) {
	output.Bold("%s  (%d candles)", symbol, candleCount)
	output.Printf("  Signal:      %s\n", output.Signal(sig.Type))
	output.Printf("  Confidence:  %.1f\n", sig.Confidence)
	output.Printf("  Target:      %s\n", output.Profit(sig.TargetProfit))
	output.Printf("  Bisector:    %s\n", string(sig.BisectorStatus))
	output.Printf("  Volume:      %.1f%% of session max\n", sig.VolumeRatio*100)
	if len(sig.Reasons) > 0 {
		output.Printf("  Reasons:     %s\n", strings.Join(sig.Reasons, ", "))
	}
	output.Println()

	if !analysis.Valid {
		output.Warning("No valid pullback pattern.")
		return
	}

	output.Bold("Pattern")
	u, d, s, b := analysis.Uptrend, analysis.Decline, analysis.Support, analysis.Breakout
	output.Printf("  Uptrend:   candles %d-%d, gain %s\n", u.StartIndex, u.EndIndex, output.Profit(u.PriceGain))
	output.Printf("  Decline:   candles %d-%d, depth %s\n", d.StartIndex, d.EndIndex, output.Profit(-d.DeclinePct))
	output.Printf("  Support:   candles %d-%d, volatility %.2f%%\n", s.StartIndex, s.EndIndex, s.PriceVolatility*100)
	output.Printf("  Breakout:  candle %d, body ratio %.0f%%\n", b.Index, b.BodyRatio*100)
	output.Printf("  Entry:     %.2f\n", analysis.EntryPrice)
	output.Printf("  Base confidence: %.1f\n", analysis.BaseConfidence)
}

func printSessionContext(output *Output, candles []models.Candle, minGain float64) {
	output.Println()
	output.Bold("Session")
	output.Printf("  Trend:          %s\n", indicators.PriceTrend(candles, 10))
	if indicators.HasPriorUptrend(candles, minGain) {
		output.Printf("  Prior uptrend:  yes\n")
	} else {
		output.Printf("  Prior uptrend:  no\n")
	}
}
