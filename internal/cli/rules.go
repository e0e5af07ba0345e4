package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pullback-trader/internal/analysis/pullback"
	"pullback-trader/internal/config"
)

func newRulesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Combination rule table management",
		Long:  "Inspect and validate the stage-tier combination rule tables.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the active rule table",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			table := app.Detector.Rules()

			if output.IsJSON() {
				return output.JSON(table)
			}

			output.Bold("Rule Table v%d", table.Version)
			output.Println()

			output.Bold("Exclusions (%d)", len(table.Exclusions))
			printRules(output, table.Exclusions)
			output.Println()

			output.Bold("Bonuses (%d)", len(table.Bonuses))
			printRules(output, table.Bonuses)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <rules.toml>",
		Short: "Validate a rule table file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			table, err := pullback.LoadRuleTable(args[0])
			if err != nil {
				output.Error("Rule table invalid: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"valid":      true,
					"version":    table.Version,
					"exclusions": len(table.Exclusions),
					"bonuses":    len(table.Bonuses),
				})
			}
			output.Success("Rule table is valid: v%d, %d exclusions, %d bonuses",
				table.Version, len(table.Exclusions), len(table.Bonuses))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a starter rule table to the config directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			path, err := config.CreateTemplateRules(config.DefaultConfigDir())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": path})
			}
			output.Success("Rule table template: %s", path)
			return nil
		},
	})

	return cmd
}

func printRules(output *Output, rules []pullback.Rule) {
	table := NewTable(output, "UPTREND", "DECLINE", "SUPPORT", "BREAKOUT", "ADJ", "NOTE")
	for _, r := range rules {
		table.AddRow(r.Uptrend, r.Decline, r.Support, r.Breakout,
			fmt.Sprintf("%+.0f", r.Adjustment), r.Note)
	}
	table.Render()
}
