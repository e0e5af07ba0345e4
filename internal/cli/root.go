package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pullback-trader/internal/analysis/pullback"
	"pullback-trader/internal/config"
	"pullback-trader/internal/logging"
	"pullback-trader/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-06-01"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Detector *pullback.Detector
	Journal  store.PatternJournal
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Rule table: external file when configured, compiled default otherwise.
	table, err := pullback.LoadRuleTable(cfg.Rules.Path)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.Rules.Path).Msg("Failed to load rule table, using default")
		table = pullback.DefaultRuleTable()
	}
	app.Detector = pullback.NewDetector(detectorConfig(cfg), table)

	if cfg.Journal.Enabled {
		journal, err := store.NewSQLiteJournal(cfg.Journal.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize pattern journal, persistence disabled")
		} else {
			app.Journal = journal
			logger.Debug().Str("path", cfg.Journal.Path).Msg("Pattern journal initialized")
		}
	}

	rootCmd := &cobra.Command{
		Use:   "pullback-trader",
		Short: "Multi-stage pullback pattern detector for 3-minute candles",
		Long: `Pullback Trader detects the four-stage pullback shape (uptrend, decline,
support, breakout) on 3-minute stock candles, scores each evaluation candle
into a confidence-backed signal, and filters signals against historically
observed stage-tier combinations.

Use 'pullback-trader help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/pullback-trader)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newEvaluateCmd(app))
	rootCmd.AddCommand(newBacktestCmd(app))
	rootCmd.AddCommand(newRulesCmd(app))
	rootCmd.AddCommand(newPatternsCmd(app))

	return rootCmd
}

// detectorConfig maps file configuration onto detector thresholds.
func detectorConfig(cfg *config.Config) pullback.Config {
	return pullback.Config{
		UptrendMinGain:       cfg.Detector.UptrendMinGain,
		DeclineMinPct:        cfg.Detector.DeclineMinPct,
		SupportVolatilityMax: cfg.Detector.SupportVolatilityMax,
		BreakoutBodyIncrease: cfg.Detector.BreakoutBodyIncrease,
		LowVolumeThreshold:   cfg.Detector.LowVolumeThreshold,
		Lookback:             cfg.Detector.Lookback,
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Pullback Trader v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Detector Configuration")
	output.Printf("  Uptrend Min Gain:        %.2f%%\n", cfg.Detector.UptrendMinGain*100)
	output.Printf("  Decline Min Pct:         %.2f%%\n", cfg.Detector.DeclineMinPct*100)
	output.Printf("  Support Volatility Max:  %.2f%%\n", cfg.Detector.SupportVolatilityMax*100)
	output.Printf("  Breakout Body Increase:  %.0f%%\n", cfg.Detector.BreakoutBodyIncrease*100)
	output.Printf("  Low Volume Threshold:    %.0f%%\n", cfg.Detector.LowVolumeThreshold*100)
	output.Printf("  Lookback:                %d candles\n", cfg.Detector.Lookback)
	output.Println()

	output.Bold("Journal")
	output.Printf("  Enabled:  %v\n", cfg.Journal.Enabled)
	output.Printf("  Path:     %s\n", cfg.Journal.Path)
	output.Println()

	output.Bold("Rules")
	rulesPath := cfg.Rules.Path
	if rulesPath == "" {
		rulesPath = "(built-in)"
	}
	output.Printf("  Table:    %s\n", rulesPath)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:    %s\n", cfg.Logging.Level)
	output.Printf("  Console:  %v\n", cfg.Logging.Console)
	output.Printf("  File:     %v\n", cfg.Logging.File)

	return nil
}
