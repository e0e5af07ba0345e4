package pullback

import (
	"github.com/spf13/viper"

	apperrors "pullback-trader/internal/errors"
)

// RuleTableVersion is the only rule-set schema this build accepts. Tables
// built against older tier boundaries are rejected at load rather than
// silently reinterpreted.
const RuleTableVersion = 2

// Rule is one curated combination with its confidence adjustment.
type Rule struct {
	Uptrend    string  `mapstructure:"uptrend"`
	Decline    string  `mapstructure:"decline"`
	Support    string  `mapstructure:"support"`
	Breakout   string  `mapstructure:"breakout"`
	Adjustment float64 `mapstructure:"adjustment"`
	Note       string  `mapstructure:"note"`
}

func (r Rule) matches(c Combination) bool {
	return r.Uptrend == c.Uptrend && r.Decline == c.Decline &&
		r.Support == c.Support && r.Breakout == c.Breakout
}

// RuleTable holds the curated exclusion and bonus combinations.
type RuleTable struct {
	Version    int    `mapstructure:"version"`
	Exclusions []Rule `mapstructure:"exclusion"`
	Bonuses    []Rule `mapstructure:"bonus"`
}

// Match returns the adjustment for an exact combination match. Exclusions
// are checked first; the first hit wins.
func (t *RuleTable) Match(c Combination) (float64, string) {
	for _, r := range t.Exclusions {
		if r.matches(c) {
			return r.Adjustment, r.Note
		}
	}
	for _, r := range t.Bonuses {
		if r.matches(c) {
			return r.Adjustment, r.Note
		}
	}
	return 0, ""
}

// Validate checks version and rule shape.
func (t *RuleTable) Validate() error {
	if t.Version != RuleTableVersion {
		return apperrors.NewRuleTableError("", t.Version, "table version not supported", apperrors.ErrRuleTableVersion)
	}
	for _, r := range t.Exclusions {
		if r.Adjustment > 0 {
			return apperrors.NewRuleTableError("", t.Version, "exclusion with positive adjustment", nil)
		}
		if err := validateRuleTiers(r); err != nil {
			return err
		}
	}
	for _, r := range t.Bonuses {
		if r.Adjustment < 0 {
			return apperrors.NewRuleTableError("", t.Version, "bonus with negative adjustment", nil)
		}
		if err := validateRuleTiers(r); err != nil {
			return err
		}
	}
	return nil
}

func validateRuleTiers(r Rule) error {
	if !validUptrendTier(r.Uptrend) || !validDeclineTier(r.Decline) ||
		!validSupportTier(r.Support) || !validBreakoutTier(r.Breakout) {
		return apperrors.NewRuleTableError("", RuleTableVersion, "unknown tier label in rule", nil)
	}
	return nil
}

func validUptrendTier(s string) bool {
	switch s {
	case UptrendWeak, UptrendModerate, UptrendStrong, UptrendOverheated:
		return true
	}
	return false
}

func validDeclineTier(s string) bool {
	switch s {
	case DeclineWeak, DeclineModerate, DeclineStrong, DeclineCrash:
		return true
	}
	return false
}

func validSupportTier(s string) bool {
	switch s {
	case SupportVeryStable, SupportStable, SupportModerate, SupportUnstable:
		return true
	}
	return false
}

func validBreakoutTier(s string) bool {
	switch s {
	case BreakoutBearish, BreakoutWeak, BreakoutModerate, BreakoutStrong, BreakoutSurge:
		return true
	}
	return false
}

// LoadRuleTable reads a TOML rule table from disk. An empty path returns
// the compiled-in default.
func LoadRuleTable(path string) (*RuleTable, error) {
	if path == "" {
		return DefaultRuleTable(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, apperrors.NewRuleTableError(path, 0, "reading rule table", err)
	}

	table := &RuleTable{}
	if err := v.Unmarshal(table); err != nil {
		return nil, apperrors.NewRuleTableError(path, 0, "decoding rule table", err)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// DefaultRuleTable returns the curated table: every entry was observed over
// at least ten live trades before being added.
func DefaultRuleTable() *RuleTable {
	return &RuleTable{
		Version: RuleTableVersion,
		Exclusions: []Rule{
			{Uptrend: UptrendOverheated, Decline: DeclineCrash, Support: SupportVeryStable, Breakout: BreakoutSurge, Adjustment: -50, Note: "overheated rise into crash, losing combination"},
			{Uptrend: UptrendOverheated, Decline: DeclineCrash, Support: SupportVeryStable, Breakout: BreakoutModerate, Adjustment: -50, Note: "overheated rise into crash, losing combination"},
			{Uptrend: UptrendStrong, Decline: DeclineCrash, Support: SupportVeryStable, Breakout: BreakoutStrong, Adjustment: -50, Note: "deep crash after strong rise, losing combination"},
			{Uptrend: UptrendStrong, Decline: DeclineCrash, Support: SupportVeryStable, Breakout: BreakoutWeak, Adjustment: -50, Note: "deep crash after strong rise, losing combination"},
			{Uptrend: UptrendModerate, Decline: DeclineStrong, Support: SupportVeryStable, Breakout: BreakoutBearish, Adjustment: -50, Note: "bearish breakout candle, losing combination"},
			{Uptrend: UptrendModerate, Decline: DeclineWeak, Support: SupportStable, Breakout: BreakoutBearish, Adjustment: -50, Note: "bearish breakout candle, losing combination"},
			{Uptrend: UptrendStrong, Decline: DeclineCrash, Support: SupportVeryStable, Breakout: BreakoutBearish, Adjustment: -30, Note: "weak historical expectancy"},
			{Uptrend: UptrendOverheated, Decline: DeclineCrash, Support: SupportVeryStable, Breakout: BreakoutWeak, Adjustment: -30, Note: "weak historical expectancy"},
		},
		Bonuses: []Rule{
			{Uptrend: UptrendStrong, Decline: DeclineModerate, Support: SupportVeryStable, Breakout: BreakoutBearish, Adjustment: 10, Note: "strong historical win rate"},
			{Uptrend: UptrendModerate, Decline: DeclineWeak, Support: SupportStable, Breakout: BreakoutModerate, Adjustment: 10, Note: "strong historical win rate"},
			{Uptrend: UptrendStrong, Decline: DeclineStrong, Support: SupportVeryStable, Breakout: BreakoutBearish, Adjustment: 10, Note: "strong historical win rate"},
		},
	}
}
