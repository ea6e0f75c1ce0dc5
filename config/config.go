// Package config loads the draft-value TOML configuration.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"draft-value/rating"
)

// DefaultPath is where the CLI looks for a config file.
const DefaultPath = "draftvalue.toml"

// Config represents the application configuration.
type Config struct {
	Paths      PathsConfig      `toml:"paths"`
	Scoring    ScoringConfig    `toml:"scoring"`
	League     LeagueConfig     `toml:"league"`
	Positions  []PositionConfig `toml:"positions"`
	Categories []CategoryConfig `toml:"categories"`
	LogLevel   string           `toml:"log_level"`
}

// PathsConfig contains input and output locations.
type PathsConfig struct {
	Projections string `toml:"projections"` // One CSV per position
	Rankings    string `toml:"rankings"`    // Platform ranking directory
	Teams       string `toml:"teams"`       // Optional team strength notes
	Output      string `toml:"output"`      // Intermediate CSV directory
	Workbook    string `toml:"workbook"`    // Generated .xlsx
	Charts      string `toml:"charts"`      // Value curve HTML ("" = off)
	Metrics     string `toml:"metrics"`     // Prometheus text file ("" = off)
}

// ScoringConfig selects the scoring rules.
type ScoringConfig struct {
	Preset         string             `toml:"preset"`           // ppr, half_ppr, standard
	Weights        map[string]float64 `toml:"weights"`          // Per-stat overrides
	GamesPerSeason int                `toml:"games_per_season"` // Divisor for per-game points
}

// LeagueConfig describes the league the sheet is drafted for.
type LeagueConfig struct {
	Size int `toml:"size"` // Teams per league, also picks per round
}

// PositionConfig is one base position.
type PositionConfig struct {
	Position string `toml:"position"`
	Baseline int    `toml:"baseline"`
	Limit    int    `toml:"limit"`
}

// CategoryConfig is one combined view. Zero baseline/limit mean the sum
// over members.
type CategoryConfig struct {
	Name     string   `toml:"name"`
	Members  []string `toml:"members"`
	Baseline int      `toml:"baseline"`
	Limit    int      `toml:"limit"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	cfg := &Config{
		Paths: PathsConfig{
			Projections: "fp_data",
			Rankings:    "draft_platform_rankings",
			Teams:       "notes/teams.csv",
			Output:      "output",
			Workbook:    "DraftSheet.xlsx",
			Charts:      "output/ValueCurves.html",
		},
		Scoring: ScoringConfig{
			Preset:         rating.PresetPPR,
			GamesPerSeason: rating.GamesPerSeason,
		},
		League:   LeagueConfig{Size: 12},
		LogLevel: "info",
	}
	for _, p := range rating.DefaultPositionRules() {
		cfg.Positions = append(cfg.Positions, PositionConfig{
			Position: p.Position,
			Baseline: p.Baseline,
			Limit:    p.Limit,
		})
	}
	for _, c := range rating.DefaultCategoryRules() {
		cfg.Categories = append(cfg.Categories, CategoryConfig{
			Name:    c.Name,
			Members: c.Members,
		})
	}
	return cfg
}

// Load reads the config at path on top of the defaults. A missing file
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "read config file")
	}

	// Tables given in the file replace the defaults wholesale
	var file Config
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "parse config file")
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config file")
	}
	if file.Positions != nil {
		cfg.Positions = file.Positions
	}
	if file.Categories != nil {
		cfg.Categories = file.Categories
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Paths.Projections == "" {
		return errors.New("paths.projections is required")
	}
	if c.Paths.Output == "" || c.Paths.Workbook == "" {
		return errors.New("paths.output and paths.workbook are required")
	}
	if _, err := rating.Preset(c.Scoring.Preset); err != nil {
		return err
	}
	if c.League.Size <= 0 {
		return errors.Errorf("league size must be positive: %d", c.League.Size)
	}
	if len(c.Positions) == 0 {
		return errors.New("at least one position is required")
	}

	known := make(map[string]bool, len(c.Positions))
	for _, p := range c.Positions {
		if p.Position == "" {
			return errors.New("position code cannot be empty")
		}
		if known[p.Position] {
			return errors.Errorf("position %s configured twice", p.Position)
		}
		if p.Baseline < 0 {
			return errors.Errorf("baseline for %s cannot be negative: %d", p.Position, p.Baseline)
		}
		if p.Limit <= 0 {
			return errors.Errorf("limit for %s must be positive: %d", p.Position, p.Limit)
		}
		known[p.Position] = true
	}

	for _, cat := range c.Categories {
		if cat.Name == "" {
			return errors.New("category name cannot be empty")
		}
		if known[cat.Name] {
			return errors.Errorf("category %s collides with a position", cat.Name)
		}
		if len(cat.Members) == 0 {
			return errors.Errorf("category %s has no members", cat.Name)
		}
		for _, m := range cat.Members {
			if !known[m] {
				return errors.Errorf("category %s references unknown position %s", cat.Name, m)
			}
		}
		if cat.Baseline < 0 || cat.Limit < 0 {
			return errors.Errorf("category %s baseline and limit cannot be negative", cat.Name)
		}
	}
	return nil
}

// ScoringRules builds the frozen scoring table.
func (c *Config) ScoringRules() (rating.ScoringRules, error) {
	rules, err := rating.Preset(c.Scoring.Preset)
	if err != nil {
		return rating.ScoringRules{}, err
	}
	return rules.WithOverrides(c.Scoring.Weights, c.Scoring.GamesPerSeason), nil
}

// PositionRules converts the position tables.
func (c *Config) PositionRules() []rating.PositionRule {
	out := make([]rating.PositionRule, 0, len(c.Positions))
	for _, p := range c.Positions {
		out = append(out, rating.PositionRule{Position: p.Position, Baseline: p.Baseline, Limit: p.Limit})
	}
	return out
}

// CategoryRules converts the combined category tables.
func (c *Config) CategoryRules() []rating.CategoryRule {
	out := make([]rating.CategoryRule, 0, len(c.Categories))
	for _, cat := range c.Categories {
		out = append(out, rating.CategoryRule{
			Name:     cat.Name,
			Members:  cat.Members,
			Baseline: cat.Baseline,
			Limit:    cat.Limit,
		})
	}
	return out
}

// PositionCodes lists the configured base positions in order.
func (c *Config) PositionCodes() []string {
	out := make([]string, 0, len(c.Positions))
	for _, p := range c.Positions {
		out = append(out, p.Position)
	}
	return out
}
