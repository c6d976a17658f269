// Package config loads and validates HCL table and simulation
// configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/hautdesert/chipsafe/internal/game"
)

// Config is a complete engine configuration: the tables to run, the bots
// that populate them, and optional simulation settings.
type Config struct {
	LogLevel   string      `hcl:"log_level,optional"`
	Tables     []Table     `hcl:"table,block"`
	Bots       []Bot       `hcl:"bot,block"`
	Simulation *Simulation `hcl:"simulation,block"`
}

// Table configures one table.
type Table struct {
	Name        string `hcl:"name,label"`
	Seats       int    `hcl:"seats,optional"`
	BuyIn       int64  `hcl:"buy_in,optional"`
	SmallBlind  int64  `hcl:"small_blind"`
	BigBlind    int64  `hcl:"big_blind"`
	TurnTimeout string `hcl:"turn_timeout,optional"`
	Mode        string `hcl:"mode,optional"`
}

// Bot assigns a strategy to a simulated player.
type Bot struct {
	Name     string   `hcl:"name,label"`
	Strategy string   `hcl:"strategy"`
	Tables   []string `hcl:"tables,optional"`
}

// Simulation configures a batch run.
type Simulation struct {
	Tables      int    `hcl:"tables,optional"`
	Hands       int    `hcl:"hands,optional"`
	Seed        int64  `hcl:"seed,optional"`
	SnapshotDir string `hcl:"snapshot_dir,optional"`
}

// Default returns the configuration used when no file is given: one
// six-seat simulation table with four mixed-strategy bots.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Tables: []Table{
			{
				Name:        "main",
				Seats:       6,
				BuyIn:       10000,
				SmallBlind:  50,
				BigBlind:    100,
				TurnTimeout: "30s",
				Mode:        "simulation",
			},
		},
		Bots: []Bot{
			{Name: "caller-1", Strategy: "caller", Tables: []string{"main"}},
			{Name: "raiser-1", Strategy: "raiser", Tables: []string{"main"}},
			{Name: "random-1", Strategy: "random", Tables: []string{"main"}},
			{Name: "folder-1", Strategy: "folder", Tables: []string{"main"}},
		},
		Simulation: &Simulation{Tables: 1, Hands: 100, Seed: 1},
	}
}

// Load reads an HCL configuration file. A missing file yields the default
// configuration rather than an error.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	for i := range c.Tables {
		t := &c.Tables[i]
		if t.Seats == 0 {
			t.Seats = 6
		}
		if t.BuyIn == 0 {
			t.BuyIn = t.BigBlind * 100
		}
		if t.TurnTimeout == "" {
			t.TurnTimeout = "30s"
		}
		if t.Mode == "" {
			t.Mode = "simulation"
		}
	}
	for i := range c.Bots {
		if len(c.Bots[i].Tables) == 0 {
			for _, t := range c.Tables {
				c.Bots[i].Tables = append(c.Bots[i].Tables, t.Name)
			}
		}
	}
	if c.Simulation == nil {
		c.Simulation = &Simulation{}
	}
	if c.Simulation.Tables == 0 {
		c.Simulation.Tables = 1
	}
	if c.Simulation.Hands == 0 {
		c.Simulation.Hands = 100
	}
	if c.Simulation.Seed == 0 {
		c.Simulation.Seed = 1
	}
}

// Validate rejects configurations the engine cannot run.
func (c *Config) Validate() error {
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}
	names := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if names[t.Name] {
			return fmt.Errorf("duplicate table name %q", t.Name)
		}
		names[t.Name] = true
		if t.SmallBlind <= 0 {
			return fmt.Errorf("table %s: small blind must be positive", t.Name)
		}
		if t.BigBlind <= t.SmallBlind {
			return fmt.Errorf("table %s: big blind must be greater than small blind", t.Name)
		}
		if t.Seats < 2 || t.Seats > 10 {
			return fmt.Errorf("table %s: seats must be between 2 and 10", t.Name)
		}
		if t.BuyIn < t.BigBlind {
			return fmt.Errorf("table %s: buy-in must cover at least one big blind", t.Name)
		}
		if _, err := time.ParseDuration(t.TurnTimeout); err != nil {
			return fmt.Errorf("table %s: invalid turn_timeout: %w", t.Name, err)
		}
		if _, err := game.ParseMode(t.Mode); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
		if len(c.BotsForTable(t.Name)) < 2 {
			return fmt.Errorf("table %s: needs at least two bots to deal a hand", t.Name)
		}
	}

	validStrategies := map[string]bool{
		"caller": true,
		"folder": true,
		"random": true,
		"raiser": true,
	}
	botNames := make(map[string]bool, len(c.Bots))
	for _, b := range c.Bots {
		if botNames[b.Name] {
			return fmt.Errorf("duplicate bot name %q", b.Name)
		}
		botNames[b.Name] = true
		if !validStrategies[b.Strategy] {
			return fmt.Errorf("bot %s: invalid strategy %q", b.Name, b.Strategy)
		}
		for _, table := range b.Tables {
			if !names[table] {
				return fmt.Errorf("bot %s: unknown table %q", b.Name, table)
			}
		}
	}
	return nil
}

// Engine converts a table block into the engine's table configuration.
func (t Table) Engine() (game.Config, error) {
	timeout, err := time.ParseDuration(t.TurnTimeout)
	if err != nil {
		return game.Config{}, fmt.Errorf("table %s: invalid turn_timeout: %w", t.Name, err)
	}
	mode, err := game.ParseMode(t.Mode)
	if err != nil {
		return game.Config{}, fmt.Errorf("table %s: %w", t.Name, err)
	}
	return game.Config{
		ID:          t.Name,
		Seats:       t.Seats,
		BuyIn:       t.BuyIn,
		SmallBlind:  t.SmallBlind,
		BigBlind:    t.BigBlind,
		TurnTimeout: timeout,
		Mode:        mode,
	}, nil
}

// BotsForTable returns the bots assigned to a table.
func (c *Config) BotsForTable(name string) []Bot {
	var bots []Bot
	for _, b := range c.Bots {
		for _, table := range b.Tables {
			if table == name {
				bots = append(bots, b)
				break
			}
		}
	}
	return bots
}
