package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hautdesert/chipsafe/internal/game"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tables.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Tables, 1)
	assert.Len(t, cfg.Bots, 4)
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
table "main" {
  small_blind = 50
  big_blind   = 100
}

bot "caller-1" {
  strategy = "caller"
}

bot "raiser-1" {
  strategy = "raiser"
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	table := cfg.Tables[0]
	assert.Equal(t, 6, table.Seats)
	assert.Equal(t, int64(10000), table.BuyIn, "default buy-in is 100 big blinds")
	assert.Equal(t, "30s", table.TurnTimeout)
	assert.Equal(t, "simulation", table.Mode)

	// Bots with no table list play everywhere.
	assert.Equal(t, []string{"main"}, cfg.Bots[0].Tables)

	assert.Equal(t, 1, cfg.Simulation.Tables)
	assert.Equal(t, 100, cfg.Simulation.Hands)
	assert.Equal(t, int64(1), cfg.Simulation.Seed)
}

func TestLoadRejectsBadHCL(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, `table "x" {`))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() *Config {
		cfg := Default()
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"no tables", func(c *Config) { c.Tables = nil }, "at least one table"},
		{"zero small blind", func(c *Config) { c.Tables[0].SmallBlind = 0 }, "small blind"},
		{"inverted blinds", func(c *Config) { c.Tables[0].BigBlind = 5 }, "big blind"},
		{"one seat", func(c *Config) { c.Tables[0].Seats = 1 }, "seats"},
		{"short buy-in", func(c *Config) { c.Tables[0].BuyIn = 10 }, "buy-in"},
		{"bad timeout", func(c *Config) { c.Tables[0].TurnTimeout = "soon" }, "turn_timeout"},
		{"bad mode", func(c *Config) { c.Tables[0].Mode = "tournament" }, "mode"},
		{"bad strategy", func(c *Config) { c.Bots[0].Strategy = "gto" }, "strategy"},
		{"unknown bot table", func(c *Config) { c.Bots[0].Tables = []string{"ghost"} }, "unknown table"},
		{"lonely table", func(c *Config) { c.Bots = c.Bots[:1] }, "at least two bots"},
		{"duplicate bot", func(c *Config) { c.Bots[1].Name = c.Bots[0].Name }, "duplicate bot"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestTableEngine(t *testing.T) {
	t.Parallel()

	table := Table{
		Name:        "main",
		Seats:       9,
		BuyIn:       20000,
		SmallBlind:  50,
		BigBlind:    100,
		TurnTimeout: "15s",
		Mode:        "real",
	}
	cfg, err := table.Engine()
	require.NoError(t, err)
	assert.Equal(t, "main", cfg.ID)
	assert.Equal(t, 15*time.Second, cfg.TurnTimeout)
	assert.Equal(t, game.ModeReal, cfg.Mode)
}
