package main

import (
	"fmt"
	"os"

	"github.com/hautdesert/chipsafe/cmd/chipsafe/shared"
	"github.com/hautdesert/chipsafe/internal/config"
	"github.com/hautdesert/chipsafe/internal/game"
	"github.com/hautdesert/chipsafe/internal/sim"
	"github.com/hautdesert/chipsafe/internal/snapshot"
)

// RunCmd plays a simulation batch and exits non-zero if any hand broke
// chip conservation.
type RunCmd struct {
	Config      string `kong:"arg,help='HCL table configuration file'"`
	Hands       int    `kong:"arg,optional,help='Hands per table (overrides config)'"`
	Tables      int    `kong:"help='Table replicas per config block (overrides config)'"`
	Seed        *int64 `kong:"help='Batch seed for reproducible runs (overrides config)'"`
	SnapshotDir string `kong:"help='Write per-hand JSON snapshots under this directory'"`
	Debug       bool   `kong:"help='Enable debug logging'"`
}

func (c *RunCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Tables > 0 {
		cfg.Simulation.Tables = c.Tables
	}
	if c.Seed != nil {
		cfg.Simulation.Seed = *c.Seed
	}
	if c.SnapshotDir != "" {
		cfg.Simulation.SnapshotDir = c.SnapshotDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	hands := cfg.Simulation.Hands
	if c.Hands > 0 {
		hands = c.Hands
	}

	logger := shared.SetupLogger(cfg.LogLevel, c.Debug)
	logger.Info("starting batch",
		"config", c.Config,
		"hands", hands,
		"tables", cfg.Simulation.Tables,
		"seed", cfg.Simulation.Seed)

	var recorder game.SettlementRecorder
	if cfg.Simulation.SnapshotDir != "" {
		recorder = snapshot.NewStore(cfg.Simulation.SnapshotDir, logger)
	}

	ctx := shared.SetupSignalHandler(logger)
	report, err := sim.NewRunner(cfg, logger, recorder).Run(ctx, hands)
	if err != nil {
		return err
	}

	fmt.Print(report.Summary())
	if violations := report.TotalViolations(); violations > 0 {
		os.Exit(exitCode(violations))
	}
	return nil
}

// exitCode caps at 125 so violation counts never collide with the shell's
// 126+ reserved statuses.
func exitCode(n int) int {
	if n > 125 {
		return 125
	}
	return n
}
