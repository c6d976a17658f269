package main

import (
	"fmt"

	"github.com/hautdesert/chipsafe/internal/config"
)

// CheckConfigCmd parses and validates a configuration file without running
// anything.
type CheckConfigCmd struct {
	Config string `kong:"arg,help='HCL configuration file to check'"`
}

func (c *CheckConfigCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	fmt.Printf("configuration OK: %d tables, %d bots\n", len(cfg.Tables), len(cfg.Bots))
	return nil
}
