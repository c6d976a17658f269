package main

import (
	"fmt"
	"os"

	"github.com/hautdesert/chipsafe/internal/snapshot"
)

// CompareCmd diffs the snapshots of two runs. The exit code is the number
// of high-severity differences, so CI can gate on chip-placement drift
// while tolerating cosmetic ones.
type CompareCmd struct {
	DirA string `kong:"arg,help='Snapshot directory of the first run'"`
	DirB string `kong:"arg,help='Snapshot directory of the second run'"`
}

func (c *CompareCmd) Run() error {
	report, err := snapshot.CompareDirs(c.DirA, c.DirB)
	if err != nil {
		return err
	}

	for _, diff := range report.Differences {
		fmt.Println(diff)
	}
	fmt.Printf("compared %d hands: %d high, %d medium, %d low differences\n",
		report.Compared,
		report.CountBySeverity(snapshot.SeverityHigh),
		report.CountBySeverity(snapshot.SeverityMedium),
		report.CountBySeverity(snapshot.SeverityLow))

	if high := report.CountBySeverity(snapshot.SeverityHigh); high > 0 {
		os.Exit(exitCode(high))
	}
	return nil
}
