package snapshot

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hautdesert/chipsafe/internal/game"
)

// Severity ranks how much a snapshot difference matters. High differences
// mean the two runs disagree about where chips went; those are the ones a
// regression gate fails on.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	return [...]string{"low", "medium", "high"}[s]
}

// Difference is one field that disagrees between two runs of the same hand.
type Difference struct {
	Key      string // tableID/hand-file
	Field    string
	Severity Severity
	A, B     string
}

func (d Difference) String() string {
	return fmt.Sprintf("[%s] %s %s: %s != %s", strings.ToUpper(d.Severity.String()), d.Key, d.Field, d.A, d.B)
}

// Report is the outcome of comparing two snapshot directories.
type Report struct {
	Compared    int
	Differences []Difference
}

// CountBySeverity returns how many differences carry the given severity.
func (r Report) CountBySeverity(s Severity) int {
	n := 0
	for _, d := range r.Differences {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// CompareDirs diffs every hand snapshot present in either directory. Hands
// present on only one side count as high-severity differences.
func CompareDirs(dirA, dirB string) (Report, error) {
	filesA, err := listSnapshots(dirA)
	if err != nil {
		return Report{}, err
	}
	filesB, err := listSnapshots(dirB)
	if err != nil {
		return Report{}, err
	}

	keys := make(map[string]bool, len(filesA)+len(filesB))
	for k := range filesA {
		keys[k] = true
	}
	for k := range filesB {
		keys[k] = true
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	var report Report
	for _, key := range sorted {
		pathA, okA := filesA[key]
		pathB, okB := filesB[key]
		if !okA || !okB {
			report.Differences = append(report.Differences, Difference{
				Key: key, Field: "presence", Severity: SeverityHigh,
				A: presentIf(okA), B: presentIf(okB),
			})
			continue
		}
		stateA, err := Load(pathA)
		if err != nil {
			return report, err
		}
		stateB, err := Load(pathB)
		if err != nil {
			return report, err
		}
		report.Compared++
		report.Differences = append(report.Differences, diffStates(key, stateA, stateB)...)
	}
	return report, nil
}

func presentIf(ok bool) string {
	if ok {
		return "present"
	}
	return "missing"
}

// listSnapshots maps tableID/filename to full path for every hand snapshot.
func listSnapshots(dir string) (map[string]string, error) {
	files := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasPrefix(d.Name(), "hand-") || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = path
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return files, nil
}

// diffStates compares two runs of the same hand. Chip placement, phase, and
// board are high severity; betting detail is medium; the rest is low.
func diffStates(key string, a, b game.TableState) []Difference {
	var diffs []Difference
	add := func(field string, sev Severity, va, vb any) {
		sa, sb := fmt.Sprintf("%v", va), fmt.Sprintf("%v", vb)
		if sa != sb {
			diffs = append(diffs, Difference{Key: key, Field: field, Severity: sev, A: sa, B: sb})
		}
	}

	add("phase", SeverityHigh, a.Phase, b.Phase)
	add("community", SeverityHigh, a.Community, b.Community)
	add("baseline", SeverityHigh, a.Baseline, b.Baseline)
	add("payouts", SeverityHigh, a.Payouts, b.Payouts)
	add("pots", SeverityHigh, a.Pots, b.Pots)
	add("frozen", SeverityHigh, a.Frozen, b.Frozen)

	add("dealerSeat", SeverityMedium, a.DealerSeat, b.DealerSeat)
	add("turnSeat", SeverityMedium, a.TurnSeat, b.TurnSeat)
	add("currentBet", SeverityMedium, a.CurrentBet, b.CurrentBet)

	seatsA := seatsByNumber(a.Seats)
	seatsB := seatsByNumber(b.Seats)
	for _, seat := range sortedSeats(seatsA, seatsB) {
		sa, okA := seatsA[seat]
		sb, okB := seatsB[seat]
		switch {
		case !okB:
			add(fmt.Sprintf("seat[%d]", seat), SeverityHigh, sa.PlayerID, "empty")
		case !okA:
			add(fmt.Sprintf("seat[%d]", seat), SeverityHigh, "empty", sb.PlayerID)
		default:
			prefix := fmt.Sprintf("seat[%d].", seat)
			add(prefix+"player", SeverityHigh, sa.PlayerID, sb.PlayerID)
			add(prefix+"chips", SeverityHigh, sa.Chips, sb.Chips)
			add(prefix+"betThisRound", SeverityMedium, sa.BetThisRound, sb.BetThisRound)
			add(prefix+"totalBetThisHand", SeverityMedium, sa.TotalBetThisHand, sb.TotalBetThisHand)
			add(prefix+"status", SeverityLow, sa.Status, sb.Status)
		}
	}
	return diffs
}

// sortedSeats returns every seat number present on either side, ascending,
// so reports list seats in a stable order.
func sortedSeats(a, b map[int]game.SeatDiagnostic) []int {
	seen := make(map[int]bool, len(a)+len(b))
	var seats []int
	for seat := range a {
		seen[seat] = true
		seats = append(seats, seat)
	}
	for seat := range b {
		if !seen[seat] {
			seats = append(seats, seat)
		}
	}
	sort.Ints(seats)
	return seats
}

func seatsByNumber(seats []game.SeatDiagnostic) map[int]game.SeatDiagnostic {
	m := make(map[int]game.SeatDiagnostic, len(seats))
	for _, s := range seats {
		m[s.Seat] = s
	}
	return m
}
