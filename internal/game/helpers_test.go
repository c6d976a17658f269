package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// seatPlayers fills a ledger with n players of stack chips each, seats 0..n-1.
func seatPlayers(t *testing.T, l *Ledger, n int, chips int64) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := l.Admit(playerName(i), i, chips)
		require.NoError(t, err)
	}
}

func playerName(i int) string {
	return string(rune('a' + i))
}

// bet moves amount from a player's stack into their bet counters.
func bet(t *testing.T, l *Ledger, id string, amount int64) {
	t.Helper()
	require.NoError(t, l.Debit(id, amount))
}

// fold marks a player folded.
func fold(t *testing.T, l *Ledger, id string) {
	t.Helper()
	require.NoError(t, l.SetStatus(id, StatusFolded))
}
