package production

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInsertRunQueryOmitsAbsentTimestamps(t *testing.T) {
	run := Run{
		ProductID: "prod-fg",
		MachineID: "mach-active",
		Shift:     ShiftDay,
		CreatedBy: "user-1",
	}

	q, args := insertRunQuery(run)
	require.NotContains(t, q, "started_at")
	require.NotContains(t, q, "completed_at")
	require.Len(t, args, 11)
	require.Contains(t, q, "$11")
	require.NotContains(t, q, "$12")
}

func TestInsertRunQueryBindsProvidedTimestamps(t *testing.T) {
	started := time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)
	completed := started.Add(8 * time.Hour)
	run := Run{
		ProductID:   "prod-fg",
		MachineID:   "mach-active",
		Shift:       ShiftDay,
		StartedAt:   &started,
		CompletedAt: &completed,
	}

	q, args := insertRunQuery(run)
	require.Contains(t, q, "started_at")
	require.Contains(t, q, "completed_at")
	require.Len(t, args, 13)
	require.Equal(t, started, args[11])
	require.Equal(t, completed, args[12])

	// Placeholder count must track the column count.
	require.Equal(t, 13, strings.Count(q, "$"))
}
