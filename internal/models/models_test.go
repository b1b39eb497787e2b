package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseRemoteTime_layouts(t *testing.T) {
	got, ok := ParseRemoteTime("2024-05-01T12:30:00+03:00")
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), got)

	got, ok = ParseRemoteTime("2024-05-01T12:30:00")
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC), got)

	got, ok = ParseRemoteTime("2024-05-01 12:30:00")
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC), got)
}

func TestParseRemoteTime_garbage(t *testing.T) {
	for _, s := range []string{"", "  ", "yesterday", "01.05.2024"} {
		_, ok := ParseRemoteTime(s)
		require.False(t, ok, "input %q", s)
	}
}

func TestRecord_Operator_blankFallsBack(t *testing.T) {
	require.Equal(t, "Ivan", Record{OperatorName: "Ivan"}.Operator())
	require.Equal(t, UnknownOperator, Record{}.Operator())
	require.Equal(t, UnknownOperator, Record{OperatorName: "   "}.Operator())
}

func TestTimeWindow_normalizeInverted(t *testing.T) {
	from := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	inverted := TimeWindow{From: &from, To: &to}
	straight := TimeWindow{From: &to, To: &from}

	inside := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	outside := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

	require.True(t, inverted.Contains(inside))
	require.True(t, straight.Contains(inside))
	require.False(t, inverted.Contains(outside))
	require.False(t, straight.Contains(outside))
}

func TestTimeWindow_openBounds(t *testing.T) {
	ts := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	require.True(t, TimeWindow{}.Contains(ts))

	from := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	require.False(t, TimeWindow{From: &from}.Contains(ts))
	require.True(t, TimeWindow{To: &from}.Contains(ts))
}

func TestTimeWindow_boundsInclusive(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	w := TimeWindow{From: &from, To: &to}
	require.True(t, w.Contains(from))
	require.True(t, w.Contains(to))
}

func TestResolveRole(t *testing.T) {
	require.Equal(t, RoleAdmin, ResolveRole("Admin", 0))
	require.Equal(t, RoleSupervisor, ResolveRole("manager", 0))
	require.Equal(t, RoleOperator, ResolveRole("user", 99))
	require.Equal(t, RoleAdmin, ResolveRole("", 10))
	require.Equal(t, RoleSupervisor, ResolveRole("", 5))
	require.Equal(t, RoleOperator, ResolveRole("", 0))
	require.Equal(t, RoleOperator, ResolveRole("weird", -3))
}
