package sprint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAnchorNormalizesToMonday(t *testing.T) {
	cases := map[string]string{
		"2026-01-05": "2026-01-05",
		"2026-01-07": "2026-01-05",
		"2026-01-11": "2026-01-05",
		"2026-01-12": "2026-01-12",
	}
	for in, want := range cases {
		assert.Equal(t, date(want), Anchor(date(in)), in)
	}
	late := time.Date(2026, 1, 11, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	assert.Equal(t, date("2026-01-05"), Anchor(late), "converted to UTC first")
}

func TestGenerate(t *testing.T) {
	windows := Generate(date("2026-01-07"), 3)
	require.Len(t, windows, 3)
	assert.Equal(t, "Sprint 1", windows[0].Name)
	assert.Equal(t, date("2026-01-05"), windows[0].Start)
	assert.Equal(t, date("2026-01-11"), windows[0].End)
	assert.Equal(t, date("2026-01-19"), windows[2].Start)
	assert.Equal(t, 3, windows[2].Number)

	assert.Empty(t, Generate(date("2026-01-05"), 0))
	assert.NotNil(t, Generate(date("2026-01-05"), -1))
	assert.Len(t, Generate(date("2026-01-05"), 500), MaxCount)
}

func TestCurrent(t *testing.T) {
	anchor := date("2026-01-05")
	w, err := Current(anchor, time.Date(2026, 1, 11, 23, 59, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, w.Number)

	w, err = Current(anchor, date("2026-01-12"))
	require.NoError(t, err)
	assert.Equal(t, 2, w.Number)

	w, err = Current(anchor, date("2026-10-19"))
	require.NoError(t, err)
	assert.Equal(t, 42, w.Number)
	assert.True(t, Contains(w, date("2026-10-19")))

	_, err = Current(anchor, date("2026-01-04"))
	assert.ErrorIs(t, err, ErrBeforeAnchor)
}

func TestCurrentWithDistantAnchor(t *testing.T) {
	for _, raw := range []string{"1700-01-04", "1000-06-15", "0001-01-01"} {
		anchor, err := ParseAnchor(raw)
		require.NoError(t, err)
		for _, now := range []time.Time{date("2026-10-19"), time.Date(2026, 10, 25, 23, 59, 59, 0, time.UTC)} {
			w, err := Current(anchor, now)
			require.NoError(t, err, raw)
			assert.True(t, Contains(w, now), "anchor %s now %s got %s..%s", raw, now, w.Start, w.End)
			assert.Equal(t, time.Monday, w.Start.Weekday())
		}
	}
}

func TestContainsIsInclusive(t *testing.T) {
	w := At(date("2026-01-05"), 1)
	assert.True(t, Contains(w, date("2026-01-05")))
	assert.True(t, Contains(w, time.Date(2026, 1, 11, 18, 0, 0, 0, time.UTC)))
	assert.False(t, Contains(w, date("2026-01-12")))
	assert.False(t, Contains(w, date("2026-01-04")))
}

func TestParseAnchor(t *testing.T) {
	a, err := ParseAnchor("2026-01-08")
	require.NoError(t, err)
	assert.Equal(t, date("2026-01-05"), a)

	_, err = ParseAnchor("08/01/2026")
	assert.Error(t, err)
}
