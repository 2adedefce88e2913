package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLocation(t *testing.T) {
	assert.Equal(t, time.UTC, LoadLocation(""))
	assert.Equal(t, time.UTC, LoadLocation("Not/AZone"))

	loc := LoadLocation("America/Sao_Paulo")
	require.NotNil(t, loc)
	assert.Equal(t, "America/Sao_Paulo", loc.String())
}

func TestNow(t *testing.T) {
	loc := LoadLocation("America/Sao_Paulo")
	got := Now(loc)
	assert.Equal(t, loc, got.Location())

	// nil location falls back to UTC
	assert.Equal(t, time.UTC, Now(nil).Location())
}

func TestParse(t *testing.T) {
	const layout = "2006-01-02 15:04:05"

	got, err := Parse("2024-03-01 10:30:00", layout)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), got)

	_, err = Parse("01/03/2024", layout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), layout)
}
