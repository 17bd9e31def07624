package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("08:00")
	require.NoError(t, err)
	assert.Equal(t, "08:00", ts.String())

	_, err = NewTimeStringFromString("24:00")
	require.Error(t, err)

	_, err = NewTimeStringFromString("8am")
	require.Error(t, err)
}

func TestMinutes(t *testing.T) {
	minutes, err := TimeString("14:30").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 14*60+30, minutes)

	_, err = TimeString("garbage").Minutes()
	require.Error(t, err)
}

func TestAddMinutes(t *testing.T) {
	ts, err := TimeString("22:30").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("23:30"), ts)

	// Выход за границы суток
	_, err = TimeString("23:30").AddMinutes(60)
	require.Error(t, err)
}

func TestComparisons(t *testing.T) {
	assert.True(t, TimeString("08:00").IsBefore("09:00"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))
	assert.True(t, TimeString("10:00").IsAfter("09:59"))
	assert.False(t, TimeString("bad").IsBefore("09:00"))
}

func TestScan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:00"))
	assert.Equal(t, TimeString("10:00"), ts)

	// time колонки приходят с секундами
	require.NoError(t, ts.Scan("10:00:00"))
	assert.Equal(t, TimeString("10:00"), ts)

	require.NoError(t, ts.Scan([]byte("11:30")))
	assert.Equal(t, TimeString("11:30"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 1, 1, 9, 15, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("09:15"), ts)

	require.Error(t, ts.Scan(42))
}

func TestValue(t *testing.T) {
	v, err := TimeString("10:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:00", v)
}
