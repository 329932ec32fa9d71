package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "hours and minutes", input: "19:00", want: "19:00"},
		{name: "postgres time with seconds", input: "09:30:00", want: "09:30"},
		{name: "surrounding spaces", input: " 11:15 ", want: "11:15"},
		{name: "invalid hour", input: "25:00", wantErr: true},
		{name: "garbage", input: "seven", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("19:00").AddMinutes(120)
	require.NoError(t, err)
	assert.Equal(t, TimeString("21:00"), got)

	_, err = TimeString("23:00").AddMinutes(60)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("10:59").IsBefore("11:00"))
	assert.False(t, TimeString("11:00").IsBefore("11:00"))
	assert.True(t, TimeString("22:01").IsAfter("22:00"))
	assert.False(t, TimeString("22:00").IsAfter("22:00"))
}

func TestTimeString_On(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	got, err := TimeString("19:30").On(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 19, 30, 0, 0, time.UTC), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("20:30:00"))
	assert.Equal(t, TimeString("20:30"), ts)

	require.NoError(t, ts.Scan([]byte("08:05")))
	assert.Equal(t, TimeString("08:05"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 13, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("13:45"), ts)

	assert.Error(t, ts.Scan(42))
}
