package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:30", 510, false},
		{"23:59", 1439, false},
		{" 10:05 ", 605, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"walking", "transit", "driving"} {
		mode, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, Mode(s), mode)
	}

	_, err := ParseMode("teleport")
	assert.Error(t, err)
}

func TestLoadMarkets(t *testing.T) {
	path := writeFile(t, "places.json", `[
		{"id": 1, "Name": "Naschmarkt", "Opens": "06:00", "Closes": "19:30", "latitude": 48.19, "longitude": 16.36},
		{"id": 2, "Name": "Karmelitermarkt", "Opens": "08:00", "Closes": "18:00"}
	]`)

	markets, err := LoadMarkets(path)
	require.NoError(t, err)
	require.Len(t, markets, 2)

	m := markets[1]
	assert.Equal(t, "Naschmarkt", m.Name)
	assert.Equal(t, 360, m.Opens)
	assert.Equal(t, 1170, m.Closes)
	assert.InDelta(t, 48.19, m.Lat, 1e-9)

	// Missing coordinates load as zero.
	assert.Zero(t, markets[2].Lat)
	assert.Zero(t, markets[2].Lon)
}

func TestLoadMarkets_InvalidClock(t *testing.T) {
	path := writeFile(t, "places.json", `[{"id": 1, "Name": "X", "Opens": "soon", "Closes": "18:00"}]`)

	_, err := LoadMarkets(path)
	assert.Error(t, err)
}

func TestLoadMarkets_MissingFile(t *testing.T) {
	_, err := LoadMarkets(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadTravelTimes(t *testing.T) {
	path := writeFile(t, "travel.json", `{
		"1": {"2": {"walking": 600, "driving": 120}},
		"2": {"1": {"walking": 659, "driving": 90}}
	}`)

	walking, err := LoadTravelTimes(path, ModeWalking)
	require.NoError(t, err)
	assert.Equal(t, 10, walking.Get(1, 2))
	// Seconds truncate to whole minutes.
	assert.Equal(t, 10, walking.Get(2, 1))

	driving, err := LoadTravelTimes(path, ModeDriving)
	require.NoError(t, err)
	assert.Equal(t, 2, driving.Get(1, 2))
	assert.Equal(t, 1, driving.Get(2, 1))
}

func TestLoadTravelTimes_BadKey(t *testing.T) {
	path := writeFile(t, "travel.json", `{"one": {"2": {"walking": 60}}}`)

	_, err := LoadTravelTimes(path, ModeWalking)
	assert.Error(t, err)
}
