package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalConfig = `
[database]
dbname = "appointments"

[catalog]
url = "http://catalog:8081"
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 30, cfg.Booking.MaxAdvanceDays)
	assert.Equal(t, 3, cfg.Booking.MaxDailyBookings)
	assert.Equal(t, 30, cfg.Booking.SlotStepMinutes)
	assert.Equal(t, 5*time.Second, cfg.Catalog.TimeoutDuration())

	policy, err := cfg.Booking.Policy()
	require.NoError(t, err)
	assert.Nil(t, policy.ShopHours)
	assert.Equal(t, time.UTC, policy.Location)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("CATALOG_URL", "http://catalog.internal")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "http://catalog.internal", cfg.Catalog.URL)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
}

func TestLoad_ShopHours(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
[booking]
timezone = "Europe/Moscow"

[booking.shop_hours]
enabled = true
open = "09:00"
close = "18:00"
closed_weekdays = ["sunday", "Saturday"]
holidays = ["2026-12-25"]
`))
	require.NoError(t, err)

	policy, err := cfg.Booking.Policy()
	require.NoError(t, err)
	require.NotNil(t, policy.ShopHours)

	assert.Equal(t, "Europe/Moscow", policy.Location.String())
	assert.Equal(t, types.MustParseClockTime("09:00"), policy.ShopHours.Hours.Start)
	assert.Equal(t, types.MustParseClockTime("18:00"), policy.ShopHours.Hours.End)
	assert.Equal(t, []time.Weekday{time.Sunday, time.Saturday}, policy.ShopHours.ClosedWeekdays)
	require.Len(t, policy.ShopHours.Holidays, 1)
	assert.Equal(t, time.December, policy.ShopHours.Holidays[0].Month())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing catalog url", "[database]\ndbname = \"x\"\n"},
		{"bad slot step", minimalConfig + "[booking]\nslot_step_minutes = 1\n"},
		{"bad timezone", minimalConfig + "[booking]\ntimezone = \"Mars/Olympus\"\n"},
		{"bad weekday", minimalConfig + "[booking.shop_hours]\nenabled = true\nclosed_weekdays = [\"funday\"]\n"},
		{"close before open", minimalConfig + "[booking.shop_hours]\nenabled = true\nopen = \"18:00\"\nclose = \"09:00\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), err.Error())
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
