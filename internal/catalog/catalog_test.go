package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogYAML = `
timezone: "Europe/Berlin"

day_ticket:
  start: "2026-08-26"
  end: "2026-08-30"
  default_day: "2026-08-29"

ticket_levels:
  standard:
    label: "Standard"
    prices:
      full: 165
      day: 90
  sponsor:
    label: "Sponsor"
    prices:
      full: 285
      day: 210
    includes:
      - stage-pass

addons:
  stage-pass:
    price: 5
  tshirt:
    price: 25
    options:
      size:
        type: "select"
        items: ["S", "M", "L", "XL", "m3XL", "m4XL"]
  early:
    price: 15
    unavailable_for:
      types: ["day"]
  fursuit:
    price: 0
    default: true
  day-trip:
    price: 30
    unavailable: true
`

func writeTestCatalog(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogYAML), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	cat, err := Load(writeTestCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, "Europe/Berlin", cat.Location.String())
	assert.Len(t, cat.TicketLevels, 2)
	assert.Len(t, cat.Addons, 5)

	assert.Equal(t, 2026, cat.DefaultDay.Year())
	assert.Equal(t, time.August, cat.DefaultDay.Month())
	assert.Equal(t, 29, cat.DefaultDay.Day())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestCatalog_IncludesFree(t *testing.T) {
	cat, err := Load(writeTestCatalog(t))
	require.NoError(t, err)

	assert.True(t, cat.IncludesFree("sponsor", "stage-pass"))
	assert.False(t, cat.IncludesFree("standard", "stage-pass"))
	assert.False(t, cat.IncludesFree("sponsor", "tshirt"))
	assert.False(t, cat.IncludesFree("unknown-level", "stage-pass"))
}

func TestCatalog_UnavailableForType(t *testing.T) {
	cat, err := Load(writeTestCatalog(t))
	require.NoError(t, err)

	assert.True(t, cat.UnavailableForType("early", "day"))
	assert.False(t, cat.UnavailableForType("early", "full"))
	assert.False(t, cat.UnavailableForType("stage-pass", "day"))
	assert.False(t, cat.UnavailableForType("unknown-addon", "day"))
}

func TestCatalog_Price(t *testing.T) {
	cat, err := Load(writeTestCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, 165.0, cat.Price("standard", "full"))
	assert.Equal(t, 90.0, cat.Price("standard", "day"))
	assert.Equal(t, 285.0, cat.Price("sponsor", "full"))
	assert.Equal(t, 0.0, cat.Price("standard", "weekend"))
	assert.Equal(t, 0.0, cat.Price("unknown-level", "full"))
}

func TestCatalog_Days(t *testing.T) {
	cat, err := Load(writeTestCatalog(t))
	require.NoError(t, err)

	days := cat.Days()
	require.Len(t, days, 5)
	assert.Equal(t, 26, days[0].Day())
	assert.Equal(t, 30, days[4].Day())
}

func TestCatalog_DefaultAddonIDs(t *testing.T) {
	cat, err := Load(writeTestCatalog(t))
	require.NoError(t, err)

	// day-trip is default-less and unavailable; only fursuit qualifies.
	assert.Equal(t, []string{"fursuit"}, cat.DefaultAddonIDs())
}
