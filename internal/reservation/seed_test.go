package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaazm/flight-reservation/internal/repository"
)

func TestSeedCatalogGeneratesSchedule(t *testing.T) {
	catalog := &fakeCatalog{}
	from := time.Date(2026, 4, 1, 8, 30, 0, 0, time.Local)

	n, err := SeedCatalog(context.Background(), catalog, from, 2)
	require.NoError(t, err)

	// 10 cities -> 90 directed routes, 5 slots each, 2 days.
	assert.Equal(t, 2*90*5, n)
	require.Len(t, catalog.entries, n)

	first := catalog.entries[0]
	assert.Equal(t, "SP1001", first.FlightNumber)
	assert.Equal(t, "Sky Express", first.FlightName)
	assert.Equal(t, "Mumbai", first.Source)
	assert.Equal(t, "Delhi", first.Destination)
	assert.Equal(t, "2026-04-01", first.Date)
	assert.Equal(t, "2026-04-01 06:00", first.DepartureTime)
	// Base price derives from the running counter: 2500 + (1001*37)%4500.
	assert.Equal(t, float64(2500+(1001*37)%4500), first.BasePrice)

	// All five slots of a route-day share the base price; the next
	// route starts a new counter run.
	for _, e := range catalog.entries[:5] {
		assert.Equal(t, first.BasePrice, e.BasePrice)
		assert.Equal(t, "Mumbai", e.Source)
	}
	assert.Equal(t, "SP1006", catalog.entries[5].FlightNumber)
	assert.Equal(t, float64(2500+(1006*37)%4500), catalog.entries[5].BasePrice)

	// Day two continues the counter instead of restarting it.
	dayTwo := catalog.entries[90*5]
	assert.Equal(t, "2026-04-02", dayTwo.Date)
	assert.Equal(t, "SP1451", dayTwo.FlightNumber)

	// No route maps a city onto itself and numbers never repeat.
	seen := map[string]bool{}
	for _, e := range catalog.entries {
		assert.NotEqual(t, e.Source, e.Destination)
		assert.False(t, seen[e.FlightNumber], "duplicate %s", e.FlightNumber)
		seen[e.FlightNumber] = true
	}
}

func TestSeedCatalogIsIdempotent(t *testing.T) {
	catalog := &fakeCatalog{entries: []repository.CatalogEntry{
		{FlightNumber: "SP1001", Date: "2026-04-01"},
	}}

	n, err := SeedCatalog(context.Background(), catalog, time.Now(), 30)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, catalog.entries, 1, "populated catalog is left untouched")
}
