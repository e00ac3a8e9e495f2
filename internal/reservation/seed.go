package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/spaazm/flight-reservation/internal/model"
	"github.com/spaazm/flight-reservation/internal/repository"
)

// Flight-name and departure-slot pairs: every route gets one flight
// per slot per day.
var (
	seedNames = []string{"Sky Express", "Cloud Nine", "Wind Jet", "Star Flight", "Thunder Express"}
	seedTimes = []string{"06:00", "10:00", "14:00", "18:00", "21:00"}
)

// insertChunk bounds the row count of a single multi-row INSERT.
const insertChunk = 500

// SeedCatalog deterministically generates the flight schedule when the
// catalog is empty: every directed pair of the reference cities is a
// route, each route receives one flight per name/time slot per day for
// `days` upcoming days starting from `from`.  Flight numbers run
// SP1001 upward and the base price derives from the running counter,
// so reseeding an emptied store reproduces the same schedule shape.
// The call is idempotent: a non-empty catalog is left untouched.  It
// returns the number of rows generated.
func SeedCatalog(ctx context.Context, catalog Catalog, from time.Time, days int) (int, error) {
	count, err := catalog.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	entries := make([]repository.CatalogEntry, 0, insertChunk)
	seeded := 0
	counter := 1001
	for day := 0; day < days; day++ {
		date := from.AddDate(0, 0, day).Format(model.DateLayout)
		for _, source := range referenceCities {
			for _, destination := range referenceCities {
				if source == destination {
					continue
				}
				// Pseudo distance-based fare, fixed per route-day.
				basePrice := float64(2500 + (counter*37)%4500)
				for slot := range seedNames {
					entries = append(entries, repository.CatalogEntry{
						FlightNumber:  fmt.Sprintf("SP%d", counter),
						FlightName:    seedNames[slot],
						Source:        source,
						Destination:   destination,
						Date:          date,
						DepartureTime: date + " " + seedTimes[slot],
						BasePrice:     basePrice,
					})
					counter++
					if len(entries) == insertChunk {
						if err := catalog.InsertBatch(ctx, entries); err != nil {
							return seeded, err
						}
						seeded += len(entries)
						entries = entries[:0]
					}
				}
			}
		}
	}
	if err := catalog.InsertBatch(ctx, entries); err != nil {
		return seeded, err
	}
	return seeded + len(entries), nil
}
