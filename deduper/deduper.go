package deduper

import (
	"context"
	"sync"

	"github.com/gosom/localrank/entities"
)

// Deduper tracks place IDs that have already been seen. Inputs for a ranking
// run may come from several files or tables that overlap.
type Deduper interface {
	AddIfNotExists(context.Context, string) bool
}

func New() Deduper {
	return &hashmap{
		seen: make(map[uint64]struct{}),
		mux:  &sync.RWMutex{},
	}
}

// MergePlaces concatenates the given slices keeping only the first occurrence
// of each place ID. Input order is preserved.
func MergePlaces(ctx context.Context, d Deduper, batches ...[]entities.Place) []entities.Place {
	var ans []entities.Place

	for _, batch := range batches {
		for i := range batch {
			if d.AddIfNotExists(ctx, batch[i].ID) {
				ans = append(ans, batch[i])
			}
		}
	}

	return ans
}
