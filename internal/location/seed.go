package location

import (
	"context"
	"errors"
	"fmt"
)

// Seed inserts the given locations, skipping any whose ID already
// exists. It is safe to run on every startup; the location set only
// grows when configuration adds new entries.
//
// Returns the number of locations actually inserted.
func Seed(ctx context.Context, repo Repository, locations []Location) (int, error) {
	inserted := 0
	for i := range locations {
		loc := locations[i]
		if loc.SortOrder == 0 {
			loc.SortOrder = i + 1
		}
		err := repo.Create(ctx, &loc)
		if err != nil {
			if errors.Is(err, ErrLocationExists) {
				continue
			}
			return inserted, fmt.Errorf("seeding location %s: %w", loc.ID, err)
		}
		inserted++
	}
	return inserted, nil
}
