package device

import (
	"context"
	"errors"
	"fmt"
)

// Seed inserts the given devices, skipping any whose ID already exists.
// Used to load demo or migration data on first run; safe to repeat.
//
// Returns the number of devices actually inserted.
func Seed(ctx context.Context, repo Repository, devices []Device) (int, error) {
	inserted := 0
	for i := range devices {
		d := devices[i]
		if err := ValidateDevice(&d); err != nil {
			return inserted, fmt.Errorf("seed device %q: %w", d.Name, err)
		}
		err := repo.Create(ctx, &d)
		if err != nil {
			if errors.Is(err, ErrDeviceExists) {
				continue
			}
			return inserted, fmt.Errorf("seeding device %s: %w", d.ID, err)
		}
		inserted++
	}
	return inserted, nil
}
