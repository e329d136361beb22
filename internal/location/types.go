package location

import "time"

// Location represents a physical site or floor with an associated
// floor-plan image. Width and Height declare the planar coordinate
// bounds [0,width] x [0,height] used for marker placement.
//
// Locations are immutable after seeding.
type Location struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MapImageURL string    `json:"map_image_url"`
	Width       int64     `json:"width"`
	Height      int64     `json:"height"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
