package planar

import "github.com/assetplan/assetmap-core/internal/location"

// PanMargin is the soft padding, in coordinate units, added around the
// image extent in every direction. Viewers use it to limit how far the
// map can be panned away from the image. It never constrains where a
// device may be placed.
const PanMargin = 200

// Position is a point in the planar coordinate space.
// Lat is the vertical (Y, upward) axis, Lng the horizontal (X, rightward) axis.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is an axis-aligned rectangle in the planar space.
type Bounds struct {
	SouthWest Position `json:"south_west"`
	NorthEast Position `json:"north_east"`
}

// Extent returns the coordinate bounds covered by a location's floor-plan
// image: south-west corner at (0,0), north-east at (height, width).
func Extent(loc *location.Location) Bounds {
	return Bounds{
		SouthWest: Position{Lat: 0, Lng: 0},
		NorthEast: Position{Lat: float64(loc.Height), Lng: float64(loc.Width)},
	}
}

// PanBounds returns the extent padded by PanMargin in every direction.
// This is a soft viewer boundary only.
func PanBounds(loc *location.Location) Bounds {
	return Bounds{
		SouthWest: Position{Lat: -PanMargin, Lng: -PanMargin},
		NorthEast: Position{
			Lat: float64(loc.Height) + PanMargin,
			Lng: float64(loc.Width) + PanMargin,
		},
	}
}

// PositionFromClick maps a raw click coordinate to a device position.
// The rendering layer already reports clicks in the planar space, so
// this is an identity mapping with no rounding.
func PositionFromClick(lat, lng float64) Position {
	return Position{Lat: lat, Lng: lng}
}

// Contains reports whether p lies within b (inclusive edges).
func (b Bounds) Contains(p Position) bool {
	return p.Lat >= b.SouthWest.Lat && p.Lat <= b.NorthEast.Lat &&
		p.Lng >= b.SouthWest.Lng && p.Lng <= b.NorthEast.Lng
}
