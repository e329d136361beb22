// Package planar defines the flat, image-relative coordinate space used
// to place device markers on a location's floor-plan image.
//
// The space is not geographic. Its origin is the south-west (bottom-left)
// corner of the image: Lat is the vertical axis increasing upward and is
// bounded by the image height, Lng is the horizontal axis increasing
// rightward and is bounded by the image width. Stored device positions
// are expressed in this space, so the axis ordering must never change.
//
// The package is purely geometric bookkeeping. It never validates a
// position against a location's extent; out-of-bounds placement is a
// deliberate permissive policy enforced nowhere.
package planar
