// Package geometry re-projects bounding boxes under the mirror and
// half-split transforms applied to their images.
//
// All functions are pure: they never validate boxes against the image size
// and never modify their input.
package geometry

import "github.com/menta2k/image-augmenter/pkg/types"

// Mirror reflects every box about the vertical centerline of an image of
// the given dimensions. Applying it twice with the same width is the identity.
func Mirror(a types.Annotation, d types.Dimensions) types.Annotation {
	width := float64(d.Width)
	out := make(types.Annotation, 0, len(a))
	for _, b := range a {
		out = append(out, types.BoundingBox{
			X1:       width - b.X2,
			Y1:       b.Y1,
			X2:       width - b.X1,
			Y2:       b.Y2,
			Category: b.Category,
		})
	}
	return out
}

// Split divides the boxes between the left and right halves of the image.
// Each result is expressed in the local coordinates of its half.
//
// A box touching or crossing the centerline (x1 <= middle <= x2) is cut in
// two, so a box starting exactly on the centerline yields a zero-width
// sliver on the left.
func Split(a types.Annotation, d types.Dimensions) (left, right types.Annotation) {
	middle := d.Middle()
	left = types.Annotation{}
	right = types.Annotation{}
	for _, b := range a {
		switch {
		case b.X1 <= middle && middle <= b.X2:
			left = append(left, types.BoundingBox{X1: b.X1, Y1: b.Y1, X2: middle, Y2: b.Y2, Category: b.Category})
			right = append(right, types.BoundingBox{X1: 0, Y1: b.Y1, X2: b.X2 - middle, Y2: b.Y2, Category: b.Category})
		case b.X2 <= middle:
			left = append(left, b)
		default:
			right = append(right, types.BoundingBox{X1: b.X1 - middle, Y1: b.Y1, X2: b.X2 - middle, Y2: b.Y2, Category: b.Category})
		}
	}
	return left, right
}

// MirrorThenSplit returns the split annotations of the mirrored image.
func MirrorThenSplit(a types.Annotation, d types.Dimensions) (left, right types.Annotation) {
	return Split(Mirror(a, d), d)
}
