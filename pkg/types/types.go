package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
)

// Category is the opaque label of a bounding box. It keeps the raw JSON
// value (string or number) so labels round-trip without reinterpretation.
type Category json.RawMessage

// Label returns a string category.
func Label(s string) Category {
	b, _ := json.Marshal(s)
	return Category(b)
}

// String returns the label text for string categories and the raw JSON otherwise.
func (c Category) String() string {
	var s string
	if err := json.Unmarshal(c, &s); err == nil {
		return s
	}
	return string(c)
}

// BoundingBox is an axis-aligned box in pixel coordinates with a top-left origin.
// On the wire it is the array [x1, y1, x2, y2, category].
type BoundingBox struct {
	X1       float64
	Y1       float64
	X2       float64
	Y2       float64
	Category Category
}

// MarshalJSON encodes the box as a five element array.
func (b BoundingBox) MarshalJSON() ([]byte, error) {
	category := json.RawMessage(b.Category)
	if len(category) == 0 {
		category = json.RawMessage("null")
	}
	return json.Marshal([]any{b.X1, b.Y1, b.X2, b.Y2, category})
}

// UnmarshalJSON decodes a five element array.
func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("bounding box must be an array: %w", err)
	}
	if len(raw) != 5 {
		return fmt.Errorf("bounding box must have 5 elements, got %d", len(raw))
	}
	coords := make([]float64, 4)
	for i := range coords {
		if bytes.Equal(bytes.TrimSpace(raw[i]), []byte("null")) {
			return fmt.Errorf("bounding box coordinate %d is null", i)
		}
		if err := json.Unmarshal(raw[i], &coords[i]); err != nil {
			return fmt.Errorf("bounding box coordinate %d: %w", i, err)
		}
	}
	b.X1, b.Y1, b.X2, b.Y2 = coords[0], coords[1], coords[2], coords[3]
	b.Category = Category(bytes.TrimSpace(raw[4]))
	return nil
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 {
	return b.X2 - b.X1
}

// Annotation is the ordered list of boxes for one image. Order follows the
// source notation and is preserved by every transform.
type Annotation []BoundingBox

// MarshalJSON encodes an empty annotation as [] rather than null.
func (a Annotation) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]BoundingBox(a))
}

// Clone returns a copy that shares no backing array with a.
func (a Annotation) Clone() Annotation {
	out := make(Annotation, len(a))
	copy(out, a)
	return out
}

// Dimensions is the logical size of the source images of a dataset.
type Dimensions struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Middle returns the x coordinate of the vertical centerline.
func (d Dimensions) Middle() float64 {
	return float64(d.Width) / 2
}

// DatasetEntry is one line of the source notation.
type DatasetEntry struct {
	ImageReference string
	Annotation     Annotation
	// Line is the 1-based line of the source notation the entry came from.
	Line int
}

// DerivedEntry is an in-memory image/annotation pair produced by the expander.
type DerivedEntry struct {
	Image      image.Image
	Annotation Annotation
	// Path describes the transforms that produced the entry, e.g. "mirror/left".
	Path string
}

// NotationRecord is one line of the output notation: {filename: annotation}.
type NotationRecord struct {
	Filename   string
	Annotation Annotation
}
