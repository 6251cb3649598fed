package dialface

import (
	"encoding/json"
	"fmt"
)

// descriptorVersion is the only face.json version this renderer loads.
const descriptorVersion = "1"

// defaultUpdateIntervalMS is the tick period used when a descriptor doesn't
// configure one (or configures a non-positive one).
const defaultUpdateIntervalMS = 1000

// Descriptor is a parsed face.json. Immutable after ParseDescriptor; item
// order defines draw order and is preserved.
type Descriptor struct {
	Version          string      `json:"version"`
	UpdateIntervalMS int         `json:"update_interval_ms"`
	SmoothHandles    bool        `json:"smooth_handles"`
	Background       *Background `json:"background"`
	Items            []Item      `json:"items"`
}

// Background configures the face backdrop: a solid color, an image, or both.
// When an image is set it becomes the positioning root for all items.
type Background struct {
	Color string `json:"color"`
	Image string `json:"image"`
}

// Item is one renderable element. Type selects which fields apply; unknown
// types are skipped at load, not rejected, so newer descriptors still render
// best-effort on older renderers.
type Item struct {
	Type string `json:"type"`

	// Common placement
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Align string `json:"align"`

	// label
	Text      string            `json:"text"`
	Color     string            `json:"color"`
	TextAlign string            `json:"textalign"`
	Font      string            `json:"font"`
	FontSize  int               `json:"font_size"`
	ImageFont map[string]string `json:"imagefont"`
	Path      string            `json:"path"` // imagefont glyph directory override

	// image / gif
	File string `json:"file"`

	// handle
	Image    string   `json:"image"`
	PivotX   int      `json:"pivot_x"`
	PivotY   int      `json:"pivot_y"`
	Source   string   `json:"source"`
	MinValue *float64 `json:"min_value"`
	MaxValue *float64 `json:"max_value"`
	MinAngle *float64 `json:"min_angle"`
	MaxAngle *float64 `json:"max_angle"`
}

// ItemKind is the closed set of item types this renderer builds.
type ItemKind uint8

const (
	ItemUnknown ItemKind = iota
	ItemLabel
	ItemImage
	ItemGif
	ItemHandle
)

// Kind maps the item's type string to its ItemKind.
func (it *Item) Kind() ItemKind {
	switch it.Type {
	case "label":
		return ItemLabel
	case "image":
		return ItemImage
	case "gif":
		return ItemGif
	case "handle":
		return ItemHandle
	default:
		return ItemUnknown
	}
}

// HandleRange resolves the indicator range: the source's defaults with any
// per-field descriptor overrides applied.
func (it *Item) HandleRange(source HandleSource) HandleRange {
	r := source.DefaultRange()
	if it.MinValue != nil {
		r.MinValue = *it.MinValue
	}
	if it.MaxValue != nil {
		r.MaxValue = *it.MaxValue
	}
	if it.MinAngle != nil {
		r.MinAngle = *it.MinAngle
	}
	if it.MaxAngle != nil {
		r.MaxAngle = *it.MaxAngle
	}
	return r
}

// ParseDescriptor decodes and validates face.json data.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("dialface: invalid face descriptor: %w", err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// validate enforces the version gate and normalizes the update interval.
func (d *Descriptor) validate() error {
	if d.Version != descriptorVersion {
		return fmt.Errorf("dialface: unsupported descriptor version %q", d.Version)
	}
	if d.UpdateIntervalMS <= 0 {
		d.UpdateIntervalMS = defaultUpdateIntervalMS
	}
	return nil
}
