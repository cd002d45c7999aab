// Package model contains the mind map graph model: nodes, edges and the
// document aggregate that owns them.
package model

import (
	"fmt"

	"mentis/geometry"
)

// Color is an RGB triple. Nodes reference colors by value; a nil *Color on a
// node means "use the document default".
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the color in #rrggbb form.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ArrowMode controls arrow-head rendering on an edge.
type ArrowMode int

const (
	ArrowNone ArrowMode = iota
	ArrowSingle
	ArrowDouble
)

// String returns the arrow mode name for display and serialization.
func (a ArrowMode) String() string {
	switch a {
	case ArrowNone:
		return "none"
	case ArrowSingle:
		return "single"
	case ArrowDouble:
		return "double"
	default:
		return "unknown"
	}
}

// Node is a positioned, styled vertex in the mind map graph. The document
// exclusively owns all Node instances; the scene holds non-owning references.
type Node struct {
	Index        int             `json:"index"`
	Text         string          `json:"text"`
	Position     geometry.Point  `json:"position"`
	Color        *Color          `json:"color,omitempty"`     // nil = document default
	TextColor    *Color          `json:"textColor,omitempty"` // nil = document default
	ImagePath    string          `json:"imagePath,omitempty"`
	Size         geometry.Size   `json:"size"`
	CornerRadius float64         `json:"cornerRadius"`
}

// Rect returns the node's bounding rectangle, centered on its position.
func (n *Node) Rect() geometry.Rect {
	return geometry.Rect{
		X:      n.Position.X - n.Size.Width/2,
		Y:      n.Position.Y - n.Size.Height/2,
		Width:  n.Size.Width,
		Height: n.Size.Height,
	}
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	clone := *n
	if n.Color != nil {
		c := *n.Color
		clone.Color = &c
	}
	if n.TextColor != nil {
		c := *n.TextColor
		clone.TextColor = &c
	}
	return &clone
}

// Edge is a directed, styled connection between two nodes, identified by its
// endpoint indices. Direction matters for arrow rendering.
type Edge struct {
	SourceIndex int       `json:"source"`
	TargetIndex int       `json:"target"`
	ArrowMode   ArrowMode `json:"arrowMode"`
	Dashed      bool      `json:"dashed,omitempty"`
	Label       string    `json:"label,omitempty"`
	Width       float64   `json:"width"`
}

// Defaults holds the document-level style defaults that nodes and edges fall
// back to when they carry no override of their own.
type Defaults struct {
	BackgroundColor Color     `json:"backgroundColor"`
	EdgeColor       Color     `json:"edgeColor"`
	GridColor       Color     `json:"gridColor"`
	NodeColor       Color     `json:"nodeColor"`
	TextColor       Color     `json:"textColor"`
	CornerRadius    float64   `json:"cornerRadius"`
	EdgeWidth       float64   `json:"edgeWidth"`
	TextSize        float64   `json:"textSize"`
	GridSize        float64   `json:"gridSize"`
	ArrowMode       ArrowMode `json:"arrowMode"`
}

// DefaultStyle returns the defaults applied to a freshly initialized document.
func DefaultStyle() Defaults {
	return Defaults{
		BackgroundColor: Color{R: 0xff, G: 0xff, B: 0xff},
		EdgeColor:       Color{R: 0x00, G: 0x00, B: 0x00},
		GridColor:       Color{R: 0xd0, G: 0xd0, B: 0xd0},
		NodeColor:       Color{R: 0xff, G: 0xff, B: 0xff},
		TextColor:       Color{R: 0x00, G: 0x00, B: 0x00},
		CornerRadius:    5,
		EdgeWidth:       2,
		TextSize:        11,
		GridSize:        20,
		ArrowMode:       ArrowSingle,
	}
}
