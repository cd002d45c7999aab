// Package export renders the scene's item set to image files: rasterized PNG
// at caller-specified pixel dimensions and vector SVG with one element per
// visual item.
package export

import (
	"fmt"

	"mentis/model"
	"mentis/scene"
)

// Format represents an export format.
type Format string

const (
	// FormatPNG exports a rasterized image.
	FormatPNG Format = "png"
	// FormatSVG exports a vector file.
	FormatSVG Format = "svg"
)

// Options controls export output.
type Options struct {
	// Width and Height are the output pixel dimensions. For SVG they define
	// the viewport.
	Width  int
	Height int
	// TransparentBackground skips the background fill (PNG only; SVG simply
	// omits the background rect).
	TransparentBackground bool
	// Title is embedded as document metadata where the format supports it.
	Title string
	// Progress is invoked at rendering checkpoints. May be nil.
	Progress func()
}

// Exporter renders a scene to a file in one format.
type Exporter interface {
	// Export renders the scene's items styled by the document defaults.
	Export(s *scene.Scene, defaults model.Defaults, opts Options, path string) error
	// FileExtension returns the recommended file extension.
	FileExtension() string
	// FormatName returns a human-readable format name.
	FormatName() string
}

// NewExporter creates an exporter for the specified format.
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatPNG:
		return NewPNGExporter(), nil
	case FormatSVG:
		return NewSVGExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "png":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}
