package export

import (
	"fmt"
	"os"
	"strings"

	"mentis/geometry"
	"mentis/model"
	"mentis/scene"
	"mentis/version"
)

// SVGExporter writes a vector file with one shape or text element per visual
// item, plus title/description metadata identifying the producer.
type SVGExporter struct{}

// NewSVGExporter creates a new SVG exporter.
func NewSVGExporter() *SVGExporter {
	return &SVGExporter{}
}

// FileExtension returns the file extension for SVG.
func (e *SVGExporter) FileExtension() string {
	return ".svg"
}

// FormatName returns the format name.
func (e *SVGExporter) FormatName() string {
	return "SVG"
}

var svgEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// Export renders the scene into an SVG document. The viewport covers the
// export zoom-to-fit rectangle.
func (e *SVGExporter) Export(s *scene.Scene, defaults model.Defaults, opts Options, path string) error {
	rect := s.CalculateZoomToFitRectangle(true)
	width := int(rect.Width)
	height := int(rect.Height)
	if opts.Width > 0 && opts.Height > 0 {
		width, height = opts.Width, opts.Height
	}

	// Translate scene coordinates so the viewBox starts at the origin.
	tx := func(p geometry.Point) (float64, float64) {
		return p.X - rect.X, p.Y - rect.Y
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %.1f %.1f">`+"\n",
		width, height, rect.Width, rect.Height)
	fmt.Fprintf(&b, "  <title>%s</title>\n", svgEscaper.Replace(opts.Title))
	fmt.Fprintf(&b, "  <desc>SVG exported from %s version %s</desc>\n", version.Name, version.Version)

	edgeColor := defaults.EdgeColor.String()
	fmt.Fprintf(&b, "  <defs>\n")
	fmt.Fprintf(&b, `    <marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse">`+"\n")
	fmt.Fprintf(&b, `      <path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/>`+"\n", edgeColor)
	fmt.Fprintf(&b, "    </marker>\n  </defs>\n")

	if !opts.TransparentBackground {
		fmt.Fprintf(&b, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			rect.Width, rect.Height, defaults.BackgroundColor.String())
	}
	step(opts)

	for _, item := range s.EdgeItems() {
		from := clipToNodeRect(item.Source.Position, item.Target.Position, item.Source.Rect())
		to := clipToNodeRect(item.Target.Position, item.Source.Position, item.Target.Rect())
		x1, y1 := tx(from)
		x2, y2 := tx(to)

		attrs := fmt.Sprintf(`stroke="%s" stroke-width="%.1f"`, edgeColor, item.Edge.Width)
		if item.Edge.Dashed {
			attrs += ` stroke-dasharray="8 6"`
		}
		switch item.Edge.ArrowMode {
		case model.ArrowSingle:
			attrs += ` marker-end="url(#arrow)"`
		case model.ArrowDouble:
			attrs += ` marker-end="url(#arrow)" marker-start="url(#arrow)"`
		}
		fmt.Fprintf(&b, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" %s/>`+"\n", x1, y1, x2, y2, attrs)

		if item.Edge.Label != "" {
			fmt.Fprintf(&b, `  <text x="%.1f" y="%.1f" font-size="%.1f" fill="%s" text-anchor="middle">%s</text>`+"\n",
				(x1+x2)/2, (y1+y2)/2-4, defaults.TextSize, defaults.TextColor.String(),
				svgEscaper.Replace(item.Edge.Label))
		}
	}
	step(opts)

	for _, item := range s.NodeItems() {
		node := item.Node
		nodeRect := node.Rect()
		x, y := tx(geometry.Point{X: nodeRect.X, Y: nodeRect.Y})

		fill := defaults.NodeColor
		if node.Color != nil {
			fill = *node.Color
		}
		fmt.Fprintf(&b, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s"/>`+"\n",
			x, y, nodeRect.Width, nodeRect.Height, node.CornerRadius, fill.String(), edgeColor)

		if node.Text != "" {
			text := defaults.TextColor
			if node.TextColor != nil {
				text = *node.TextColor
			}
			cx, cy := tx(node.Position)
			fmt.Fprintf(&b, `  <text x="%.1f" y="%.1f" font-size="%.1f" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
				cx, cy, defaults.TextSize, text.String(), svgEscaper.Replace(node.Text))
		}
	}
	step(opts)

	b.WriteString("</svg>\n")

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	step(opts)
	return nil
}
