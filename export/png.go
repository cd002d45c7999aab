package export

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"mentis/geometry"
	"mentis/model"
	"mentis/scene"
)

// PNGExporter rasterizes the scene at caller-specified pixel dimensions with
// an optional transparent background.
type PNGExporter struct{}

// NewPNGExporter creates a new PNG exporter.
func NewPNGExporter() *PNGExporter {
	return &PNGExporter{}
}

// FileExtension returns the file extension for PNG.
func (e *PNGExporter) FileExtension() string {
	return ".png"
}

// FormatName returns the format name.
func (e *PNGExporter) FormatName() string {
	return "PNG"
}

// Export renders all edge and node items into a raster image of the requested
// size. Content is scaled uniformly to fit and centered.
func (e *PNGExporter) Export(s *scene.Scene, defaults model.Defaults, opts Options, path string) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}

	rect := s.CalculateZoomToFitRectangle(true)
	scale := math.Min(float64(opts.Width)/rect.Width, float64(opts.Height)/rect.Height)
	offsetX := (float64(opts.Width) - rect.Width*scale) / 2
	offsetY := (float64(opts.Height) - rect.Height*scale) / 2
	toPixel := func(p geometry.Point) (float64, float64) {
		return (p.X-rect.X)*scale + offsetX, (p.Y-rect.Y)*scale + offsetY
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	if !opts.TransparentBackground {
		dc.SetColor(rgba(defaults.BackgroundColor))
		dc.Clear()
	}
	step(opts)

	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	// Clamped so labels stay legible at extreme export scales.
	fontSize := geometry.Clamp(defaults.TextSize*scale, 6, 96)
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	// Edges first so nodes paint over the line ends.
	for _, item := range s.EdgeItems() {
		e.drawEdge(dc, item, defaults, toPixel, scale)
	}
	step(opts)

	for _, item := range s.NodeItems() {
		e.drawNode(dc, item.Node, defaults, toPixel, scale)
	}
	step(opts)

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	step(opts)
	return nil
}

func (e *PNGExporter) drawEdge(dc *gg.Context, item scene.EdgeItem, defaults model.Defaults, toPixel func(geometry.Point) (float64, float64), scale float64) {
	from := clipToNodeRect(item.Source.Position, item.Target.Position, item.Source.Rect())
	to := clipToNodeRect(item.Target.Position, item.Source.Position, item.Target.Rect())

	x1, y1 := toPixel(from)
	x2, y2 := toPixel(to)

	width := item.Edge.Width * scale
	if width < 1 {
		width = 1
	}
	dc.SetColor(rgba(defaults.EdgeColor))
	dc.SetLineWidth(width)
	if item.Edge.Dashed {
		dc.SetDash(8*scale, 6*scale)
	} else {
		dc.SetDash()
	}
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
	dc.SetDash()

	arrowSize := 6 * scale
	switch item.Edge.ArrowMode {
	case model.ArrowSingle:
		drawArrowHead(dc, x1, y1, x2, y2, arrowSize)
	case model.ArrowDouble:
		drawArrowHead(dc, x1, y1, x2, y2, arrowSize)
		drawArrowHead(dc, x2, y2, x1, y1, arrowSize)
	}

	if item.Edge.Label != "" {
		midX, midY := (x1+x2)/2, (y1+y2)/2
		dc.SetColor(rgba(defaults.TextColor))
		dc.DrawStringAnchored(item.Edge.Label, midX, midY, 0.5, -0.3)
	}
}

func (e *PNGExporter) drawNode(dc *gg.Context, node *model.Node, defaults model.Defaults, toPixel func(geometry.Point) (float64, float64), scale float64) {
	rect := node.Rect()
	x, y := toPixel(geometry.Point{X: rect.X, Y: rect.Y})
	w := rect.Width * scale
	h := rect.Height * scale
	radius := node.CornerRadius * scale

	fill := defaults.NodeColor
	if node.Color != nil {
		fill = *node.Color
	}
	dc.SetColor(rgba(fill))
	dc.DrawRoundedRectangle(x, y, w, h, radius)
	dc.Fill()

	dc.SetColor(rgba(defaults.EdgeColor))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, y, w, h, radius)
	dc.Stroke()

	if node.Text != "" {
		text := defaults.TextColor
		if node.TextColor != nil {
			text = *node.TextColor
		}
		dc.SetColor(rgba(text))
		dc.DrawStringWrapped(node.Text, x+w/2, y+h/2, 0.5, 0.5, w*0.9, 1.3, gg.AlignCenter)
	}
}

// drawArrowHead fills a triangular head at (tx, ty), oriented along the
// segment from (fx, fy).
func drawArrowHead(dc *gg.Context, fx, fy, tx, ty, size float64) {
	dx, dy := tx-fx, ty-fy
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	const spread = 0.5 // radians
	baseX1 := tx - size*dx + size*dy*spread
	baseY1 := ty - size*dy - size*dx*spread
	baseX2 := tx - size*dx - size*dy*spread
	baseY2 := ty - size*dy + size*dx*spread

	dc.MoveTo(tx, ty)
	dc.LineTo(baseX1, baseY1)
	dc.LineTo(baseX2, baseY2)
	dc.ClosePath()
	dc.Fill()
}

// clipToNodeRect moves the segment endpoint from the node center to the
// point where the segment exits the node's rectangle, so lines and arrows
// start at the node boundary.
func clipToNodeRect(center, other geometry.Point, rect geometry.Rect) geometry.Point {
	d := other.Sub(center)
	if d.X == 0 && d.Y == 0 {
		return center
	}
	t := math.Inf(1)
	if d.X != 0 {
		t = math.Min(t, (rect.Width/2)/math.Abs(d.X))
	}
	if d.Y != 0 {
		t = math.Min(t, (rect.Height/2)/math.Abs(d.Y))
	}
	t = math.Min(t, 1)
	return center.Add(geometry.Point{X: d.X * t, Y: d.Y * t})
}

func rgba(c model.Color) color.Color {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

func step(opts Options) {
	if opts.Progress != nil {
		opts.Progress()
	}
}
