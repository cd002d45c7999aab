package export

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentis/geometry"
	"mentis/model"
	"mentis/scene"
	"mentis/version"
)

// exportScene builds a two-node, one-edge scene for rendering tests.
func exportScene(t *testing.T) (*scene.Scene, model.Defaults) {
	t.Helper()
	doc := model.NewMindMap()
	a := doc.CreateNode(geometry.Point{X: 0, Y: 0})
	b := doc.CreateNode(geometry.Point{X: 300, Y: 200})
	doc.SetNodeText(a, "alpha & beta")
	doc.SetNodeText(b, "<gamma>")
	edge, err := doc.CreateEdge(a, b)
	require.NoError(t, err)
	edge.ArrowMode = model.ArrowSingle
	edge.Label = "links"

	s := scene.New(zerolog.Nop())
	s.RebuildFromGraph(doc)
	return s, doc.Defaults()
}

func TestNewExporterByFormat(t *testing.T) {
	pngExp, err := NewExporter(FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, ".png", pngExp.FileExtension())
	assert.Equal(t, "PNG", pngExp.FormatName())

	svgExp, err := NewExporter(FormatSVG)
	require.NoError(t, err)
	assert.Equal(t, ".svg", svgExp.FileExtension())
	assert.Equal(t, "SVG", svgExp.FormatName())

	_, err = NewExporter(Format("bmp"))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("png")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	f, err = ParseFormat("svg")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}

func TestPNGExportWritesDecodableImageOfRequestedSize(t *testing.T) {
	s, defaults := exportScene(t)
	path := filepath.Join(t.TempDir(), "out.png")

	opts := Options{Width: 640, Height: 480, Title: "test map"}
	require.NoError(t, NewPNGExporter().Export(s, defaults, opts, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, 640, bounds.Dx())
	assert.Equal(t, 480, bounds.Dy())
}

func TestPNGExportProgressFires(t *testing.T) {
	s, defaults := exportScene(t)
	path := filepath.Join(t.TempDir(), "progress.png")

	calls := 0
	opts := Options{Width: 100, Height: 100, Progress: func() { calls++ }}
	require.NoError(t, NewPNGExporter().Export(s, defaults, opts, path))
	assert.Greater(t, calls, 0)
}

func TestPNGExportFailsOnUnwritablePath(t *testing.T) {
	s, defaults := exportScene(t)
	err := NewPNGExporter().Export(s, defaults, Options{Width: 10, Height: 10},
		filepath.Join(t.TempDir(), "missing-dir", "out.png"))
	assert.Error(t, err)
}

func TestSVGExportContainsItemsAndMetadata(t *testing.T) {
	s, defaults := exportScene(t)
	path := filepath.Join(t.TempDir(), "out.svg")

	opts := Options{Title: "my <map>"}
	require.NoError(t, NewSVGExporter().Export(s, defaults, opts, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	svg := string(data)

	assert.True(t, strings.HasPrefix(svg, "<svg "))
	assert.Contains(t, svg, "<title>my &lt;map&gt;</title>")
	assert.Contains(t, svg, version.Name)
	assert.Contains(t, svg, version.Version)

	assert.Equal(t, 2, strings.Count(svg, "<rect x=")-1, "one rect per node plus the background")
	assert.Equal(t, 1, strings.Count(svg, "<line "))
	assert.Contains(t, svg, `marker-end="url(#arrow)"`)
	assert.Contains(t, svg, "alpha &amp; beta", "node text is escaped")
	assert.Contains(t, svg, "&lt;gamma&gt;")
	assert.Contains(t, svg, ">links</text>")
}

func TestSVGExportTransparentBackgroundOmitsBackgroundRect(t *testing.T) {
	s, defaults := exportScene(t)
	path := filepath.Join(t.TempDir(), "transparent.svg")

	opts := Options{TransparentBackground: true}
	require.NoError(t, NewSVGExporter().Export(s, defaults, opts, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Only the two node rects remain.
	assert.Equal(t, 2, strings.Count(string(data), "<rect "))
}

func TestSVGExportEmptySceneIsValid(t *testing.T) {
	s := scene.New(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "empty.svg")

	require.NoError(t, NewSVGExporter().Export(s, model.DefaultStyle(), Options{}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	svg := string(data)
	assert.Contains(t, svg, "viewBox=")
	assert.NotContains(t, svg, "NaN")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(svg), "</svg>"))
}
