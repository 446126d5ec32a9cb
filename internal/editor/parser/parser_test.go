package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seatmap-editor/internal/editor/geometry"
	"seatmap-editor/internal/editor/models"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want []models.Point
	}{
		{
			name: "absolute",
			d:    "M 0 0 L 100 0 L 100 50 Z",
			want: []models.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 50}},
		},
		{
			name: "relative with h and v",
			d:    "m10,10 h20 v30 h-20 z",
			want: []models.Point{{X: 10, Y: 10}, {X: 30, Y: 10}, {X: 30, Y: 40}, {X: 10, Y: 40}},
		},
		{
			name: "implicit lineto pairs",
			d:    "M0 0 10 0 10 10",
			want: []models.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
		},
		{
			name: "compact signs",
			d:    "M5-5L10-5L10-10",
			want: []models.Point{{X: 5, Y: -5}, {X: 10, Y: -5}, {X: 10, Y: -10}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePathEmpty(t *testing.T) {
	_, err := ParsePath("   ")
	assert.ErrorIs(t, err, ErrEmptyPath)
	_, err = ParsePath("Z")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestParseTransformOrder(t *testing.T) {
	// translate is the outermost operation: scale first, then translate
	m, err := ParseTransform("translate(100, 0) scale(2)")
	require.NoError(t, err)
	p := m.Apply(models.Point{X: 1, Y: 1})
	assert.InDelta(t, 102, p.X, 1e-9)
	assert.InDelta(t, 2, p.Y, 1e-9)
}

func TestParseTransformRotateAroundPoint(t *testing.T) {
	m, err := ParseTransform("rotate(90 10 10)")
	require.NoError(t, err)
	p := m.Apply(models.Point{X: 20, Y: 10})
	assert.InDelta(t, 10, p.X, 1e-9)
	assert.InDelta(t, 20, p.Y, 1e-9)
}

func TestParseTransformErrors(t *testing.T) {
	for _, s := range []string{"matrix(1 2 3)", "wobble(3)", "translate()", "garbage"} {
		_, err := ParseTransform(s)
		assert.Error(t, err, s)
	}
}

const venue = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" width="800px" height="600px">
  <title>Hall</title>
  <rect id="Stage_Main" x="300" y="20" width="200" height="60" fill="#333"/>
  <g id="Section_Left" transform="translate(50 100)" data-price="45.5">
    <path d="M0 0 H200 V150 H0 Z" style="stroke:#000; fill: #f00"/>
    <circle cx="20" cy="20" r="8"/>
  </g>
  <polygon id="Aisle_1" points="0,300 800,300 800,320 0,320"/>
  <text x="10" y="590" font-size="12">Exit<tspan> A</tspan></text>
  <line x1="0" y1="0" x2="1" y2="1"/>
</svg>`

func TestParseSVG(t *testing.T) {
	doc, err := ParseSVG(strings.NewReader(venue))
	require.NoError(t, err)
	assert.Equal(t, 800.0, doc.Width)
	assert.Equal(t, 600.0, doc.Height)
	require.Len(t, doc.Elements, 4)

	stage := doc.Elements[0]
	assert.Equal(t, ElementRect, stage.Type)
	assert.Equal(t, "#333", stage.Fill)
	assert.Equal(t, models.Point{X: 300, Y: 20}, stage.Matrix.Apply(models.Point{}))

	group := doc.Elements[1]
	assert.Equal(t, ElementGroup, group.Type)
	require.NotNil(t, group.Price)
	assert.Equal(t, 45.5, *group.Price)
	require.Len(t, group.Children, 2)
	assert.Equal(t, "#f00", group.Children[0].Fill)
	assert.Len(t, group.Children[0].Points, 4)
	circle := group.Children[1]
	assert.Equal(t, ElementCircle, circle.Type)
	center := circle.Matrix.Multiply(group.Matrix).Apply(models.Point{X: 8, Y: 8})
	assert.Equal(t, models.Point{X: 70, Y: 120}, center)

	assert.Equal(t, ElementPolygon, doc.Elements[2].Type)

	text := doc.Elements[3]
	assert.Equal(t, "Exit A", text.Text)
	assert.Equal(t, 12.0, text.FontSize)
}

func TestParseSVGViewBoxFallback(t *testing.T) {
	doc, err := ParseSVG(strings.NewReader(`<svg viewBox="0 0 320 200"><rect width="1" height="1"/></svg>`))
	require.NoError(t, err)
	assert.Equal(t, 320.0, doc.Width)
	assert.Equal(t, 200.0, doc.Height)
}

func TestParseSVGRejectsOtherRoots(t *testing.T) {
	_, err := ParseSVG(strings.NewReader(`<html></html>`))
	assert.ErrorIs(t, err, ErrNotSVG)

	_, err = ParseSVG(strings.NewReader(`<svg><rect`))
	assert.Error(t, err)

	_, err = ParseSVG(strings.NewReader(`<svg><rect width="1" height="1" transform="spin(3)"/></svg>`))
	assert.Error(t, err)
}

func TestClassifyID(t *testing.T) {
	tests := []struct {
		id   string
		kind models.ZoneKind
		ok   bool
	}{
		{"Section_A", models.ZoneSection, true},
		{"Stage_Main", models.ZoneStage, true},
		{"Aisle_2", models.ZoneAisle, true},
		{"Zone_VIP", models.ZoneCustom, true},
		{"bar", models.ZoneCustom, true},
		{"", "", false},
	}
	for _, tt := range tests {
		kind, ok := ClassifyID(tt.id)
		assert.Equal(t, tt.ok, ok, tt.id)
		assert.Equal(t, tt.kind, kind, tt.id)
	}
	assert.Equal(t, "Balcony Left", DisplayName("Section_Balcony_Left"))
	assert.Equal(t, "bar", DisplayName("bar"))
}

func TestParsedRectMatchesContainment(t *testing.T) {
	doc, err := ParseSVG(strings.NewReader(
		`<svg><rect x="10" y="10" width="100" height="20" transform="rotate(90)"/></svg>`))
	require.NoError(t, err)
	require.Len(t, doc.Elements, 1)
	rect := geometry.NewRect(100, 20, doc.Elements[0].Matrix)
	// rotate(90) maps (60,20) to (-20,60)
	assert.True(t, geometry.ContainsPoint(rect, models.Point{X: -20, Y: 60}))
	assert.False(t, geometry.ContainsPoint(rect, models.Point{X: 60, Y: 20}))
}
