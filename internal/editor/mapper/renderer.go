package mapper

import (
	"encoding/xml"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"seatmap-editor/internal/editor/geometry"
	"seatmap-editor/internal/editor/models"
)

// ============================================================
// Renderer
// ============================================================

const (
	defaultCanvasWidth  = 1000.0
	defaultCanvasHeight = 1000.0
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render собирает SVG из снимка сцены. Объекты идут в порядке z-order,
// скрытые и вспомогательные (guide) пропускаются.
func (r *Renderer) Render(snap models.Snapshot, width, height float64) (string, error) {
	if width <= 0 || height <= 0 {
		width, height = r.sceneSize(snap)
	}

	byID := make(map[string]models.SceneObject, len(snap.Objects))
	for _, o := range snap.Objects {
		byID[o.ID] = o
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(width), formatFloat(height), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	if bg := snap.Background; bg != nil {
		builder.WriteString(fmt.Sprintf(`  <image href="%s" x="%s" y="%s" width="%s" height="%s" opacity="%s"/>`,
			escape(filepath.Base(bg.Path)),
			formatFloat(bg.X), formatFloat(bg.Y),
			formatFloat(float64(bg.Width)*bg.Scale), formatFloat(float64(bg.Height)*bg.Scale),
			formatFloat(bg.Opacity)))
		builder.WriteString("\n")
	}

	for _, o := range snap.Objects {
		if o.ParentID != "" {
			if _, ok := byID[o.ParentID]; ok {
				continue
			}
		}
		r.renderObject(&builder, o, byID, 1)
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

func (r *Renderer) renderObject(b *strings.Builder, o models.SceneObject, byID map[string]models.SceneObject, depth int) {
	if o.IsGuide() || !o.Visible {
		return
	}
	indent := strings.Repeat("  ", depth)
	attrs := r.commonAttrs(o)

	switch o.Shape.Type {
	case models.ShapeGroup:
		b.WriteString(fmt.Sprintf("%s<g%s>\n", indent, attrs))
		for _, id := range o.Shape.Children {
			if child, ok := byID[id]; ok {
				r.renderObject(b, child, byID, depth+1)
			}
		}
		b.WriteString(indent + "</g>\n")

	case models.ShapeRect:
		b.WriteString(fmt.Sprintf(`%s<rect width="%s" height="%s"%s/>`+"\n",
			indent, formatFloat(o.Shape.Width), formatFloat(o.Shape.Height), attrs))

	case models.ShapeCircle:
		rad := formatFloat(o.Shape.Radius)
		b.WriteString(fmt.Sprintf(`%s<circle cx="%s" cy="%s" r="%s"%s/>`+"\n", indent, rad, rad, rad, attrs))

	case models.ShapePolygon:
		b.WriteString(fmt.Sprintf(`%s<polygon points="%s"%s/>`+"\n", indent, formatPoints(o.Shape.Points), attrs))

	case models.ShapeLine:
		if len(o.Shape.Points) < 2 {
			return
		}
		a, c := o.Shape.Points[0], o.Shape.Points[1]
		b.WriteString(fmt.Sprintf(`%s<line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`+"\n", indent,
			formatFloat(a.X), formatFloat(a.Y), formatFloat(c.X), formatFloat(c.Y), attrs))

	case models.ShapeText:
		// рамка текста начинается сверху, а y у <text> это базовая линия
		b.WriteString(fmt.Sprintf(`%s<text x="0" y="%s" font-size="%s" font-family="Arial"%s>%s</text>`+"\n",
			indent, formatFloat(o.Shape.FontSize), formatFloat(o.Shape.FontSize), attrs, escape(o.Shape.Text)))
	}
}

func (r *Renderer) commonAttrs(o models.SceneObject) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(` id="%s"`, escape(o.ID)))
	if o.ZoneID != "" {
		sb.WriteString(fmt.Sprintf(` data-zone="%s"`, escape(o.ZoneID)))
	}
	if o.Meta.Name != "" {
		sb.WriteString(fmt.Sprintf(` data-name="%s"`, escape(o.Meta.Name)))
	}
	if o.Meta.Price != nil {
		sb.WriteString(fmt.Sprintf(` data-price="%s"`, formatFloat(*o.Meta.Price)))
	}
	if o.Seat != nil {
		sb.WriteString(fmt.Sprintf(` data-row="%s" data-number="%d" data-seat-kind="%s"`,
			escape(o.Seat.Row), o.Seat.Number, o.Seat.Kind))
	}
	if t := formatTransform(o.Transform); t != "" {
		sb.WriteString(fmt.Sprintf(` transform="%s"`, t))
	}
	if o.Shape.Type != models.ShapeGroup {
		fill := o.Style.Fill
		if fill == "" {
			fill = "none"
		}
		sb.WriteString(fmt.Sprintf(` fill="%s"`, escape(fill)))
		if o.Style.Stroke != "" {
			sb.WriteString(fmt.Sprintf(` stroke="%s" stroke-width="%s"`, escape(o.Style.Stroke), formatFloat(o.Style.StrokeWidth)))
		}
	}
	if o.Style.Opacity > 0 && o.Style.Opacity < 1 {
		sb.WriteString(fmt.Sprintf(` opacity="%s"`, formatFloat(o.Style.Opacity)))
	}
	return sb.String()
}

// ============================================================
// Sizing
// ============================================================

func (r *Renderer) sceneSize(snap models.Snapshot) (float64, float64) {
	maxX, maxY := 0.0, 0.0
	for _, o := range snap.Objects {
		if o.ParentID != "" || o.IsGuide() {
			continue
		}
		m := geometry.FromTransform(o.Transform)
		var pts []models.Point
		switch o.Shape.Type {
		case models.ShapeRect:
			pts = geometry.NewRect(o.Shape.Width, o.Shape.Height, m).WorldVertices()
		case models.ShapeCircle:
			box := geometry.TransformRect(m, geometry.Rect{Width: 2 * o.Shape.Radius, Height: 2 * o.Shape.Radius})
			pts = []models.Point{{X: box.MaxX(), Y: box.MaxY()}}
		case models.ShapePolygon, models.ShapeLine:
			pts = applyAll(m, o.Shape.Points)
		default:
			pts = []models.Point{m.Apply(models.Point{})}
		}
		for _, p := range pts {
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if bg := snap.Background; bg != nil {
		maxX = math.Max(maxX, bg.X+float64(bg.Width)*bg.Scale)
		maxY = math.Max(maxY, bg.Y+float64(bg.Height)*bg.Scale)
	}
	if maxX <= 0 {
		maxX = defaultCanvasWidth
	}
	if maxY <= 0 {
		maxY = defaultCanvasHeight
	}
	return math.Ceil(maxX), math.Ceil(maxY)
}

// ============================================================
// Formatting
// ============================================================

func formatTransform(t models.Transform) string {
	m := geometry.FromTransform(t)
	if m == geometry.Identity() {
		return ""
	}
	if m[0] == 1 && m[1] == 0 && m[2] == 0 && m[3] == 1 {
		return fmt.Sprintf("translate(%s %s)", formatFloat(m[4]), formatFloat(m[5]))
	}
	parts := make([]string, len(m))
	for i, v := range m {
		parts[i] = formatFloat(v)
	}
	return "matrix(" + strings.Join(parts, " ") + ")"
}

func formatFloat(val float64) string {
	val = math.Round(val*1e4) / 1e4
	if val == 0 {
		val = 0 // убираем -0
	}
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoints(points []models.Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = formatFloat(p.X) + "," + formatFloat(p.Y)
	}
	return strings.Join(parts, " ")
}

func escape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
