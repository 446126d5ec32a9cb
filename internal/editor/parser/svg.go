// Package parser reads venue plans drawn in SVG.
package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"seatmap-editor/internal/editor/geometry"
	"seatmap-editor/internal/editor/models"
)

var ErrNotSVG = errors.New("document root is not <svg>")

// ============================================================
// XML Structures
// ============================================================

// node keeps children in document order, which is also paint order.
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []node     `xml:",any"`
	Text    string     `xml:",chardata"`
}

func (n node) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

func (n node) float(name string) float64 {
	v, _ := parseLength(n.attr(name))
	return v
}

// ============================================================
// Parsed elements
// ============================================================

type ElementType string

const (
	ElementRect    ElementType = "rect"
	ElementCircle  ElementType = "circle"
	ElementPolygon ElementType = "polygon"
	ElementText    ElementType = "text"
	ElementGroup   ElementType = "group"
)

// Element is one drawable from the plan. Matrix maps the element's local
// frame to its parent's and already includes x/y style offsets, so a rect is
// always [0,Width]x[0,Height] and a circle is centered at (Radius, Radius).
type Element struct {
	Type     ElementType
	ID       string
	Name     string
	Fill     string
	Price    *float64
	Capacity *int
	Matrix   geometry.Matrix

	Width    float64
	Height   float64
	Radius   float64
	Points   []models.Point
	Text     string
	FontSize float64

	Children []Element
}

type Document struct {
	Width    float64
	Height   float64
	Elements []Element
}

const defaultFontSize = 16.0

// ============================================================
// Parser
// ============================================================

func ParseSVG(r io.Reader) (*Document, error) {
	var root node
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode svg: %w", err)
	}
	if root.XMLName.Local != "svg" {
		return nil, ErrNotSVG
	}

	doc := &Document{
		Width:  root.float("width"),
		Height: root.float("height"),
	}
	if doc.Width == 0 || doc.Height == 0 {
		if vb := parseCoords(root.attr("viewBox")); len(vb) == 4 {
			doc.Width, doc.Height = vb[2], vb[3]
		}
	}

	elements, err := parseNodes(root.Nodes)
	if err != nil {
		return nil, err
	}
	doc.Elements = elements
	return doc, nil
}

func parseNodes(nodes []node) ([]Element, error) {
	var out []Element
	for _, n := range nodes {
		el, ok, err := parseNode(n)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, el)
		}
	}
	return out, nil
}

func parseNode(n node) (Element, bool, error) {
	own, err := ParseTransform(n.attr("transform"))
	if err != nil {
		return Element{}, false, fmt.Errorf("element %q: %w", n.attr("id"), err)
	}

	el := Element{
		ID:   n.attr("id"),
		Name: n.attr("data-name"),
		Fill: fillOf(n),
	}
	if v, err := strconv.ParseFloat(n.attr("data-price"), 64); err == nil {
		el.Price = &v
	}
	if v, err := strconv.Atoi(n.attr("data-capacity")); err == nil {
		el.Capacity = &v
	}

	switch n.XMLName.Local {
	case "g":
		children, err := parseNodes(n.Nodes)
		if err != nil {
			return Element{}, false, err
		}
		if len(children) == 0 {
			return Element{}, false, nil
		}
		el.Type = ElementGroup
		el.Matrix = own
		el.Children = children

	case "rect":
		el.Type = ElementRect
		el.Width = n.float("width")
		el.Height = n.float("height")
		if el.Width <= 0 || el.Height <= 0 {
			return Element{}, false, nil
		}
		el.Matrix = geometry.Translate(n.float("x"), n.float("y")).Multiply(own)

	case "circle":
		el.Type = ElementCircle
		el.Radius = n.float("r")
		if el.Radius <= 0 {
			return Element{}, false, nil
		}
		el.Matrix = geometry.Translate(n.float("cx")-el.Radius, n.float("cy")-el.Radius).Multiply(own)

	case "path":
		points, err := ParsePath(n.attr("d"))
		if err != nil {
			return Element{}, false, fmt.Errorf("element %q: %w", el.ID, err)
		}
		el.Type = ElementPolygon
		el.Points = points
		el.Matrix = own

	case "polygon":
		el.Type = ElementPolygon
		el.Points = ParsePoints(n.attr("points"))
		el.Matrix = own

	case "text":
		el.Type = ElementText
		el.Text = strings.TrimSpace(textOf(n))
		if el.Text == "" {
			return Element{}, false, nil
		}
		el.FontSize = n.float("font-size")
		if el.FontSize <= 0 {
			el.FontSize = defaultFontSize
		}
		// y у <text> задаёт базовую линию, а локальная рамка начинается сверху
		el.Matrix = geometry.Translate(n.float("x"), n.float("y")-el.FontSize).Multiply(own)

	default:
		return Element{}, false, nil
	}

	if el.Type == ElementPolygon && len(el.Points) < 3 {
		return Element{}, false, nil
	}
	return el, true, nil
}

func textOf(n node) string {
	var b strings.Builder
	b.WriteString(n.Text)
	for _, child := range n.Nodes {
		if child.XMLName.Local == "tspan" {
			b.WriteString(textOf(child))
		}
	}
	return b.String()
}

func fillOf(n node) string {
	for _, decl := range strings.Split(n.attr("style"), ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(k) == "fill" {
			return strings.TrimSpace(v)
		}
	}
	return n.attr("fill")
}

// parseLength отбрасывает единицы измерения ("120px" -> 120).
func parseLength(s string) (float64, bool) {
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	return v, err == nil
}

// ============================================================
// Classification
// ============================================================

// ClassifyID maps an element id prefix to a zone kind. Ids without a known
// prefix become custom zones; an empty id yields no zone.
func ClassifyID(id string) (models.ZoneKind, bool) {
	switch {
	case id == "":
		return "", false
	case strings.HasPrefix(id, "Section_"), strings.HasPrefix(id, "Sector_"):
		return models.ZoneSection, true
	case strings.HasPrefix(id, "Stage_"), id == "Stage":
		return models.ZoneStage, true
	case strings.HasPrefix(id, "Aisle_"):
		return models.ZoneAisle, true
	}
	return models.ZoneCustom, true
}

// DisplayName turns "Section_Balcony_Left" into "Balcony Left".
func DisplayName(id string) string {
	name := id
	if i := strings.Index(name, "_"); i >= 0 {
		switch name[:i] {
		case "Section", "Sector", "Stage", "Aisle", "Zone":
			name = name[i+1:]
		}
	}
	name = strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if name == "" {
		return id
	}
	return name
}
