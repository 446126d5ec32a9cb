// Package seating enumerates seat positions for a grid, optionally bounded
// by a zone shape.
package seating

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"seatmap-editor/internal/editor/geometry"
	"seatmap-editor/internal/editor/models"
)

// ============================================================
// Defaults
// ============================================================

const (
	DefaultRows          = 5
	DefaultColumns       = 10
	DefaultRowSpacing    = 40.0
	DefaultSeatSpacing   = 35.0
	DefaultSeatRadius    = 12.0
	DefaultLabelFontSize = 10.0
	DefaultStartRow      = "A"

	// MinSpacing replaces a spacing that is not a positive finite number.
	MinSpacing = 1.0
	// MaxCells bounds how many grid cells one generation walks.
	MaxCells = 250000
)

type Palette struct {
	Regular    string `yaml:"regular" json:"regular"`
	VIP        string `yaml:"vip" json:"vip"`
	Accessible string `yaml:"accessible" json:"accessible"`
	Blocked    string `yaml:"blocked" json:"blocked"`
}

func DefaultPalette() Palette {
	return Palette{
		Regular:    "#0EA5E9",
		VIP:        "#F59E0B",
		Accessible: "#10B981",
		Blocked:    "#6B7280",
	}
}

// ColorFor returns the fill for a seat kind; regular seats take base when set.
func (p Palette) ColorFor(kind models.SeatKind, base string) string {
	switch kind {
	case models.SeatVIP:
		return p.VIP
	case models.SeatAccessible:
		return p.Accessible
	case models.SeatBlocked:
		return p.Blocked
	}
	if base != "" {
		return base
	}
	return p.Regular
}

func DefaultParams() models.GridParams {
	return models.GridParams{
		Rows:        DefaultRows,
		Columns:     DefaultColumns,
		RowSpacing:  DefaultRowSpacing,
		SeatSpacing: DefaultSeatSpacing,
		StartRow:    DefaultStartRow,
		SeatKind:    models.SeatRegular,
		SeatShape:   models.SeatCircle,
	}
}

// Normalize clamps grid parameters to safe values instead of rejecting them.
func Normalize(p models.GridParams) models.GridParams {
	if p.Rows < 1 {
		p.Rows = 1
	}
	if p.Columns < 1 {
		p.Columns = 1
	}
	p.RowSpacing = clampSpacing(p.RowSpacing)
	p.SeatSpacing = clampSpacing(p.SeatSpacing)

	start := strings.TrimSpace(p.StartRow)
	if start == "" {
		start = DefaultStartRow
	}
	r, _ := utf8.DecodeRuneInString(start)
	p.StartRow = string(unicode.ToUpper(r))

	switch p.SeatKind {
	case models.SeatRegular, models.SeatVIP, models.SeatAccessible, models.SeatBlocked:
	default:
		p.SeatKind = models.SeatRegular
	}
	switch p.SeatShape {
	case models.SeatCircle, models.SeatSquare:
	default:
		p.SeatShape = models.SeatCircle
	}
	return p
}

func clampSpacing(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return MinSpacing
	}
	return v
}

// ============================================================
// Generator
// ============================================================

type Generator struct {
	Palette       Palette
	SeatRadius    float64
	LabelFontSize float64
}

func NewGenerator(palette Palette, seatRadius float64) *Generator {
	if seatRadius <= 0 {
		seatRadius = DefaultSeatRadius
	}
	return &Generator{
		Palette:       palette,
		SeatRadius:    seatRadius,
		LabelFontSize: DefaultLabelFontSize,
	}
}

// Request describes one generation run.
type Request struct {
	Params models.GridParams
	// Target bounds the grid and filters candidates; nil means an unfiltered
	// rows x columns block centered on Center.
	Target    *geometry.Shape
	Center    models.Point
	ZoneID    string
	Batch     string
	BaseColor string
}

type Result struct {
	Seats     []models.SeatDescriptor `json:"seats"`
	Count     int                     `json:"count"`
	Bounds    geometry.Rect           `json:"bounds"`
	Truncated bool                    `json:"truncated"` // cut down to MaxCells cells
}

// Generate walks the grid top-to-bottom, left-to-right and keeps every cell
// whose center lies in the target. Column numbers count accepted seats only,
// so they stay contiguous within a row; row letters follow the grid row.
func (g *Generator) Generate(req Request) Result {
	p := Normalize(req.Params)

	var bounds geometry.Rect
	var nRows, nCols int
	if req.Target != nil {
		bounds = req.Target.Bounds()
		nRows = cellCount(bounds.Height, p.RowSpacing)
		nCols = cellCount(bounds.Width, p.SeatSpacing)
	} else {
		nRows, nCols = p.Rows, p.Columns
	}
	nRows, nCols, truncated := capCells(nRows, nCols)
	if req.Target == nil {
		bounds = geometry.CenteredRect(req.Center,
			float64(nCols)*p.SeatSpacing,
			float64(nRows)*p.RowSpacing)
	}

	start, _ := utf8.DecodeRuneInString(p.StartRow)
	fill := g.Palette.ColorFor(p.SeatKind, req.BaseColor)
	res := Result{Bounds: bounds, Truncated: truncated}

	for r := 0; r < nRows; r++ {
		// r == floor((y - bounds.Y) / RowSpacing); counting rows directly
		// avoids a float round-trip dropping a row to the previous letter.
		y := bounds.Y + float64(r)*p.RowSpacing
		row := string(start + rune(r))

		number := 0
		for c := 0; c < nCols; c++ {
			center := models.Point{
				X: bounds.X + float64(c)*p.SeatSpacing + p.SeatSpacing/2,
				Y: y + p.RowSpacing/2,
			}
			if req.Target != nil && !geometry.ContainsPoint(*req.Target, center) {
				continue
			}
			number++

			id := seatID(req.ZoneID, req.Batch, row, number)
			res.Seats = append(res.Seats, models.SeatDescriptor{
				ID:     id,
				ZoneID: req.ZoneID,
				Row:    row,
				Number: number,
				Center: center,
				Radius: g.SeatRadius,
				Kind:   p.SeatKind,
				Marker: p.SeatShape,
				Fill:   fill,
				Label: models.LabelDescriptor{
					ID:       id + "-label",
					Text:     fmt.Sprintf("%s%d", row, number),
					Center:   center,
					FontSize: g.LabelFontSize,
				},
			})
		}
	}

	res.Count = len(res.Seats)
	return res
}

// capCells drops trailing rows (and columns past MaxCells) so the walk never
// exceeds MaxCells cells.
func capCells(rows, cols int) (int, int, bool) {
	if rows <= 0 || cols <= 0 {
		return rows, cols, false
	}
	truncated := false
	if cols > MaxCells {
		cols, truncated = MaxCells, true
	}
	if rows > MaxCells/cols {
		rows, truncated = MaxCells/cols, true
	}
	return rows, cols, truncated
}

// cellCount is the number of steps needed to cover extent; the epsilon keeps
// an exact multiple from rounding up to an extra cell.
func cellCount(extent, step float64) int {
	if extent <= 0 || step <= 0 {
		return 0
	}
	f := math.Ceil(extent/step - 1e-9)
	switch {
	case f <= 0:
		return 0
	case f > math.MaxInt32:
		return math.MaxInt32
	}
	return int(f)
}

func seatID(zoneID, batch, row string, number int) string {
	if batch == "" {
		return fmt.Sprintf("seat-%s-%s%d", zoneID, row, number)
	}
	return fmt.Sprintf("seat-%s-%s-%s%d", zoneID, batch, row, number)
}
