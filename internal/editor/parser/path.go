package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"seatmap-editor/internal/editor/models"
)

var ErrEmptyPath = errors.New("empty path")

// ============================================================
// Path Parser
// ============================================================

var (
	pathCommandRe = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)
	numberRe      = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)
)

// ParsePath парсит SVG path в список точек. Поддерживаются только прямые
// сегменты (M, L, H, V, Z); кривые в плане зала не встречаются.
// Лишние пары координат после M/L трактуются как неявные L.
// Z не дублирует первую точку: контур всегда считается замкнутым.
func ParsePath(d string) ([]models.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, ErrEmptyPath
	}

	var points []models.Point
	var currentX, currentY float64
	var startX, startY float64

	for _, match := range pathCommandRe.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		coords := parseCoords(match[2])

		switch cmd {
		case "M", "m", "L", "l": // MoveTo / LineTo
			relative := cmd == "m" || cmd == "l"
			for i := 0; i+1 < len(coords); i += 2 {
				if relative {
					currentX += coords[i]
					currentY += coords[i+1]
				} else {
					currentX, currentY = coords[i], coords[i+1]
				}
				if i == 0 && (cmd == "M" || cmd == "m") {
					startX, startY = currentX, currentY
				}
				points = append(points, models.Point{X: currentX, Y: currentY})
			}

		case "H", "h": // Horizontal line
			for _, c := range coords {
				if cmd == "h" {
					currentX += c
				} else {
					currentX = c
				}
				points = append(points, models.Point{X: currentX, Y: currentY})
			}

		case "V", "v": // Vertical line
			for _, c := range coords {
				if cmd == "v" {
					currentY += c
				} else {
					currentY = c
				}
				points = append(points, models.Point{X: currentX, Y: currentY})
			}

		case "Z", "z": // Close path
			currentX, currentY = startX, startY
		}
	}

	if len(points) == 0 {
		return nil, ErrEmptyPath
	}
	return points, nil
}

// ParsePoints читает атрибут points у <polygon>/<polyline>.
func ParsePoints(s string) []models.Point {
	coords := parseCoords(s)
	points := make([]models.Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		points = append(points, models.Point{X: coords[i], Y: coords[i+1]})
	}
	return points
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// Разделитель: запятая, пробел или знак следующего числа ("10-5")
	var coords []float64
	for _, part := range numberRe.FindAllString(s, -1) {
		val, err := strconv.ParseFloat(part, 64)
		if err == nil {
			coords = append(coords, val)
		}
	}

	return coords
}
