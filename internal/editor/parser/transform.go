package parser

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"seatmap-editor/internal/editor/geometry"
)

var transformRe = regexp.MustCompile(`([a-zA-Z]+)\s*\(([^)]*)\)`)

// ParseTransform переводит атрибут transform в матрицу. Операции списка
// применяются к точке справа налево, как того требует SVG.
func ParseTransform(s string) (geometry.Matrix, error) {
	m := geometry.Identity()
	s = strings.TrimSpace(s)
	if s == "" {
		return m, nil
	}

	matches := transformRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return m, fmt.Errorf("invalid transform %q", s)
	}

	for _, match := range matches {
		op, err := transformOp(match[1], parseCoords(match[2]))
		if err != nil {
			return geometry.Identity(), err
		}
		// op стоит правее уже накопленных, значит применяется раньше них
		m = op.Multiply(m)
	}
	return m, nil
}

func transformOp(name string, args []float64) (geometry.Matrix, error) {
	switch name {
	case "matrix":
		if len(args) != 6 {
			return geometry.Matrix{}, fmt.Errorf("matrix expects 6 arguments, got %d", len(args))
		}
		return geometry.Matrix{args[0], args[1], args[2], args[3], args[4], args[5]}, nil

	case "translate":
		switch len(args) {
		case 1:
			return geometry.Translate(args[0], 0), nil
		case 2:
			return geometry.Translate(args[0], args[1]), nil
		}

	case "scale":
		switch len(args) {
		case 1:
			return geometry.Scale(args[0], args[0]), nil
		case 2:
			return geometry.Scale(args[0], args[1]), nil
		}

	case "rotate":
		switch len(args) {
		case 1:
			return geometry.RotateDeg(args[0]), nil
		case 3:
			cx, cy := args[1], args[2]
			return geometry.Translate(-cx, -cy).
				Multiply(geometry.RotateDeg(args[0])).
				Multiply(geometry.Translate(cx, cy)), nil
		}

	case "skewX":
		if len(args) == 1 {
			return geometry.Matrix{1, 0, math.Tan(args[0] * math.Pi / 180), 1, 0, 0}, nil
		}

	case "skewY":
		if len(args) == 1 {
			return geometry.Matrix{1, math.Tan(args[0] * math.Pi / 180), 0, 1, 0, 0}, nil
		}

	default:
		return geometry.Matrix{}, fmt.Errorf("unsupported transform %q", name)
	}
	return geometry.Matrix{}, fmt.Errorf("%s: wrong number of arguments (%d)", name, len(args))
}
