// Package geometry holds the pure 2D math behind the editor: affine
// matrices, bounding boxes and point containment for zone shapes.
package geometry

import (
	"errors"
	"math"

	"seatmap-editor/internal/editor/models"
)

var ErrSingularMatrix = errors.New("matrix is not invertible")

// Matrix is a 2D affine transform stored as [A B C D E F]:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix [6]float64

func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// RotateDeg rotates by angle degrees (clockwise on a y-down screen).
func RotateDeg(angle float64) Matrix {
	rad := angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// Multiply returns the transform that applies m first and then other.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

func (m Matrix) Apply(p models.Point) models.Point {
	return models.Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

func (m Matrix) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

func (m Matrix) Invert() (Matrix, error) {
	det := m.Determinant()
	if math.Abs(det) < 1e-12 {
		return Matrix{}, ErrSingularMatrix
	}
	return Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}, nil
}

// FromTransform builds the local-to-parent matrix: scale, rotate, translate.
func FromTransform(t models.Transform) Matrix {
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return Scale(sx, sy).
		Multiply(RotateDeg(t.Rotation)).
		Multiply(Translate(t.X, t.Y))
}

// Compose folds a chain of transforms ordered from the outermost ancestor to
// the leaf into a single leaf-local-to-scene matrix.
func Compose(chain []models.Transform) Matrix {
	world := Identity()
	for i := len(chain) - 1; i >= 0; i-- {
		world = world.Multiply(FromTransform(chain[i]))
	}
	return world
}

// Decompose recovers scale, rotation and translation from m. It fails when m
// carries skew or collapses an axis, since Transform cannot express either.
func Decompose(m Matrix) (models.Transform, bool) {
	sx := math.Hypot(m[0], m[1])
	if sx < 1e-12 {
		return models.Transform{}, false
	}
	rad := math.Atan2(m[1], m[0])
	sy := m.Determinant() / sx
	if math.Abs(sy) < 1e-12 {
		return models.Transform{}, false
	}
	cos, sin := math.Cos(rad), math.Sin(rad)
	tol := 1e-9 * math.Max(1, math.Abs(sy))
	if math.Abs(m[2]+sy*sin) > tol || math.Abs(m[3]-sy*cos) > tol {
		return models.Transform{}, false
	}
	return models.Transform{
		X:        m[4],
		Y:        m[5],
		Rotation: rad * 180 / math.Pi,
		ScaleX:   sx,
		ScaleY:   sy,
	}, true
}
