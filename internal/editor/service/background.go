package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"seatmap-editor/internal/editor/models"
)

// ============================================================
// Background image
// ============================================================

const DefaultBackgroundOpacity = 0.5

// SetBackground decodes an uploaded raster image, stores it under the session
// directory and places it scaled to fit the viewport, centered. The previous
// background, if any, is replaced.
func (e *Editor) SetBackground(r io.Reader) (models.Background, Notice, error) {
	data, err := io.ReadAll(io.LimitReader(r, e.opts.MaxUploadBytes+1))
	if err != nil {
		return models.Background{}, Notice{}, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > e.opts.MaxUploadBytes {
		return models.Background{}, Notice{}, fmt.Errorf("image larger than %d bytes: %w", e.opts.MaxUploadBytes, ErrInvalidInput)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return models.Background{}, Notice{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	size := img.Bounds().Size()
	if size.X <= 0 || size.Y <= 0 {
		return models.Background{}, Notice{}, ErrInvalidImage
	}

	if e.files == nil {
		return models.Background{}, Notice{}, fmt.Errorf("background storage is not configured")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	path, err := e.files.WriteBackground(e.id, format, data)
	if err != nil {
		return models.Background{}, Notice{}, err
	}

	bg := FitBackground(size.X, size.Y, e.viewport)
	bg.Path = path
	bg.Format = format
	if prev, ok := e.scene.Background(); ok {
		bg.Opacity = prev.Opacity
	}
	e.scene.SetBackground(&bg)
	e.commit("background")
	e.log.Info("background set", "format", format, "width", size.X, "height", size.Y, "scale", bg.Scale)
	return bg, success(fmt.Sprintf("Background loaded (%dx%d %s)", size.X, size.Y, format)), nil
}

// FitBackground scales an image uniformly so it fits inside the viewport and
// centers it there.
func FitBackground(width, height int, vp models.Viewport) models.Background {
	w, h := float64(width), float64(height)
	scale := math.Min(vp.Width/w, vp.Height/h)
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		scale = 1
	}
	return models.Background{
		Width:   width,
		Height:  height,
		Scale:   scale,
		X:       (vp.Width - w*scale) / 2,
		Y:       (vp.Height - h*scale) / 2,
		Opacity: DefaultBackgroundOpacity,
	}
}

// SetBackgroundOpacity clamps opacity into [0,1].
func (e *Editor) SetBackgroundOpacity(opacity float64) (Notice, error) {
	if math.IsNaN(opacity) {
		return Notice{}, fmt.Errorf("opacity: %w", ErrInvalidInput)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	bg, ok := e.scene.Background()
	if !ok {
		return Notice{}, ErrNoBackground
	}
	bg.Opacity = math.Max(0, math.Min(1, opacity))
	e.scene.SetBackground(&bg)
	e.commit("background opacity")
	return Notice{}, nil
}

// RemoveBackground drops the background from the scene. The stored file is
// kept so that undo can bring the image back.
func (e *Editor) RemoveBackground() (Notice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.scene.Background(); !ok {
		return Notice{}, ErrNoBackground
	}
	e.scene.SetBackground(nil)
	e.commit("remove background")
	return success("Background removed"), nil
}
