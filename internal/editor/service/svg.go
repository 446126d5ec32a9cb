package service

import (
	"fmt"
	"io"

	"seatmap-editor/internal/editor/mapper"
	"seatmap-editor/internal/editor/scene"
)

// ============================================================
// SVG import / export
// ============================================================

// ImportSVG adds a venue plan to the current scene. The plan is built on a
// scratch copy first, so a broken document changes nothing.
func (e *Editor) ImportSVG(r io.Reader) (mapper.ImportSummary, Notice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	scratch := scene.New(scene.WithIDGenerator(e.scene.NewID))
	scratch.Restore(e.scene.Snapshot())

	summary, err := mapper.NewImporter(scratch, mapper.ImportOptions{
		ZoneColor: e.opts.ZoneColor,
		SeatFill:  e.activeColor,
	}).Import(r)
	if err != nil {
		return mapper.ImportSummary{}, Notice{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	guides := e.guides()
	e.scene.Restore(scratch.Snapshot())
	for _, g := range guides {
		_ = e.scene.AddObject(g)
	}
	e.commit("import svg")
	e.log.Info("svg imported", "zones", summary.Zones, "objects", summary.Objects, "seats", summary.Seats)
	return summary, success(fmt.Sprintf("Imported %d zones, %d objects, %d seats",
		summary.Zones, summary.Objects, summary.Seats)), nil
}

// ExportSVG renders the visible scene on a canvas sized to its content.
func (e *Editor) ExportSVG() (string, error) {
	e.mu.Lock()
	snap := e.scene.Snapshot()
	e.mu.Unlock()

	return mapper.NewRenderer().Render(snap, 0, 0)
}
