package scene

import (
	"seatmap-editor/internal/editor/models"
)

// ============================================================
// Z-order
// ============================================================

type OrderOp string

const (
	OrderForward  OrderOp = "forward"
	OrderBackward OrderOp = "backward"
	OrderFront    OrderOp = "front"
	OrderBack     OrderOp = "back"
)

func (op OrderOp) Valid() bool {
	switch op {
	case OrderForward, OrderBackward, OrderFront, OrderBack:
		return true
	}
	return false
}

// block is a top-level object together with its descendants, in list order.
type block struct {
	root    string
	members []*models.SceneObject
}

// Reorder moves the top-level blocks that contain ids. Group children always
// travel with their group.
func (s *Scene) Reorder(ids []string, op OrderOp) bool {
	selected := make(map[string]bool)
	for _, id := range ids {
		if root, ok := s.rootOf(id); ok {
			selected[root] = true
		}
	}
	if len(selected) == 0 || !op.Valid() {
		return false
	}

	blocks := s.blocks()
	switch op {
	case OrderFront, OrderBack:
		var picked, rest []block
		for _, b := range blocks {
			if selected[b.root] {
				picked = append(picked, b)
			} else {
				rest = append(rest, b)
			}
		}
		if op == OrderFront {
			blocks = append(rest, picked...)
		} else {
			blocks = append(picked, rest...)
		}
	case OrderForward:
		for i := len(blocks) - 2; i >= 0; i-- {
			if selected[blocks[i].root] && !selected[blocks[i+1].root] {
				blocks[i], blocks[i+1] = blocks[i+1], blocks[i]
			}
		}
	case OrderBackward:
		for i := 1; i < len(blocks); i++ {
			if selected[blocks[i].root] && !selected[blocks[i-1].root] {
				blocks[i], blocks[i-1] = blocks[i-1], blocks[i]
			}
		}
	}

	s.flatten(blocks)
	return true
}

// ReorderZone moves every object of a zone as one block.
func (s *Scene) ReorderZone(zoneID string, op OrderOp) bool {
	if s.zoneRef(zoneID) == nil {
		return false
	}
	return s.Reorder(s.ObjectsInZone(zoneID), op)
}

// ============================================================
// Duplicate & align
// ============================================================

const DuplicateOffset = 20.0

// Duplicate clones the top-level blocks containing ids, shifted by
// DuplicateOffset, and stacks the clones on top. A seat's linked label is
// cloned with it and the clone points at the new label. Returns the new root
// ids.
func (s *Scene) Duplicate(ids []string) []string {
	roots := s.uniqueRoots(ids)

	// a label that travels with a selected seat is not duplicated on its own
	carried := make(map[string]bool)
	for _, root := range roots {
		members := make(map[string]bool)
		s.collectDescendants(root, members)
		for id := range s.linkedLabels(members) {
			carried[id] = true
		}
	}

	var created []string
	for _, root := range roots {
		if carried[root] {
			continue
		}
		members := make(map[string]bool)
		s.collectDescendants(root, members)
		labels := s.linkedLabels(members)
		for id := range labels {
			if s.index[id].ParentID != "" {
				delete(labels, id)
				continue
			}
			members[id] = true
		}

		rename := make(map[string]string, len(members))
		for id := range members {
			rename[id] = s.newID(string(s.index[id].Kind))
		}

		var clones []*models.SceneObject
		for _, o := range s.objects {
			if !members[o.ID] {
				continue
			}
			c := o.Clone()
			c.ID = rename[o.ID]
			c.ParentID = rename[o.ParentID]
			for i, child := range c.Shape.Children {
				c.Shape.Children[i] = rename[child]
			}
			if c.Seat != nil && c.Seat.LabelID != "" {
				if id, ok := rename[c.Seat.LabelID]; ok {
					c.Seat.LabelID = id
				}
			}
			if o.ID == root || labels[o.ID] {
				c.Transform.X += DuplicateOffset
				c.Transform.Y += DuplicateOffset
				c.Locked = false
			}
			clones = append(clones, &c)
		}

		for _, c := range clones {
			s.objects = append(s.objects, c)
			s.index[c.ID] = c
			if c.Kind == models.KindSeat {
				s.adjustSeatCapacity(c.ZoneID, +1)
			}
		}
		created = append(created, rename[root])
	}
	return created
}

type AlignDirection string

const (
	AlignLeft   AlignDirection = "left"
	AlignCenter AlignDirection = "center"
	AlignRight  AlignDirection = "right"
	AlignTop    AlignDirection = "top"
	AlignMiddle AlignDirection = "middle"
	AlignBottom AlignDirection = "bottom"
)

func (d AlignDirection) Valid() bool {
	switch d {
	case AlignLeft, AlignCenter, AlignRight, AlignTop, AlignMiddle, AlignBottom:
		return true
	}
	return false
}

// Align lines up the selected top-level objects against the union of their
// bounds. Locked objects keep their place. Returns how many objects moved.
func (s *Scene) Align(ids []string, dir AlignDirection) int {
	if !dir.Valid() {
		return 0
	}
	roots := s.uniqueRoots(ids)
	target, ok := s.SelectionBounds(roots)
	if !ok {
		return 0
	}

	moved := 0
	for _, id := range roots {
		o := s.index[id]
		if o.Locked {
			continue
		}
		b, ok := s.Bounds(id)
		if !ok {
			continue
		}
		var dx, dy float64
		switch dir {
		case AlignLeft:
			dx = target.X - b.X
		case AlignCenter:
			dx = target.Center().X - b.Center().X
		case AlignRight:
			dx = target.MaxX() - b.MaxX()
		case AlignTop:
			dy = target.Y - b.Y
		case AlignMiddle:
			dy = target.Center().Y - b.Center().Y
		case AlignBottom:
			dy = target.MaxY() - b.MaxY()
		}
		if dx == 0 && dy == 0 {
			continue
		}
		o.Transform.X += dx
		o.Transform.Y += dy
		moved++
	}
	return moved
}

// ============================================================
// Helpers
// ============================================================

func (s *Scene) rootOf(id string) (string, bool) {
	o, ok := s.index[id]
	if !ok {
		return "", false
	}
	seen := make(map[string]bool)
	for o.ParentID != "" && !seen[o.ID] {
		seen[o.ID] = true
		parent, ok := s.index[o.ParentID]
		if !ok {
			break
		}
		o = parent
	}
	return o.ID, true
}

func (s *Scene) uniqueRoots(ids []string) []string {
	seen := make(map[string]bool)
	var roots []string
	for _, id := range ids {
		root, ok := s.rootOf(id)
		if !ok || seen[root] {
			continue
		}
		seen[root] = true
		roots = append(roots, root)
	}
	return roots
}

func (s *Scene) blocks() []block {
	var out []block
	pos := make(map[string]int)
	for _, o := range s.objects {
		root, _ := s.rootOf(o.ID)
		i, ok := pos[root]
		if !ok {
			i = len(out)
			pos[root] = i
			out = append(out, block{root: root})
		}
		out[i].members = append(out[i].members, o)
	}
	return out
}

func (s *Scene) flatten(blocks []block) {
	objects := make([]*models.SceneObject, 0, len(s.objects))
	for _, b := range blocks {
		objects = append(objects, b.members...)
	}
	s.objects = objects
}
