package models

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform is the local-to-parent placement of an object: scale first,
// then rotation (degrees, clockwise in screen space), then translation.
type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
}

func IdentityTransform() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

func TranslateTransform(x, y float64) Transform {
	return Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}
}

// ============================================================
// Zones
// ============================================================

type ZoneKind string

const (
	ZoneSection ZoneKind = "section"
	ZoneStage   ZoneKind = "stage"
	ZoneAisle   ZoneKind = "aisle"
	ZoneCustom  ZoneKind = "custom"
)

func (k ZoneKind) Valid() bool {
	switch k {
	case ZoneSection, ZoneStage, ZoneAisle, ZoneCustom:
		return true
	}
	return false
}

type Zone struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Color    string   `json:"color"`
	Kind     ZoneKind `json:"kind"`
	Price    *float64 `json:"price,omitempty"`
	Capacity *int     `json:"capacity,omitempty"`
	Visible  bool     `json:"visible"`
}

func (z Zone) Clone() Zone {
	out := z
	if z.Price != nil {
		p := *z.Price
		out.Price = &p
	}
	if z.Capacity != nil {
		c := *z.Capacity
		out.Capacity = &c
	}
	return out
}

// ============================================================
// Scene objects
// ============================================================

type ObjectKind string

const (
	KindZoneShape ObjectKind = "zone-shape"
	KindSeat      ObjectKind = "seat"
	KindLabel     ObjectKind = "label"
	KindGuide     ObjectKind = "guide"
)

type ShapeType string

const (
	ShapeRect    ShapeType = "rect"
	ShapeCircle  ShapeType = "circle"
	ShapePolygon ShapeType = "polygon"
	ShapeLine    ShapeType = "line"
	ShapeText    ShapeType = "text"
	ShapeGroup   ShapeType = "group"
)

// Shape is the local-space geometry of an object. Which fields are
// meaningful depends on Type:
//
//	rect     Width, Height (local box [0,W]x[0,H])
//	circle   Radius (local box [0,2R]x[0,2R], center at (R,R))
//	polygon  Points
//	line     Points (two)
//	text     Text, FontSize
//	group    Children (ids, in z-order)
type Shape struct {
	Type     ShapeType `json:"type"`
	Width    float64   `json:"width,omitempty"`
	Height   float64   `json:"height,omitempty"`
	Radius   float64   `json:"radius,omitempty"`
	Points   []Point   `json:"points,omitempty"`
	Text     string    `json:"text,omitempty"`
	FontSize float64   `json:"fontSize,omitempty"`
	Children []string  `json:"children,omitempty"`
}

type Style struct {
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Opacity     float64 `json:"opacity"`
}

// Metadata holds per-object overrides of zone-level attributes.
type Metadata struct {
	Name     string   `json:"name,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Capacity *int     `json:"capacity,omitempty"`
}

type SeatKind string

const (
	SeatRegular    SeatKind = "regular"
	SeatVIP        SeatKind = "vip"
	SeatAccessible SeatKind = "accessible"
	SeatBlocked    SeatKind = "blocked"
)

type SeatShape string

const (
	SeatCircle SeatShape = "circle"
	SeatSquare SeatShape = "square"
)

type SeatInfo struct {
	Row     string    `json:"row"`
	Number  int       `json:"number"`
	Kind    SeatKind  `json:"kind"`
	Marker  SeatShape `json:"marker"`
	// LabelID names the row/number label that is deleted and duplicated
	// together with the seat.
	LabelID string `json:"labelId,omitempty"`
}

type SceneObject struct {
	ID          string     `json:"id"`
	Kind        ObjectKind `json:"kind"`
	ZoneID      string     `json:"zoneId,omitempty"`
	ParentID    string     `json:"parentId,omitempty"`
	Transform   Transform  `json:"transform"`
	Shape       Shape      `json:"shape"`
	Style       Style      `json:"style"`
	Meta        Metadata   `json:"meta"`
	Seat        *SeatInfo  `json:"seat,omitempty"`
	Locked      bool       `json:"locked"`
	Visible     bool       `json:"visible"`
	Interactive bool       `json:"interactive"`
}

func (o SceneObject) Clone() SceneObject {
	out := o
	if o.Shape.Points != nil {
		out.Shape.Points = append([]Point(nil), o.Shape.Points...)
	}
	if o.Shape.Children != nil {
		out.Shape.Children = append([]string(nil), o.Shape.Children...)
	}
	if o.Meta.Price != nil {
		p := *o.Meta.Price
		out.Meta.Price = &p
	}
	if o.Meta.Capacity != nil {
		c := *o.Meta.Capacity
		out.Meta.Capacity = &c
	}
	if o.Seat != nil {
		s := *o.Seat
		out.Seat = &s
	}
	return out
}

func (o SceneObject) IsGuide() bool {
	return o.Kind == KindGuide
}

// ============================================================
// Viewport & background
// ============================================================

type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	PanX   float64 `json:"panX"`
	PanY   float64 `json:"panY"`
	Zoom   float64 `json:"zoom"`
}

// VisibleCenter returns the scene coordinate shown at the middle of the viewport.
func (v Viewport) VisibleCenter() Point {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return Point{
		X: (v.Width/2 - v.PanX) / zoom,
		Y: (v.Height/2 - v.PanY) / zoom,
	}
}

type Background struct {
	Path    string  `json:"path"`
	Format  string  `json:"format"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Scale   float64 `json:"scale"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Opacity float64 `json:"opacity"`
}
