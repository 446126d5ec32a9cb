package models

// ============================================================
// Seat grid
// ============================================================

type GridParams struct {
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	RowSpacing  float64   `json:"rowSpacing"`
	SeatSpacing float64   `json:"seatSpacing"`
	StartRow    string    `json:"startRow"`
	SeatKind    SeatKind  `json:"seatKind"`
	SeatShape   SeatShape `json:"seatShape"`
}

type LabelDescriptor struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Center   Point   `json:"center"`
	FontSize float64 `json:"fontSize"`
}

type SeatDescriptor struct {
	ID     string          `json:"id"`
	ZoneID string          `json:"zoneId"`
	Row    string          `json:"row"`
	Number int             `json:"number"`
	Center Point           `json:"center"`
	Radius float64         `json:"radius"`
	Kind   SeatKind        `json:"kind"`
	Marker SeatShape       `json:"marker"`
	Fill   string          `json:"fill"`
	Label  LabelDescriptor `json:"label"`
}
