package models

// HeaderSpan describes a merged cell range on a header row.
type HeaderSpan struct {
	Row      int    `json:"row"`
	StartCol int    `json:"start_col"`
	EndCol   int    `json:"end_col"`
	Label    string `json:"label"`
}

// ColorRange tags a column interval with the grading category it belongs to.
// It is pure data; cosmetic formatting is applied by the spreadsheet layer.
type ColorRange struct {
	StartCol int             `json:"start_col"`
	EndCol   int             `json:"end_col"`
	Category GradingCategory `json:"category"`
}

// SheetContent is the complete presentation grid of one grade sheet.
// Every row holds exactly ColumnCount cells.
type SheetContent struct {
	Rows        [][]string   `json:"rows"`
	HeaderSpans []HeaderSpan `json:"header_spans"`
	ColorRanges []ColorRange `json:"color_ranges"`
	ColumnCount int          `json:"column_count"`
	// HeaderRows is the number of leading rows before the first student row.
	HeaderRows int `json:"header_rows"`
}
