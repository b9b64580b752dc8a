package domain

// Axis is one fixed taste dimension rated per book, rendered as a radar
// chart spoke in the detail view.
type Axis struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// BaseAxes is the six-axis set every corpus carries.
var BaseAxes = []Axis{
	{Key: "erotic", Label: "エロ"},
	{Key: "grotesque", Label: "グロ"},
	{Key: "insane", Label: "狂気"},
	{Key: "paranormal", Label: "超常"},
	{Key: "esthetic", Label: "美的"},
	{Key: "painful", Label: "痛み"},
}

// ExtendedAxes are appended when the corpus file carries the extra columns.
var ExtendedAxes = []Axis{
	{Key: "action", Label: "アクション"},
	{Key: "mystery", Label: "ミステリ"},
}

// AxisValue is an axis paired with one book's rating, in stable axis order.
type AxisValue struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int    `json:"value"`
}
