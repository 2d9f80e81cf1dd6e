package model

// Theme color keys a tag can be painted with
const (
	ColorBlue   = "blue"
	ColorOrange = "orange"
	ColorPink   = "pink"
	ColorPurple = "purple"
	ColorRed    = "red"
	ColorSlate  = "slate"
)

// ThemeColors maps each color key to its hex swatch
var ThemeColors = map[string]string{
	ColorBlue:   "#EBF2FF",
	ColorOrange: "#FFF7ED",
	ColorPink:   "#FDF2F8",
	ColorPurple: "#FAF5FF",
	ColorRed:    "#FEF2F2",
	ColorSlate:  "#F8FAFC",
}

// TagUrgent is the tag key used for urgent projects
const TagUrgent = "urgent"

// TagColors maps a tag label (a status or "urgent") to a theme color key
type TagColors map[string]string

// DefaultTagColors returns the palette used before the user customizes it
func DefaultTagColors() TagColors {
	return TagColors{
		string(StatusTodo):       ColorOrange,
		string(StatusInProgress): ColorPink,
		string(StatusToDeliver):  ColorPurple,
		string(StatusDone):       ColorBlue,
		TagUrgent:                ColorRed,
	}
}

// ColorFor returns the color key of a tag, slate when unset
func (c TagColors) ColorFor(tag string) string {
	if color, ok := c[tag]; ok {
		if _, known := ThemeColors[color]; known {
			return color
		}
	}
	return ColorSlate
}
