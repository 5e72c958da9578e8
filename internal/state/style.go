package state

// Palette is the set of colours offered for drawing and element fills
var Palette = []string{
	"#000000", "#FF0000", "#00FF00", "#0000FF",
	"#FFFF00", "#FF00FF", "#00FFFF", "#808080",
	"#800000", "#008000", "#000080", "#808000",
}

// Fonts offered for text annotations
var Fonts = []string{"Arial", "Times New Roman", "Courier New", "Georgia", "Verdana", "Helvetica"}

const (
	PlaceholderText = "Double click to edit text"
	DefaultFontSize = 16
	DefaultFont     = "Arial"
	AlignLeft       = "left"
	AlignCenter     = "center"
	AlignRight      = "right"
	MinFontSize     = 8
	MaxFontSize     = 72
)

// SlidePresets are the common slide sizes in pixels
var SlidePresets = []struct {
	Name          string
	Width, Height float64
}{
	{"1920 × 1080", 1920, 1080},
	{"1280 × 720", 1280, 720},
	{"1024 × 768", 1024, 768},
	{"800 × 600", 800, 600},
}
