package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	HeaderBg    tcell.Color
	HeaderFg    tcell.Color
	QueryFg     tcell.Color
	PlaceholdFg tcell.Color
	SelectionBg tcell.Color
	SelectionFg tcell.Color
	DirectoryFg tcell.Color
	FileFg      tcell.Color
	MetaFg      tcell.Color
	PathFg      tcell.Color
	StatusBg    tcell.Color
	StatusFg    tcell.Color
	ErrorFg     tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		HeaderBg:    tcell.Color236,
		HeaderFg:    tcell.Color252,
		QueryFg:     tcell.ColorDefault,
		PlaceholdFg: tcell.ColorLightSlateGray,
		SelectionBg: tcell.Color33,
		SelectionFg: tcell.ColorWhite,
		DirectoryFg: tcell.Color33,
		FileFg:      tcell.ColorDefault,
		MetaFg:      tcell.ColorLightSlateGray,
		PathFg:      tcell.Color245,
		StatusBg:    tcell.ColorDefault,
		StatusFg:    tcell.ColorDefault,
		ErrorFg:     tcell.ColorRed,
	}
}
