package render

import (
	"github.com/gdamore/tcell/v2"
)

// RGB palette, Tokyo Night background
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)
	RgbBorder     = tcell.NewRGBColor(90, 95, 130)
	RgbBall       = tcell.NewRGBColor(255, 255, 255)
	RgbBar        = tcell.NewRGBColor(255, 165, 0)
	RgbStatusText = tcell.NewRGBColor(200, 200, 200)
	RgbHelpText   = tcell.NewRGBColor(110, 115, 140)
	RgbWon        = tcell.NewRGBColor(50, 255, 50)
	RgbWarning    = tcell.NewRGBColor(255, 80, 80)
)

// brickRowColors cycles per brick row from the top
var brickRowColors = []tcell.Color{
	tcell.NewRGBColor(255, 80, 80),
	tcell.NewRGBColor(255, 165, 0),
	tcell.NewRGBColor(255, 255, 0),
	tcell.NewRGBColor(0, 200, 0),
	tcell.NewRGBColor(100, 150, 255),
	tcell.NewRGBColor(200, 120, 255),
}

// BrickColor returns the color of the brick row containing y
func BrickColor(row int) tcell.Color {
	if row < 0 {
		row = -row
	}
	return brickRowColors[row%len(brickRowColors)]
}
