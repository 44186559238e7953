package controller

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/myday/pkg/config"
	"github.com/rivo/tview"
)

func applyTheme(name string) error {
	switch name {
	case config.ThemeDark:
		tview.Styles = tview.Theme{
			PrimitiveBackgroundColor:    tcell.ColorBlack,
			ContrastBackgroundColor:     tcell.ColorDarkSlateGray,
			MoreContrastBackgroundColor: tcell.ColorSlateGray,
			BorderColor:                 tcell.ColorGray,
			TitleColor:                  tcell.ColorWhite,
			GraphicsColor:               tcell.ColorGray,
			PrimaryTextColor:            tcell.ColorWhite,
			SecondaryTextColor:          tcell.ColorYellow,
			TertiaryTextColor:           tcell.ColorGreen,
			InverseTextColor:            tcell.ColorBlue,
			ContrastSecondaryTextColor:  tcell.ColorDarkCyan,
		}
	case config.ThemeLight:
		tview.Styles = tview.Theme{
			PrimitiveBackgroundColor:    tcell.ColorWhite,
			ContrastBackgroundColor:     tcell.ColorLightSteelBlue,
			MoreContrastBackgroundColor: tcell.ColorLightGray,
			BorderColor:                 tcell.ColorDarkGray,
			TitleColor:                  tcell.ColorBlack,
			GraphicsColor:               tcell.ColorDarkGray,
			PrimaryTextColor:            tcell.ColorBlack,
			SecondaryTextColor:          tcell.ColorDarkBlue,
			TertiaryTextColor:           tcell.ColorDarkGreen,
			InverseTextColor:            tcell.ColorWhite,
			ContrastSecondaryTextColor:  tcell.ColorNavy,
		}
	default:
		return fmt.Errorf("unknown theme '%s'", name)
	}

	return nil
}
