package lox

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/log/v2"
)

// levelWidth pads level names so log lines stay aligned.
const levelWidth = 5

// levelColors maps each log level to its display colour.
var levelColors = map[log.Level]color.Color{
	log.DebugLevel: lipgloss.Color("63"),
	log.InfoLevel:  lipgloss.Color("86"),
	log.WarnLevel:  lipgloss.Color("192"),
	log.ErrorLevel: lipgloss.Color("204"),
	log.FatalLevel: lipgloss.Color("134"),
}

// defaultLogStyles returns the application log styles.
func defaultLogStyles() *log.Styles {
	styles := log.DefaultStyles()

	styles.Prefix = lipgloss.NewStyle().Bold(true).Faint(true)
	styles.Key = lipgloss.NewStyle().Faint(true)

	for level, color := range levelColors {
		styles.Levels[level] = lipgloss.NewStyle().
			SetString(strings.ToUpper(level.String())).
			Bold(true).
			MaxWidth(levelWidth).
			Foreground(color)
	}

	return styles
}
