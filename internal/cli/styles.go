// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#C678DD")
	// SuccessColor indicates passing categories and healthy services.
	SuccessColor = lipgloss.Color("#4ECDC4") // Teal
	// WarningColor indicates missed non-critical targets.
	WarningColor = lipgloss.Color("#FFE66D") // Yellow
	// ErrorColor indicates critical failures.
	ErrorColor = lipgloss.Color("#FF6B6B") // Red
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666") // Gray

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 1)
)

// PassRateStyle picks a style for a pass rate measured against its target.
func PassRateStyle(rate, target float64, critical bool) lipgloss.Style {
	switch {
	case rate >= target:
		return SuccessStyle
	case critical:
		return ErrorStyle
	default:
		return WarningStyle
	}
}

// GradeStyle picks a style for a letter grade.
func GradeStyle(grade string) lipgloss.Style {
	switch grade {
	case "A", "B":
		return SuccessStyle
	case "C":
		return WarningStyle
	default:
		return ErrorStyle
	}
}
