package main

import (
	"nexus-assist/internal/toast"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#8BC34A")
	colorInfo    = lipgloss.Color("#2196F3")
	colorWarning = lipgloss.Color("#FFC107")
	colorError   = lipgloss.Color("#e53935")
	colorMuted   = lipgloss.Color("#8a94a6")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#101F38")).
			Background(colorSuccess).Padding(0, 1)
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorInfo)
)

func toastStyle(kind toast.Kind) (lipgloss.Style, string) {
	base := lipgloss.NewStyle().Bold(true)
	switch kind {
	case toast.Success:
		return base.Foreground(colorSuccess), "✔"
	case toast.Warning:
		return base.Foreground(colorWarning), "!"
	case toast.Error:
		return base.Foreground(colorError), "✖"
	default:
		return base.Foreground(colorInfo), "i"
	}
}

func renderToast(t toast.Toast) string {
	style, icon := toastStyle(t.Kind)
	return style.Render(icon+" ") + t.Message
}
