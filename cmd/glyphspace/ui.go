package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"glyphspace/internal/rules"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	glyphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3"))

	reportBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2a3850")).
			Padding(0, 1)
)

// renderReport formats a validation report for the terminal: errors first,
// then advisories, inside a bordered box.
func renderReport(report rules.ValidationReport) string {
	var b strings.Builder

	if report.IsValid {
		b.WriteString(okStyle.Render("✓ rules are valid"))
	} else {
		b.WriteString(errStyle.Render("✗ rules have errors"))
	}
	b.WriteString("\n")

	for _, msg := range report.Errors() {
		b.WriteString(errStyle.Render("error") + "  " + msg + "\n")
	}
	for _, msg := range report.Warnings() {
		b.WriteString(warnStyle.Render("warn") + "   " + msg + "\n")
	}

	return reportBox.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

// renderWarnings prints command warnings, one per line.
func renderWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Println(warnStyle.Render("warn") + "   " + w)
	}
}
