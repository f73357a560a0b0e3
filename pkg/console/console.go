// Package console provides styled terminal output helpers shared by every
// command. All styling goes through lipgloss so color degrades cleanly on
// non-TTY output.
package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const separatorWidth = 60

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	verboseStyle = lipgloss.NewStyle().Faint(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

// FormatSuccessMessage formats a success message with a checkmark prefix.
func FormatSuccessMessage(msg string) string {
	return successStyle.Render("✓ " + msg)
}

// FormatErrorMessage formats an error message with a cross prefix.
func FormatErrorMessage(msg string) string {
	return errorStyle.Render("✗ " + msg)
}

// FormatWarningMessage formats a warning message.
func FormatWarningMessage(msg string) string {
	return warningStyle.Render("⚠ " + msg)
}

// FormatInfoMessage formats an informational message.
func FormatInfoMessage(msg string) string {
	return infoStyle.Render(msg)
}

// FormatCommandMessage formats a shell command suggested to the user,
// such as an install hint or a fix command.
func FormatCommandMessage(msg string) string {
	return commandStyle.Render(msg)
}

// FormatVerboseMessage formats a low-priority diagnostic message.
func FormatVerboseMessage(msg string) string {
	return verboseStyle.Render(msg)
}

// FormatHeader formats a section header like "=== Running Black ===".
func FormatHeader(msg string) string {
	return headerStyle.Render(fmt.Sprintf("=== %s ===", msg))
}

// FormatBold formats text in bold.
func FormatBold(msg string) string {
	return boldStyle.Render(msg)
}

// Separator returns a horizontal rule used around report summaries.
func Separator() string {
	return strings.Repeat("=", separatorWidth)
}
