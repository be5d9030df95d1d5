// Package display provides terminal formatting for the CareLink CLI output.
package display

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkraev/carelink/internal/client/models"
)

var (
	Muted    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	Dim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	Bold     = lipgloss.NewStyle().Bold(true)
	Success  = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	ErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))

	UrgentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))
	UnreadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#d97706"))
	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
)

// MessageDot returns a colored status dot for one message row.
func MessageDot(m models.Message) string {
	switch {
	case m.Pending():
		return PendingStyle.Render("◌")
	case m.Urgent:
		return UrgentStyle.Render("●")
	case m.Unread:
		return UnreadStyle.Render("○")
	default:
		return Dim.Render("·")
	}
}

// ProviderRow formats a numbered directory entry.
func ProviderRow(n int, p models.Provider) string {
	name := Bold.Render(p.Name)
	if p.Specialty == "" {
		return fmt.Sprintf("  %2d. %s", n, name)
	}
	return fmt.Sprintf("  %2d. %s  %s", n, name, Muted.Render(p.Specialty))
}

// MessageRow formats one thread entry: status dot, author, relative time,
// then the body indented underneath.
func MessageRow(m models.Message) string {
	var b strings.Builder

	author := Bold.Render(m.AuthorName)
	when := Dim.Render(TimeAgo(m.SentAt))
	if m.Pending() {
		when = PendingStyle.Render("sending...")
	}
	fmt.Fprintf(&b, "  %s %s  ·  %s\n", MessageDot(m), author, when)

	for _, line := range strings.Split(strings.TrimSpace(m.Body), "\n") {
		fmt.Fprintf(&b, "      %s\n", Truncate(strings.TrimSpace(line), 80))
	}
	if m.AttachmentPath != "" {
		fmt.Fprintf(&b, "      %s\n", Muted.Render("📎 "+m.AttachmentPath))
	}
	return b.String()
}

// TimeAgo formats a timestamp as a relative time. A nil timestamp renders
// as an empty string.
func TimeAgo(t *time.Time) string {
	if t == nil {
		return ""
	}

	d := time.Since(*t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

// Truncate shortens a string to maxLen, adding ellipsis if needed.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// SuccessMsg prints a green checkmark + message.
func SuccessMsg(format string, args ...any) {
	fmt.Println(Success.Render("✓") + " " + fmt.Sprintf(format, args...))
}

// ErrorMsg prints a red X + message to stderr.
func ErrorMsg(format string, args ...any) {
	fmt.Fprintln(os.Stderr, ErrStyle.Render("✗")+" "+fmt.Sprintf(format, args...))
}

// Header prints a section header.
func Header(title string) {
	fmt.Println(Bold.Render(title))
}

// SubHeader prints a dim subsection label.
func SubHeader(title string) {
	fmt.Println(Muted.Render(title))
}
