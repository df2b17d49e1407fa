package generator

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theCapypara/nix-jetbrains-plugins/internal/manifest"
)

// Summary is the human-readable outcome of a run. It is filled in whether
// the run succeeds or aborts.
type Summary struct {
	IDEVersions  int
	PluginsTotal int
	Placements   int
	Manifests    int
	RegistrySize int
	// Omitted counts (IDE version, plugin) cells without a compatible
	// version. Expected and plentiful.
	Omitted int
	// Skipped lists plugins excluded by the broken-plugin table.
	Skipped []string
	// Missing lists plugin versions the marketplace lists but does not
	// serve.
	Missing []string
	// Ambiguous lists resolution conflicts surfaced to the operator.
	Ambiguous []string
	// Conflict is set when the run aborted on a registry conflict.
	Conflict *manifest.ConflictError
}

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	summaryOkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	summaryWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	summaryFailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Render formats the summary for the terminal.
func (s *Summary) Render() string {
	var b strings.Builder

	b.WriteString(summaryTitleStyle.Render("Generation summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  IDE versions:      %d\n", s.IDEVersions)
	fmt.Fprintf(&b, "  Plugins indexed:   %d\n", s.PluginsTotal)
	fmt.Fprintf(&b, "  Manifest entries:  %d\n", s.Placements)
	fmt.Fprintf(&b, "  Manifests written: %d\n", s.Manifests)
	fmt.Fprintf(&b, "  Registry size:     %d\n", s.RegistrySize)
	fmt.Fprintf(&b, "  Incompatible:      %d\n", s.Omitted)

	writeList := func(header string, style lipgloss.Style, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString(style.Render(header))
		b.WriteString("\n")
		for _, item := range items {
			fmt.Fprintf(&b, "  - %s\n", item)
		}
	}
	writeList("Skipped plugins", summaryWarnStyle, s.Skipped)
	writeList("Unavailable downloads", summaryWarnStyle, s.Missing)
	writeList("Ambiguous resolutions", summaryWarnStyle, s.Ambiguous)

	if s.Conflict != nil {
		b.WriteString(summaryFailStyle.Render("Run aborted: " + s.Conflict.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(summaryOkStyle.Render("OK"))
		b.WriteString("\n")
	}
	return b.String()
}
