package ide

import (
	"fmt"
	"strings"
	"time"
)

// Window is the freshness window: the set of IDE release lines whose
// manifests are regenerated on a run. Lines outside the window are carried
// forward untouched.
type Window struct {
	prefixes []string
}

// DefaultWindow covers next year's EAP lines, every line of the current
// year, and the last minor line of the previous year. JetBrains ships three
// minors per year, so the previous year's last line is ".3".
func DefaultWindow(now time.Time) Window {
	year := now.Year()
	return Window{prefixes: []string{
		fmt.Sprintf("%d.", year+1),
		fmt.Sprintf("%d.", year),
		fmt.Sprintf("%d.3", year-1),
	}}
}

// WindowFromPrefixes builds a window from explicit version prefixes.
func WindowFromPrefixes(prefixes []string) Window {
	return Window{prefixes: prefixes}
}

// Allows reports whether an IDE version string falls inside the window.
func (w Window) Allows(version string) bool {
	for _, prefix := range w.prefixes {
		if strings.HasPrefix(version, prefix) {
			return true
		}
	}
	return false
}

// Prefixes returns the configured version prefixes.
func (w Window) Prefixes() []string { return w.prefixes }
