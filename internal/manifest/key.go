// Package manifest holds the generated artifacts: the global plugin
// registry and the per-IDE-version manifests, plus the on-disk store they
// are published to.
package manifest

import "strings"

// keySeparator joins plugin id and version into a registry key. Chosen so
// it cannot occur in either part.
const keySeparator = "/--/"

// Key identifies one (plugin id, plugin version) pair in the registry.
type Key string

// NewKey builds the registry key for a plugin version.
func NewKey(pluginID, version string) Key {
	return Key(pluginID + keySeparator + version)
}

// Split returns the plugin id and version encoded in the key.
func (k Key) Split() (pluginID, version string, ok bool) {
	pluginID, version, ok = strings.Cut(string(k), keySeparator)
	return pluginID, version, ok
}

// Entry is the download descriptor stored under a registry key. The short
// field names keep the generated registry file compact; it holds one row
// per published plugin version.
type Entry struct {
	// Path below the marketplace download host.
	Path string `json:"p"`
	// Hash is the standard-base64 sha256 of the artifact, consumers
	// prepend "sha256-".
	Hash string `json:"h"`
}
