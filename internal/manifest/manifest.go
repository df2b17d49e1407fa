package manifest

import (
	"github.com/theCapypara/nix-jetbrains-plugins/internal/ide"
)

// Manifest maps plugin ids to registry keys for one IDE version. The IDE is
// carried as a typed value; the filename encoding only exists at the store
// boundary.
type Manifest struct {
	IDE     ide.Version
	Plugins map[string]Key
}

// NewManifest creates an empty manifest for an IDE version.
func NewManifest(v ide.Version) *Manifest {
	return &Manifest{IDE: v, Plugins: make(map[string]Key)}
}

// Put records the resolved registry key for a plugin.
func (m *Manifest) Put(pluginID string, key Key) {
	m.Plugins[pluginID] = key
}
