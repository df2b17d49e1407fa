package marketplace

import (
	"github.com/theCapypara/nix-jetbrains-plugins/internal/buildnum"
)

// CompatibilityEntry is one version row from a plugin's marketplace listing.
type CompatibilityEntry struct {
	PluginID string
	Version  string
	// Builds is the IDE build range this version declares itself
	// compatible with.
	Builds buildnum.Range
	// Order is the row's position in the marketplace response. The
	// marketplace lists newest versions first and its order is the
	// deterministic tie-break for equal versions.
	Order int
}

// Descriptor locates one plugin artifact on the download host.
type Descriptor struct {
	// Path is the URL path below the download host, query stripped.
	Path string
	// Hash is the standard-base64 sha256 of the artifact, without an
	// algorithm prefix.
	Hash string
}
