package ide

import (
	"fmt"
	"strings"

	"github.com/theCapypara/nix-jetbrains-plugins/internal/buildnum"
)

// Version is one released build of a product.
type Version struct {
	Product Product
	// Version is the marketing version ("2025.2").
	Version string
	// Build is the platform build number used for plugin compatibility
	// checks ("252.23892.409"). Empty when the Version was recovered from a
	// manifest filename.
	Build buildnum.Number
}

func (v Version) String() string {
	return fmt.Sprintf("%s %s", v.Product.Key(), v.Version)
}

// StoreFilename returns the manifest filename for this version.
func (v Version) StoreFilename() string {
	return fmt.Sprintf("%s-%s.json", v.Product.Key(), v.Version)
}

// ParseStoreFilename recovers a Version from a manifest filename. The name
// part is everything up to the last "-"; it must resolve against the product
// catalog. The build number is not recoverable from a filename.
func ParseStoreFilename(filename string) (Version, bool) {
	name, ok := strings.CutSuffix(filename, ".json")
	if !ok {
		return Version{}, false
	}
	idx := strings.LastIndex(name, "-")
	if idx <= 0 || idx == len(name)-1 {
		return Version{}, false
	}
	product, ok := FromKey(name[:idx])
	if !ok {
		return Version{}, false
	}
	return Version{Product: product, Version: name[idx+1:]}, true
}
