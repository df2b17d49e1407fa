// Package ide holds the catalog of supported JetBrains products and the
// clients for their release feeds.
package ide

// Product identifies one supported IDE product line.
type Product int

const (
	ProductUnknown Product = iota
	IntelliJIdea
	PhpStorm
	WebStorm
	PyCharm
	RubyMine
	CLion
	GoLand
	DataGrip
	DataSpell
	Rider
	AndroidStudio
	RustRover
	Aqua
	Writerside
	Mps
)

// products is the single source of truth linking marketplace product codes
// to the keys used for manifest files.
var products = []struct {
	product Product
	code    string
	key     string
}{
	{IntelliJIdea, "IU", "idea"},
	{PhpStorm, "PS", "phpstorm"},
	{WebStorm, "WS", "webstorm"},
	{PyCharm, "PY", "pycharm"},
	{RubyMine, "RM", "ruby-mine"},
	{CLion, "CL", "clion"},
	{GoLand, "GO", "goland"},
	{DataGrip, "DB", "datagrip"},
	{DataSpell, "DS", "dataspell"},
	{Rider, "RD", "rider"},
	{AndroidStudio, "AI", "android-studio"},
	{RustRover, "RR", "rust-rover"},
	{Aqua, "QA", "aqua"},
	{Writerside, "WRS", "writerside"},
	{Mps, "MPS", "mps"},
}

// FromCode looks up a product by its marketplace product code ("IU", "PS", ...).
func FromCode(code string) (Product, bool) {
	for _, p := range products {
		if p.code == code {
			return p.product, true
		}
	}
	return ProductUnknown, false
}

// FromKey looks up a product by its manifest key ("idea", "goland", ...).
// Alias keys are resolved to their canonical product.
func FromKey(key string) (Product, bool) {
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	for _, p := range products {
		if p.key == key {
			return p.product, true
		}
	}
	return ProductUnknown, false
}

// Code returns the marketplace product code.
func (p Product) Code() string {
	for _, entry := range products {
		if entry.product == p {
			return entry.code
		}
	}
	return ""
}

// Key returns the manifest key.
func (p Product) Key() string {
	for _, entry := range products {
		if entry.product == p {
			return entry.key
		}
	}
	return ""
}

func (p Product) String() string { return p.Key() }

// All returns every supported product.
func All() []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p.product
	}
	return out
}
