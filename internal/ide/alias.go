package ide

// aliases maps legacy or variant IDE keys to the canonical manifest key.
// The marketplace does not distinguish editions for plugin compatibility,
// so all editions of a product share one manifest family.
var aliases = map[string]string{
	"idea-ultimate":        "idea",
	"idea-community":       "idea",
	"idea-oss":             "idea",
	"pycharm-professional": "pycharm",
	"pycharm-community":    "pycharm",
	"pycharm-oss":          "pycharm",
	"rubymine":             "ruby-mine",
	"rustrover":            "rust-rover",
	"androidstudio":        "android-studio",
}

// CanonicalKey resolves an IDE key through the alias table. Unknown keys are
// returned unchanged.
func CanonicalKey(key string) string {
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return key
}
