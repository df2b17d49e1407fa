package marketplace

// knownBroken lists plugin ids that cannot be processed at all, with the
// reason they are excluded.
var knownBroken = map[string]string{
	"com.valord577.mybatis-navigator":       "invalid version numbers",
	"io.github.kings1990.FastRequest":       "archive contains invalid file names",
	"com.majera.intellij.codereview.gitlab": "archive contains invalid file names",
}

// listIDOverrides remaps plugin ids that the listing endpoint cannot handle
// under their real id. Download requests still use the real id.
var listIDOverrides = map[string]string{
	"23.bytecode-disassembler": "bytecode-disassembler",
}

// Broken reports whether a plugin id is excluded from processing.
func Broken(pluginID string) (reason string, ok bool) {
	reason, ok = knownBroken[pluginID]
	return reason, ok
}

func listID(pluginID string) string {
	if override, ok := listIDOverrides[pluginID]; ok {
		return override
	}
	return pluginID
}
