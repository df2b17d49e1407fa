package ide_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theCapypara/nix-jetbrains-plugins/internal/ide"
)

func TestFromCode(t *testing.T) {
	product, ok := ide.FromCode("IU")
	require.True(t, ok)
	assert.Equal(t, ide.IntelliJIdea, product)
	assert.Equal(t, "idea", product.Key())
	assert.Equal(t, "IU", product.Code())

	_, ok = ide.FromCode("NOPE")
	assert.False(t, ok)
}

func TestFromKeyResolvesAliases(t *testing.T) {
	tests := []struct {
		key      string
		expected ide.Product
	}{
		{"idea", ide.IntelliJIdea},
		{"idea-ultimate", ide.IntelliJIdea},
		{"idea-community", ide.IntelliJIdea},
		{"idea-oss", ide.IntelliJIdea},
		{"pycharm-professional", ide.PyCharm},
		{"pycharm", ide.PyCharm},
		{"rustrover", ide.RustRover},
		{"android-studio", ide.AndroidStudio},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			product, ok := ide.FromKey(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.expected, product)
		})
	}
}

func TestCanonicalKey(t *testing.T) {
	assert.Equal(t, "idea", ide.CanonicalKey("idea-ultimate"))
	assert.Equal(t, "goland", ide.CanonicalKey("goland"))
	assert.Equal(t, "not-an-ide", ide.CanonicalKey("not-an-ide"))
}

func TestStoreFilenameRoundTrip(t *testing.T) {
	v := ide.Version{Product: ide.RustRover, Version: "2025.2"}
	assert.Equal(t, "rust-rover-2025.2.json", v.StoreFilename())

	parsed, ok := ide.ParseStoreFilename("rust-rover-2025.2.json")
	require.True(t, ok)
	assert.Equal(t, ide.RustRover, parsed.Product)
	assert.Equal(t, "2025.2", parsed.Version)
}

func TestParseStoreFilenameRejectsUnknown(t *testing.T) {
	_, ok := ide.ParseStoreFilename("notanide-2025.2.json")
	assert.False(t, ok)

	_, ok = ide.ParseStoreFilename("idea-2025.2.txt")
	assert.False(t, ok)

	_, ok = ide.ParseStoreFilename("idea.json")
	assert.False(t, ok)
}

func TestDefaultWindow(t *testing.T) {
	now := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)
	window := ide.DefaultWindow(now)

	assert.True(t, window.Allows("2026.1"))
	assert.True(t, window.Allows("2026.3"))
	assert.True(t, window.Allows("2027.1"))
	assert.True(t, window.Allows("2025.3"))
	assert.True(t, window.Allows("2025.3.2"))
	assert.False(t, window.Allows("2025.2"))
	assert.False(t, window.Allows("2024.3"))
}

func TestWindowFromPrefixes(t *testing.T) {
	window := ide.WindowFromPrefixes([]string{"2024.3"})
	assert.True(t, window.Allows("2024.3.1"))
	assert.False(t, window.Allows("2024.2"))
}
