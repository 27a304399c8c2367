package rates

import (
	"embed"
	"fmt"
	"path"
	"strings"
)

//go:embed data/*.json
var dataFS embed.FS

// NewStaticProvider loads the rate tables embedded in the binary. This is
// the default provider when no database source is configured.
func NewStaticProvider() (*Tables, error) {
	entries, err := dataFS.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded rate data: %w", err)
	}

	files := tableFiles{}
	for _, e := range entries {
		raw, err := dataFS.ReadFile(path.Join("data", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded table %s: %w", e.Name(), err)
		}
		files[strings.TrimSuffix(e.Name(), ".json")] = raw
	}

	return newTables(files)
}
