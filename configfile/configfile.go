// Package configfile loads configuration files into the shared value model.
// The canonical encoding is JSON; YAML and TOML files are accepted as
// conveniences and normalized into the same model before they reach the
// bridge. No schema is enforced: whatever the file holds is handed to the
// engine untouched.
package configfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/linqs/psl-runtime-go/value"
)

// Load reads a configuration file and decodes it into the value model.
// The codec is chosen by extension: .yaml/.yml and .toml get their own
// decoders, everything else is treated as JSON.
func Load(path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	case ".toml":
		return decodeTOML(data)
	default:
		v, err := value.Unmarshal(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		return v, nil
	}
}

func decodeYAML(data []byte) (value.Value, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml config: %w", err)
	}

	v, err := value.FromGo(raw)
	if err != nil {
		return nil, fmt.Errorf("yaml config outside the value model: %w", err)
	}
	return v, nil
}

func decodeTOML(data []byte) (value.Value, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse toml config: %w", err)
	}

	v, err := value.FromGo(raw)
	if err != nil {
		return nil, fmt.Errorf("toml config outside the value model: %w", err)
	}
	return v, nil
}
