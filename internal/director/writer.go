package director

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// WriteScript writes a script to a YAML file
func WriteScript(script *Script, path string) error {
	data, err := yaml.Marshal(script)
	if err != nil {
		return errors.Wrap(err, "marshal script")
	}

	return errors.Wrapf(os.WriteFile(path, data, 0644), "write script %s", path)
}

// ReadScript reads a script from a YAML file
func ReadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read script %s", path)
	}

	return ParseScript(data)
}

// ParseScript decodes a YAML script and fills scene defaults
func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, errors.Wrap(err, "decode script")
	}

	script.Normalize()
	return &script, nil
}
