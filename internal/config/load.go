package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sanket-telunagi/pyautos/internal/util"
)

// LoadConfig reads, parses, and validates the YAML file holding the ordered
// list of API checks. Any failure here is fatal to the run.
func LoadConfig(filename string) (*Config, error) {
	fileBytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filename, err)
	}

	var config Config
	if err := yaml.Unmarshal(fileBytes, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in '%s': %w", filename, err)
	}

	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadSettings reads and parses the YAML environment file. The same bytes
// are decoded twice: once into the typed Settings struct and once into a
// generic mapping whose top-level scalars seed the environment store.
// Directory and template paths get environment-variable expansion; the
// store receives the raw values.
func LoadSettings(filename string) (*Settings, error) {
	fileBytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment file '%s': %w", filename, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(fileBytes, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in '%s': %w", filename, err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(fileBytes, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in '%s': %w", filename, err)
	}
	settings.Vars = topLevelScalars(raw)

	settings.PayloadDir = util.ExpandEnvUniversal(settings.PayloadDir)
	settings.ResultDir = util.ExpandEnvUniversal(settings.ResultDir)
	settings.HTMLTemplateFile = util.ExpandEnvUniversal(settings.HTMLTemplateFile)

	return &settings, nil
}

// topLevelScalars extracts the top-level scalar values of the environment
// file as strings. Nested mappings (the email block) and sequences do not
// become store variables.
func topLevelScalars(raw map[string]interface{}) map[string]string {
	vars := make(map[string]string, len(raw))
	for key, value := range raw {
		switch value.(type) {
		case nil, map[string]interface{}, map[interface{}]interface{}, []interface{}:
			continue
		default:
			vars[key] = fmt.Sprint(value)
		}
	}
	return vars
}
