package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Aliases maps short player names to their full "name#tag" identity.
// The zero value has no entries; use NewAliases or LoadAliases.
type Aliases struct {
	entries map[string]string
}

type aliasFile struct {
	Aliases map[string]string `yaml:"aliases" validate:"dive,keys,required,endkeys,required,contains=#"`
}

func defaultAliases() map[string]string {
	return map[string]string{
		"SOAD":            "SOAD__#5203",
		"BlankGeneration": "BlankGeneration#1623",
	}
}

func NewAliases(entries map[string]string) Aliases {
	copied := make(map[string]string, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return Aliases{entries: copied}
}

// Canonical returns the full identity for name when it is an exact alias
// match, otherwise name unchanged.
func (a Aliases) Canonical(name string) string {
	if full, ok := a.entries[name]; ok {
		return full
	}
	return name
}

func (a Aliases) Len() int {
	return len(a.entries)
}

// LoadAliases returns the built-in table, overlaid with the entries from the
// YAML file at path when path is set.
func LoadAliases(path string) (Aliases, error) {
	merged := defaultAliases()
	if strings.TrimSpace(path) == "" {
		return NewAliases(merged), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Aliases{}, err
	}
	var f aliasFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return Aliases{}, fmt.Errorf("aliases file %s: %w", path, err)
	}
	if err := validate.Struct(f); err != nil {
		return Aliases{}, fmt.Errorf("aliases file %s: %w", path, err)
	}
	for k, v := range f.Aliases {
		merged[k] = v
	}
	return NewAliases(merged), nil
}
