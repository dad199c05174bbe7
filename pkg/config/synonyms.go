package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bastiangx/listpick/internal/utils"
	"github.com/bastiangx/listpick/pkg/index"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// LoadSynonyms reads a synonym table from a .toml, .yaml or .yml file.
//
// Both formats map a canonical phrase to its aliases:
//
//	"united kingdom" = ["uk", "britain"]
//
//	united kingdom: [uk, britain]
//
// A TOML file may also keep the table under a [synonyms] section, so a
// full config file can be used as a synonym source.
func LoadSynonyms(path string) (index.SynonymTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read synonyms %s: %w", path, err)
	}

	var m map[string][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		m, err = parseTOMLSynonyms(data)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("unsupported synonyms file %s: want .toml, .yaml or .yml", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse synonyms %s: %w", path, err)
	}

	table := index.NewSynonymTable(m)
	log.Debugf("Loaded %d synonym entries from %s", len(table), path)
	return table, nil
}

func parseTOMLSynonyms(data []byte) (map[string][]string, error) {
	raw := make(map[string]any)
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, err
	}
	if section, ok := utils.ExtractSection(raw, "synonyms"); ok {
		raw = section
	}
	return utils.ExtractStringListMap(raw), nil
}
