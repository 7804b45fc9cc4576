// Package columns loads the column catalog the formula editor validates
// against, from CSV headers or a YAML list, and can watch the source file
// for changes.
package columns

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads column names from path. CSV files contribute their header row;
// .yaml/.yml files hold either a plain string list or a mapping with a
// "columns" key.
func Load(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported column source %q (want .csv, .yaml, or .yml)", path)
	}
}

func loadCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open column source: %w", err)
	}
	defer func() { _ = f.Close() }()

	header, err := csv.NewReader(f).Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make([]string, 0, len(header))
	for _, name := range header {
		name = strings.TrimSpace(name)
		if name != "" {
			cols = append(cols, name)
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no column names in CSV header of %s", path)
	}
	return cols, nil
}

// yamlDoc covers the mapping form of a column file.
type yamlDoc struct {
	Columns []string `yaml:"columns"`
}

func loadYAML(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read column source: %w", err)
	}

	var plain []string
	if err := yaml.Unmarshal(data, &plain); err == nil && len(plain) > 0 {
		return trimAll(plain), nil
	}

	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse column source: %w", err)
	}
	if len(doc.Columns) == 0 {
		return nil, fmt.Errorf("no columns found in %s", path)
	}
	return trimAll(doc.Columns), nil
}

func trimAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
