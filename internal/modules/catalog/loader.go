package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a catalog file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// LoadFile reads a catalog from path. The format follows the extension:
// .yaml/.yml is YAML, anything else JSON.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open: %w", err)
	}
	defer f.Close()

	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}
	c, err := Load(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load decodes an array of products from r.
func Load(r io.Reader, format Format) (*Catalog, error) {
	var products []Product
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&products); err != nil {
			return nil, fmt.Errorf("catalog: decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&products); err != nil && err != io.EOF {
			return nil, fmt.Errorf("catalog: decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("catalog: unsupported format %q", format)
	}
	return New(products)
}
