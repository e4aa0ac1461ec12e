package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	powarerrors "github.com/alexisbeaulieu97/powar/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseManifest loads a manifest from disk, validates it, and returns the resulting model.
// The format is chosen by extension: .yaml, .yml or .toml.
func ParseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, powarerrors.NewParseError(path, 0, err)
	}

	manifest, err := decode(path, data)
	if err != nil {
		return nil, err
	}

	if err := ValidateManifest(manifest); err != nil {
		return nil, err
	}

	return manifest, nil
}

func decode(path string, data []byte) (*Manifest, error) {
	var manifest Manifest

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&manifest); err != nil && !errors.Is(err, io.EOF) {
			return nil, powarerrors.NewParseError(path, extractYAMLLine(err), err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
		if err := dec.Decode(&manifest); err != nil {
			return nil, powarerrors.NewParseError(path, extractTOMLLine(err), err)
		}
	default:
		return nil, powarerrors.NewParseError(path, 0, fmt.Errorf("unsupported manifest extension %q (expected .yaml, .yml or .toml)", ext))
	}

	return &manifest, nil
}

func extractYAMLLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}

func extractTOMLLine(err error) int {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, _ := decodeErr.Position()
		return row
	}
	return 0
}
