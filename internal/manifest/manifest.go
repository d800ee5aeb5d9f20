package manifest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Extraction formats, recorded in Info.Format.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
	FormatScan = "scan"
)

var (
	ErrNoManifest = errors.New("no manifest found")
	ErrNoVersion  = errors.New("no version found")
)

// Info describes a version extracted from a packaging manifest.
type Info struct {
	Path    string `json:"path"`
	Version string `json:"version"`
	Format  string `json:"format"`
}

// Manifest files probed by Detect, in priority order.
var candidates = []string{
	"pyproject.toml",
	"setup.py",
	"Cargo.toml",
	"package.json",
	"Chart.yaml",
	"version.txt",
	"VERSION",
}

// Detect returns the path of the first known manifest file found in dir.
func Detect(dir string) (string, error) {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s: %w", dir, ErrNoManifest)
}

// Extract reads the manifest at path and returns the version it declares.
// Files with a known structure (TOML, JSON, YAML) are parsed; anything
// else, and any structured file that fails to parse, is scanned line by
// line for the first version="<value>" assignment.
func Extract(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, fmt.Errorf("%s: %w", path, ErrNoManifest)
		}
		return Info{}, fmt.Errorf("read manifest %s: %w", path, err)
	}

	version, format := structured(path, data)
	if version == "" {
		version, format = scan(data), FormatScan
	}
	if version == "" {
		return Info{}, fmt.Errorf("%s: %w", path, ErrNoVersion)
	}

	return Info{Path: path, Version: version, Format: format}, nil
}

// structured extracts the version using the parser implied by the file name.
// Returns an empty version when the file has no known structure or the
// parser finds nothing; the caller falls back to a line scan.
func structured(path string, data []byte) (string, string) {
	base := filepath.Base(path)
	switch {
	case base == "pyproject.toml":
		return pyprojectVersion(data), FormatTOML
	case base == "Cargo.toml":
		return cargoVersion(data), FormatTOML
	case base == "version.txt" || base == "VERSION":
		return textVersion(data), FormatText
	}

	switch filepath.Ext(base) {
	case ".toml":
		return tomlVersion(data), FormatTOML
	case ".json":
		return jsonVersion(data), FormatJSON
	case ".yaml", ".yml":
		return yamlVersion(data), FormatYAML
	}

	return "", FormatScan
}

// versionLine matches an assignment of a double-quoted version string,
// e.g. `version = "1.2.3"` in setup.py or a TOML table.
var versionLine = regexp.MustCompile(`^\s*version\s*=\s*"([^"]*)"`)

// scan returns the value from the first line assigning version="<value>".
// Lines with an empty value are skipped.
func scan(data []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if m := versionLine.FindStringSubmatch(sc.Text()); m != nil && m[1] != "" {
			return m[1]
		}
	}
	return ""
}

func pyprojectVersion(data []byte) string {
	var p struct {
		Project struct {
			Version string `toml:"version"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Version string `toml:"version"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return ""
	}
	if p.Project.Version != "" {
		return p.Project.Version
	}
	return p.Tool.Poetry.Version
}

func cargoVersion(data []byte) string {
	var c struct {
		Package struct {
			Version string `toml:"version"`
		} `toml:"package"`
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return ""
	}
	return c.Package.Version
}

func tomlVersion(data []byte) string {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return ""
	}
	v, _ := raw["version"].(string)
	return v
}

func jsonVersion(data []byte) string {
	var pkg struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	return pkg.Version
}

func yamlVersion(data []byte) string {
	var doc struct {
		Version string `yaml:"version"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ""
	}
	return doc.Version
}

// textVersion returns the first non-blank line, trimmed. Used for plain
// version files like VERSION or version.txt.
func textVersion(data []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line
		}
	}
	return ""
}
