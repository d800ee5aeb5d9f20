package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestExtractPyprojectProject(t *testing.T) {
	tempDir := t.TempDir()
	path := writeManifest(t, tempDir, "pyproject.toml", `[project]
name = "hevy-sync"
version = "1.4.2"
requires-python = ">=3.11"
`)

	info, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if info.Version != "1.4.2" {
		t.Errorf("Version = %q, expected %q", info.Version, "1.4.2")
	}
	if info.Format != FormatTOML {
		t.Errorf("Format = %q, expected %q", info.Format, FormatTOML)
	}
	if info.Path != path {
		t.Errorf("Path = %q, expected %q", info.Path, path)
	}
}

func TestExtractPyprojectPoetry(t *testing.T) {
	tempDir := t.TempDir()
	path := writeManifest(t, tempDir, "pyproject.toml", `[tool.poetry]
name = "hevy-sync"
version = "0.9.0"
description = "Workout sync tool"
`)

	info, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if info.Version != "0.9.0" {
		t.Errorf("Version = %q, expected %q", info.Version, "0.9.0")
	}
}

func TestExtractPyprojectPrefersProjectTable(t *testing.T) {
	tempDir := t.TempDir()
	path := writeManifest(t, tempDir, "pyproject.toml", `[project]
version = "2.0.0"

[tool.poetry]
version = "1.0.0"
`)

	info, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if info.Version != "2.0.0" {
		t.Errorf("Version = %q, expected %q", info.Version, "2.0.0")
	}
}

func TestExtractCargo(t *testing.T) {
	tempDir := t.TempDir()
	path := writeManifest(t, tempDir, "Cargo.toml", `[package]
name = "reltag"
version = "3.1.4"
edition = "2021"

[dependencies]
serde = "1"
`)

	info, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if info.Version != "3.1.4" {
		t.Errorf("Version = %q, expected %q", info.Version, "3.1.4")
	}
	if info.Format != FormatTOML {
		t.Errorf("Format = %q, expected %q", info.Format, FormatTOML)
	}
}

func TestExtractPackageJSON(t *testing.T) {
	tempDir := t.TempDir()
	path := writeManifest(t, tempDir, "package.json", `{
  "name": "reltag",
  "version": "5.0.1",
  "private": true
}
`)

	info, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if info.Version != "5.0.1" {
		t.Errorf("Version = %q, expected %q", info.Version, "5.0.1")
	}
	if info.Format != FormatJSON {
		t.Errorf("Format = %q, expected %q", info.Format, FormatJSON)
	}
}

func TestExtractChartYAML(t *testing.T) {
	tempDir := t.TempDir()
	path := writeManifest(t, tempDir, "Chart.yaml", `apiVersion: v2
name: reltag
version: 0.3.0
appVersion: "1.16.0"
`)

	info, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if info.Version != "0.3.0" {
		t.Errorf("Version = %q, expected %q", info.Version, "0.3.0")
	}
	if info.Format != FormatYAML {
		t.Errorf("Format = %q, expected %q", info.Format, FormatYAML)
	}
}

func TestExtractVersionFile(t *testing.T) {
	tempDir := t.TempDir()
	path := writeManifest(t, tempDir, "VERSION", "2.7.18\n")

	info, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if info.Version != "2.7.18" {
		t.Errorf("Version = %q, expected %q", info.Version, "2.7.18")
	}
	if info.Format != FormatText {
		t.Errorf("Format = %q, expected %q", info.Format, FormatText)
	}
}

func TestExtractSetupPyLineScan(t *testing.T) {
	tempDir := t.TempDir()
	path := writeManifest(t, tempDir, "setup.py", `from setuptools import setup

setup(
    name="hevy-sync",
    version="1.2.3",
    packages=["hevy_sync"],
)
`)

	info, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if info.Version != "1.2.3" {
		t.Errorf("Version = %q, expected %q", info.Version, "1.2.3")
	}
	if info.Format != FormatScan {
		t.Errorf("Format = %q, expected %q", info.Format, FormatScan)
	}
}

func TestExtractFirstMatchWins(t *testing.T) {
	tempDir := t.TempDir()
	path := writeManifest(t, tempDir, "setup.py", `version="1.0.0"
version="2.0.0"
`)

	info, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if info.Version != "1.0.0" {
		t.Errorf("Version = %q, expected %q", info.Version, "1.0.0")
	}
}

func TestExtractSkipsEmptyVersion(t *testing.T) {
	tempDir := t.TempDir()
	path := writeManifest(t, tempDir, "setup.py", `version=""
version="4.5.6"
`)

	info, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if info.Version != "4.5.6" {
		t.Errorf("Version = %q, expected %q", info.Version, "4.5.6")
	}
}

func TestExtractMalformedTOMLFallsBackToScan(t *testing.T) {
	tempDir := t.TempDir()
	path := writeManifest(t, tempDir, "pyproject.toml", `[project
version="9.9.9"
`)

	info, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract should fall back to line scan: %v", err)
	}
	if info.Version != "9.9.9" {
		t.Errorf("Version = %q, expected %q", info.Version, "9.9.9")
	}
	if info.Format != FormatScan {
		t.Errorf("Format = %q, expected %q", info.Format, FormatScan)
	}
}

func TestExtractNoVersion(t *testing.T) {
	tempDir := t.TempDir()
	path := writeManifest(t, tempDir, "setup.py", `from setuptools import setup

setup(name="no-version-here")
`)

	_, err := Extract(path)
	if !errors.Is(err, ErrNoVersion) {
		t.Errorf("Extract error = %v, expected ErrNoVersion", err)
	}
}

func TestExtractMissingFile(t *testing.T) {
	tempDir := t.TempDir()

	_, err := Extract(filepath.Join(tempDir, "pyproject.toml"))
	if !errors.Is(err, ErrNoManifest) {
		t.Errorf("Extract error = %v, expected ErrNoManifest", err)
	}
}

func TestScanVariants(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected string
	}{
		{"plain", `version="1.0.0"`, "1.0.0"},
		{"spaces around equals", `version = "1.0.0"`, "1.0.0"},
		{"leading whitespace", `    version="1.0.0",`, "1.0.0"},
		{"tab indented", "\tversion = \"0.2.1\"", "0.2.1"},
		{"prerelease value", `version="1.0.0-rc.1"`, "1.0.0-rc.1"},
		{"capitalized key", `Version="1.0.0"`, ""},
		{"prefixed key", `appversion="1.0.0"`, ""},
		{"suffixed key", `version_info="1.0.0"`, ""},
		{"single quotes", `version='1.0.0'`, ""},
		{"no quotes", `version=1.0.0`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scan([]byte(tt.line))
			if result != tt.expected {
				t.Errorf("scan(%q) = %q, expected %q", tt.line, result, tt.expected)
			}
		})
	}
}

func TestDetectPriority(t *testing.T) {
	tempDir := t.TempDir()
	writeManifest(t, tempDir, "package.json", `{"version": "1.0.0"}`)
	expected := writeManifest(t, tempDir, "pyproject.toml", `[project]
version = "2.0.0"
`)

	path, err := Detect(tempDir)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if path != expected {
		t.Errorf("Detect = %q, expected %q", path, expected)
	}
}

func TestDetectNoManifest(t *testing.T) {
	tempDir := t.TempDir()

	_, err := Detect(tempDir)
	if !errors.Is(err, ErrNoManifest) {
		t.Errorf("Detect error = %v, expected ErrNoManifest", err)
	}
}

func TestDetectIgnoresDirectories(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tempDir, "pyproject.toml"), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	expected := writeManifest(t, tempDir, "package.json", `{"version": "1.0.0"}`)

	path, err := Detect(tempDir)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if path != expected {
		t.Errorf("Detect = %q, expected %q", path, expected)
	}
}
