package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
)

// FileName is the manifest's name inside the output directory.
const FileName = "manifest.json"

// Status values recorded in a manifest.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusFailed  = "failed"
)

// BuildManifest represents a complete record of a build's inputs and outputs.
type BuildManifest struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Inputs    Inputs    `json:"inputs"`
	Plugins   []Plugin  `json:"plugins"`
	Outputs   Outputs   `json:"outputs"`
	Warnings  []string  `json:"warnings,omitempty"`
	Status    string    `json:"status"`
	Duration  int64     `json:"duration_ms"`
}

// Inputs captures all inputs to the build.
type Inputs struct {
	ConfigFile string     `json:"config_file,omitempty"`
	ConfigHash string     `json:"config_hash"`
	Documents  []Document `json:"documents"`
}

// Document records one content file.
type Document struct {
	Slug        string     `json:"slug"`
	Path        string     `json:"path"`
	Fingerprint string     `json:"fingerprint"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// Plugin records one plugin execution.
type Plugin struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// Outputs captures all outputs from the build.
type Outputs struct {
	SiteHash  string   `json:"site_hash"`
	NavNodes  int      `json:"nav_nodes"`
	Artifacts []string `json:"artifacts,omitempty"`
}

// ToJSON serializes the manifest to JSON.
func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash computes a deterministic hash of the manifest's inputs and plugin set.
// Two builds of the same configuration and content hash equally regardless of
// build ID, timing or outcome.
func (m *BuildManifest) Hash() (string, error) {
	type pluginKey struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	hashInput := struct {
		ConfigHash string      `json:"config_hash"`
		Documents  []Document  `json:"documents"`
		Plugins    []pluginKey `json:"plugins"`
	}{
		ConfigHash: m.Inputs.ConfigHash,
	}
	for _, d := range m.Inputs.Documents {
		hashInput.Documents = append(hashInput.Documents, Document{Slug: d.Slug, Path: d.Path, Fingerprint: d.Fingerprint})
	}
	for _, p := range m.Plugins {
		hashInput.Plugins = append(hashInput.Plugins, pluginKey{Name: p.Name, Version: p.Version})
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Write stores the manifest as FileName in dir, replacing any previous one atomically.
func (m *BuildManifest) Write(dir string) (string, error) {
	data, err := m.ToJSON()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := renameio.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// Read loads the manifest stored in dir.
func Read(dir string) (*BuildManifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return FromJSON(data)
}
