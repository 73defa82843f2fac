package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/slide-deck/internal/bundle"
	"github.com/jonathan/slide-deck/internal/content"
	"github.com/jonathan/slide-deck/internal/schemas"
)

// ManifestFile is written to the root of every build.
const ManifestFile = "manifest.json"

// Manifest records what a build produced.
type Manifest struct {
	BuildID string          `json:"build_id"`
	BuiltAt time.Time       `json:"built_at"`
	Bundles []BundleEntry   `json:"bundles"`
	Content []content.Asset `json:"content"`
}

// BundleEntry is a bundle plus whether it exceeded the size limit.
type BundleEntry struct {
	bundle.Output
	Oversized bool `json:"oversized,omitempty"`
}

// WriteManifest validates m against the manifest schema and writes it to dir.
func WriteManifest(dir string, m *Manifest) error {
	if m.Bundles == nil {
		m.Bundles = []BundleEntry{}
	}
	if m.Content == nil {
		m.Content = []content.Asset{}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := schemas.ValidateManifest(data); err != nil {
		return fmt.Errorf("manifest does not match schema: %w", err)
	}

	return os.WriteFile(filepath.Join(dir, ManifestFile), append(data, '\n'), 0644)
}

// ReadManifest loads the manifest of the build in dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}
