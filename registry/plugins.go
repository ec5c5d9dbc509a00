package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/skeleton"
)

// ManifestFileName is the per-plugin declaration file inside each plugin
// directory.
const ManifestFileName = "manifest.yaml"

// Manifest declares a converter plugin. A manifest yields a skeleton
// adapter whose capabilities and support table come from the declaration;
// promoting a plugin to a full adapter means registering a real Constructor
// instead.
type Manifest struct {
	Name                string   `yaml:"name"`
	Version             string   `yaml:"version"`
	Target              string   `yaml:"target"`
	Features            []string `yaml:"features,omitempty"`
	SupportedComponents []string `yaml:"supported_components,omitempty"`
	PlannedFeatures     []string `yaml:"planned_features,omitempty"`
	Streaming           bool     `yaml:"streaming,omitempty"`
}

func (m Manifest) validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest missing name")
	}
	if m.Version == "" {
		return fmt.Errorf("manifest missing version")
	}
	if _, err := convert.ParseTarget(m.Target); err != nil {
		return fmt.Errorf("manifest target: %w", err)
	}
	return nil
}

// DiscoverPlugins scans root (non-recursive) for plugin subdirectories
// containing a manifest. Malformed or partially-invalid entries are logged
// and skipped; the scan itself never aborts. A missing root directory is
// not an error. Returns the number of converters registered.
func (r *Registry) DiscoverPlugins(root string) int {
	entries, err := os.ReadDir(root)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("reading plugin root", zap.String("root", root), zap.Error(err))
		}
		return 0
	}

	// Deterministic discovery order.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	registered := 0
	for _, ent := range entries {
		if !ent.IsDir() {
			continue
		}
		manifestPath := filepath.Join(root, ent.Name(), ManifestFileName)
		data, err := os.ReadFile(manifestPath)
		if err != nil {
			if !os.IsNotExist(err) {
				r.logger.Warn("reading plugin manifest", zap.String("path", manifestPath), zap.Error(err))
			}
			continue
		}

		var m Manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			r.logger.Warn("skipping malformed plugin manifest", zap.String("path", manifestPath), zap.Error(err))
			continue
		}
		if err := m.validate(); err != nil {
			r.logger.Warn("skipping invalid plugin manifest", zap.String("path", manifestPath), zap.Error(err))
			continue
		}

		target, _ := convert.ParseTarget(m.Target)
		r.RegisterInstance(skeleton.New(skeleton.Descriptor{
			Name:                m.Name,
			Version:             m.Version,
			Target:              target,
			Features:            m.Features,
			SupportedComponents: m.SupportedComponents,
			PlannedFeatures:     m.PlannedFeatures,
			Streaming:           m.Streaming,
		}))
		r.logger.Info("registered plugin converter",
			zap.String("name", m.Name),
			zap.String("target", m.Target))
		registered++
	}
	return registered
}
