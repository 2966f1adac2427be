package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var sidecarExtensions = []string{".features.yaml", ".features.yml", ".features.json"}

type sidecarFile struct {
	FeatureNames []string `json:"feature_names" yaml:"feature_names"`
}

// SidecarCandidates lists the paths probed for a feature-order file persisted
// next to artifactPath: "model.yaml" maps to "model.features.yaml",
// "model.features.yml" and "model.features.json".
func SidecarCandidates(artifactPath string) []string {
	if strings.TrimSpace(artifactPath) == "" {
		return nil
	}
	base := strings.TrimSuffix(artifactPath, filepath.Ext(artifactPath))
	out := make([]string, 0, len(sidecarExtensions))
	for _, ext := range sidecarExtensions {
		out = append(out, base+ext)
	}
	return out
}

// LoadSidecar reads a feature-order file. The document is either a bare list
// of names or an object with a feature_names list, in JSON or YAML.
func LoadSidecar(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read sidecar: %w", err)
	}
	names, err := parseSidecar(data)
	if err != nil {
		return nil, fmt.Errorf("schema: parse sidecar %s: %w", path, err)
	}
	return names, nil
}

// WriteSidecar persists the schema order as YAML so it travels with the
// artifact.
func WriteSidecar(path string, s Schema) error {
	payload, err := yaml.Marshal(sidecarFile{FeatureNames: s.Features()})
	if err != nil {
		return fmt.Errorf("schema: encode sidecar: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("schema: write sidecar: %w", err)
	}
	return nil
}

func parseSidecar(data []byte) ([]string, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmpty
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var doc sidecarFile
	if err := json.Unmarshal(data, &doc); err == nil && len(doc.FeatureNames) > 0 {
		return doc.FeatureNames, nil
	}
	if err := yaml.Unmarshal(data, &list); err == nil && len(list) > 0 {
		return list, nil
	}
	doc = sidecarFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New("invalid JSON or YAML")
	}
	if len(doc.FeatureNames) == 0 {
		return nil, ErrEmpty
	}
	return doc.FeatureNames, nil
}

func findSidecar(candidates []string) (string, bool) {
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
