package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"scene3d/internal/engine"
)

// Format selects the encoding of a scene file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatForPath picks the format from the file extension; anything that is
// not .yaml or .yml is JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

const currentVersion = "1.0.0"

var (
	ErrUnsupportedVersion = errors.New("world: unsupported scene version")

	supportedVersions = mustConstraint(">= 1.0.0, < 2.0.0")
)

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrUnsupportedVersion, v, err)
	}
	if !supportedVersions.Check(ver) {
		return fmt.Errorf("%w %q", ErrUnsupportedVersion, v)
	}
	return nil
}

// --- Loading ---

// LoadConfig reads a scene file from disk.
func LoadConfig(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return ParseConfig(data, FormatForPath(path))
}

// ParseConfig decodes a scene file. YAML is converted to JSON first so both
// formats share the attachment decoding.
func ParseConfig(data []byte, format Format) (*SceneConfig, error) {
	if format == FormatYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse scene: %w", err)
		}
		js, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("parse scene: %w", err)
		}
		data = js
	}

	var cfg SceneConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if err := checkVersion(cfg.Version); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// --- Saving ---

// Encode renders cfg in the given format.
func Encode(cfg *SceneConfig, format Format) ([]byte, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal scene: %w", err)
	}
	if format == FormatJSON {
		return data, nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("marshal scene: %w", err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal scene: %w", err)
	}
	return out, nil
}

// Save writes the scene's current node tree to path. Only editable scenes
// keep the metadata needed for this.
func (s *Scene) Save(path string) error {
	cfg, err := s.Serialize()
	if err != nil {
		return err
	}
	data, err := Encode(cfg, FormatForPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}

// Serialize rebuilds a SceneConfig from the live nodes and the authored
// metadata of their attachments.
func (s *Scene) Serialize() (*SceneConfig, error) {
	if s == nil {
		return nil, ErrNilScene
	}
	if !s.editable {
		return nil, ErrReadOnly
	}

	cfg := &SceneConfig{Version: currentVersion, Name: s.name}
	byNode := s.metaByNode()
	for _, root := range s.roots {
		if n, ok := s.serializeNode(root, byNode); ok {
			cfg.Nodes = append(cfg.Nodes, n)
		}
	}
	return cfg, nil
}

func (s *Scene) serializeNode(h engine.Handle, byNode map[engine.Handle][]AttachmentConfig) (NodeConfig, bool) {
	src, ok := s.sources[h]
	if !ok {
		return NodeConfig{}, false
	}
	n := NodeConfig{
		Name:        src.name,
		Transform:   src.transform,
		Tags:        src.tags,
		Attachments: byNode[h],
	}
	for _, c := range s.hier.Children(h) {
		if child, ok := s.serializeNode(c, byNode); ok {
			n.Children = append(n.Children, child)
		}
	}
	return n, true
}
