package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jinzhu/copier"

	"scene3d/internal/components"
)

// --- Config types ---

// SceneConfig is the root of a scene file.
type SceneConfig struct {
	Version string       `json:"version,omitempty"`
	Name    string       `json:"name,omitempty"`
	Nodes   []NodeConfig `json:"nodes"`
}

// NodeConfig describes one hierarchy node, its attachments and its children.
type NodeConfig struct {
	Name        string
	Transform   string
	Tags        []string
	Attachments []AttachmentConfig
	Children    []NodeConfig
}

// AttachmentConfig is implemented by the per-kind *Config types.
type AttachmentConfig interface {
	Kind() components.Kind
	header() *AttachmentHeader
}

// AttachmentHeader holds the fields every attachment shares. Tags are added
// to the owning node's tags.
type AttachmentHeader struct {
	Type string   `json:"type"`
	Tags []string `json:"tags,omitempty"`
}

func (h *AttachmentHeader) header() *AttachmentHeader { return h }

type StaticMeshConfig struct {
	AttachmentHeader
	Mesh        string `json:"mesh"`
	Material    string `json:"material,omitempty"`
	CastShadows bool   `json:"cast_shadows,omitempty"`
}

type TerrainConfig struct {
	AttachmentHeader
	Heightmap  string     `json:"heightmap"`
	Material   string     `json:"material,omitempty"`
	Size       [2]float32 `json:"size"`
	Height     float32    `json:"height,omitempty"`
	Resolution int        `json:"resolution"`
	ChunkSize  int        `json:"chunk_size"`
	LODCount   int        `json:"lod_count"`
}

type SkyboxConfig struct {
	AttachmentHeader
	Texture string `json:"texture"`
}

type DirectionalLightConfig struct {
	AttachmentHeader
	Direction   [3]float32 `json:"direction,omitempty"`
	Color       string     `json:"color,omitempty"`
	Intensity   float32    `json:"intensity,omitempty"`
	CastShadows bool       `json:"cast_shadows,omitempty"`
}

type PointLightConfig struct {
	AttachmentHeader
	Color     string  `json:"color,omitempty"`
	Intensity float32 `json:"intensity,omitempty"`
	Radius    float32 `json:"radius,omitempty"`
}

type AudioEmitterConfig struct {
	AttachmentHeader
	Sound       string   `json:"sound"`
	Volume      *float32 `json:"volume,omitempty"`
	MaxDistance float32  `json:"max_distance,omitempty"`
	Loop        bool     `json:"loop,omitempty"`
	PlayOnLoad  bool     `json:"play_on_load,omitempty"`
}

type WaterPlaneConfig struct {
	AttachmentHeader
	Size     [2]float32 `json:"size"`
	Material string     `json:"material,omitempty"`
}

type VolumeConfig struct {
	AttachmentHeader
	Shape    string     `json:"shape,omitempty"`
	Radius   float32    `json:"radius,omitempty"`
	Extents  [3]float32 `json:"extents,omitempty"`
	Filter   []string   `json:"filter,omitempty"`
	OnEnter  string     `json:"on_enter,omitempty"`
	OnUpdate string     `json:"on_update,omitempty"`
	OnLeave  string     `json:"on_leave,omitempty"`
}

type HitSphereConfig struct {
	AttachmentHeader
	Radius float32 `json:"radius"`
}

func (*StaticMeshConfig) Kind() components.Kind       { return components.KindStaticMesh }
func (*TerrainConfig) Kind() components.Kind          { return components.KindTerrain }
func (*SkyboxConfig) Kind() components.Kind           { return components.KindSkybox }
func (*DirectionalLightConfig) Kind() components.Kind { return components.KindDirectionalLight }
func (*PointLightConfig) Kind() components.Kind       { return components.KindPointLight }
func (*AudioEmitterConfig) Kind() components.Kind     { return components.KindAudioEmitter }
func (*WaterPlaneConfig) Kind() components.Kind       { return components.KindWaterPlane }
func (*VolumeConfig) Kind() components.Kind           { return components.KindVolume }
func (*HitSphereConfig) Kind() components.Kind        { return components.KindHitSphere }

// --- JSON ---

type nodeDoc struct {
	Name        string            `json:"name,omitempty"`
	Transform   string            `json:"transform,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Attachments []json.RawMessage `json:"attachments,omitempty"`
	Children    []NodeConfig      `json:"children,omitempty"`
}

var errUnknownType = errors.New("unknown attachment type")

func (n *NodeConfig) UnmarshalJSON(data []byte) error {
	var doc nodeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*n = NodeConfig{Name: doc.Name, Transform: doc.Transform, Tags: doc.Tags, Children: doc.Children}

	// A bad attachment is dropped on its own; the rest of the node loads.
	for i, raw := range doc.Attachments {
		cfg, err := decodeAttachment(raw)
		if err != nil {
			slog.Warn("skipping scene file attachment", "node", doc.Name, "index", i, "error", err)
			continue
		}
		n.Attachments = append(n.Attachments, cfg)
	}
	return nil
}

func decodeAttachment(raw json.RawMessage) (AttachmentConfig, error) {
	var header AttachmentHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, err
	}
	kind, ok := components.ParseKind(header.Type)
	if !ok {
		return nil, fmt.Errorf("%w %q", errUnknownType, header.Type)
	}
	cfg := newAttachmentConfig(kind)
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return cfg, nil
}

func (n NodeConfig) MarshalJSON() ([]byte, error) {
	doc := nodeDoc{Name: n.Name, Transform: n.Transform, Tags: n.Tags, Children: n.Children}
	for _, a := range n.Attachments {
		a.header().Type = a.Kind().String()
		raw, err := json.Marshal(a)
		if err != nil {
			return nil, fmt.Errorf("node %q %s: %w", n.Name, a.Kind(), err)
		}
		doc.Attachments = append(doc.Attachments, raw)
	}
	return json.Marshal(doc)
}

func newAttachmentConfig(k components.Kind) AttachmentConfig {
	switch k {
	case components.KindStaticMesh:
		return &StaticMeshConfig{}
	case components.KindTerrain:
		return &TerrainConfig{}
	case components.KindSkybox:
		return &SkyboxConfig{}
	case components.KindDirectionalLight:
		return &DirectionalLightConfig{}
	case components.KindPointLight:
		return &PointLightConfig{}
	case components.KindAudioEmitter:
		return &AudioEmitterConfig{}
	case components.KindWaterPlane:
		return &WaterPlaneConfig{}
	case components.KindVolume:
		return &VolumeConfig{}
	case components.KindHitSphere:
		return &HitSphereConfig{}
	}
	panic(fmt.Sprintf("world: no config for %s", k))
}

// cloneAttachment deep-copies an attachment config so later edits to the
// caller's value do not leak into stored metadata.
func cloneAttachment(c AttachmentConfig) AttachmentConfig {
	dst := newAttachmentConfig(c.Kind())
	if err := copier.CopyWithOption(dst, c, copier.Option{DeepCopy: true}); err != nil {
		return nil
	}
	dst.header().Type = c.Kind().String()
	return dst
}
