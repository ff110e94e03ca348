package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func LoadEntityBuildSpecFrom(dir, filename string) (EntityBuildSpec, error) {
	return LoadSpecFrom[EntityBuildSpec](dir, filename)
}

// DecodeComponentSpec re-encodes one raw component entry into its typed spec.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type PlayerComponentSpec struct {
	MoveSpeed float64 `yaml:"move_speed"`
	Character string  `yaml:"character"`
	Facing    string  `yaml:"facing"`
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type SpriteComponentSpec struct {
	Image        string  `yaml:"image"`
	Atlas        string  `yaml:"atlas"`
	Frame        string  `yaml:"frame"`
	OriginX      float64 `yaml:"origin_x"`
	OriginY      float64 `yaml:"origin_y"`
	CenterOrigin bool    `yaml:"center_origin"`
}

type RenderLayerComponentSpec struct {
	Index int `yaml:"index"`
}

type CameraComponentSpec struct {
	TargetName string  `yaml:"target_name"`
	Zoom       float64 `yaml:"zoom"`
	Smoothness float64 `yaml:"smoothness"`
	Bounded    *bool   `yaml:"bounded"`
}

// AnimationClipComponentSpec names frames the way Phaser's generateFrameNames
// does: prefix + zero-padded index from start to end.
type AnimationClipComponentSpec struct {
	Prefix    string  `yaml:"prefix"`
	Start     int     `yaml:"start"`
	End       int     `yaml:"end"`
	ZeroPad   int     `yaml:"zero_pad"`
	FrameRate float64 `yaml:"frame_rate"`
	Repeat    int     `yaml:"repeat"`
}

type AnimationComponentSpec struct {
	Atlas   string                                `yaml:"atlas"`
	Defs    map[string]AnimationClipComponentSpec `yaml:"defs"`
	Current string                                `yaml:"current"`
	Still   string                                `yaml:"still"`
	Playing bool                                  `yaml:"playing"`
}

type PhysicsBodyComponentSpec struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Mass       float64 `yaml:"mass"`
	Friction   float64 `yaml:"friction"`
	Elasticity float64 `yaml:"elasticity"`
	Static     bool    `yaml:"static"`
	// AlignTopLeft measures offset_x/offset_y from the sprite's top-left
	// corner to the collider's top-left corner instead of center to center.
	AlignTopLeft  bool    `yaml:"align_top_left"`
	OffsetX       float64 `yaml:"offset_x"`
	OffsetY       float64 `yaml:"offset_y"`
	FixedRotation bool    `yaml:"fixed_rotation"`
	DefaultWidth  float64 `yaml:"default_width"`
	DefaultHeight float64 `yaml:"default_height"`
}

type CollisionLayerComponentSpec struct {
	Category uint32 `yaml:"category"`
	Mask     uint32 `yaml:"mask"`
}
