// Package config loads and validates the YAML configuration of the CAVE demo.
package config

import "time"

// Config is the complete configuration of the demo.
type Config struct {
	Window     Window     `yaml:"window"`
	Cave       Cave       `yaml:"cave"`
	Projection Projection `yaml:"projection"`
	Tracking   Tracking   `yaml:"tracking"`
	Scene      Scene      `yaml:"scene"`
	Textures   Textures   `yaml:"textures"`
	Profiler   Profiler   `yaml:"profiler"`
}

type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
	MSAA   bool   `yaml:"msaa"`
}

type Cave struct {
	HalfExtent       float32 `yaml:"half_extent"`
	RotationYDegrees float32 `yaml:"rotation_y_degrees"`
	WallResolution   int     `yaml:"wall_resolution"`
	FrustumCulling   bool    `yaml:"frustum_culling"`
}

// Projection holds the clip planes shared by the wall passes and the eye cameras.
type Projection struct {
	Near          float32 `yaml:"near"`
	Far           float32 `yaml:"far"`
	EyeFovDegrees float32 `yaml:"eye_fov_degrees"`
}

type Tracking struct {
	IPD           float32    `yaml:"ipd"`
	StartPosition [3]float32 `yaml:"start_position"`
	MoveSpeed     float32    `yaml:"move_speed"` // meters per second
	TurnSpeed     float32    `yaml:"turn_speed"` // degrees per second
}

type Scene struct {
	CubeX    float32 `yaml:"cube_x"`
	CubeZ    float32 `yaml:"cube_z"`
	CubeSize float32 `yaml:"cube_size"`
	CubeStep float32 `yaml:"cube_step"`
	SizeStep float32 `yaml:"size_step"`
	MinSize  float32 `yaml:"min_size"`
	MaxSize  float32 `yaml:"max_size"`
	Seed     uint64  `yaml:"seed"` // 0 picks a random seed
}

// Textures holds optional image paths. Empty paths use generated grid textures.
type Textures struct {
	SkyboxLeft  string `yaml:"skybox_left"`
	SkyboxRight string `yaml:"skybox_right"`
	SkyboxHMD   string `yaml:"skybox_hmd"`
	Cube        string `yaml:"cube"`
}

type Profiler struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}
