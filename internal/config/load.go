package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default returns the stock configuration: a 10 m CAVE rotated -45 degrees about Y,
// 2048 pixel walls, clip planes 0.01 and 1000, and a 90 degree eye field of view.
func Default() *Config {
	return &Config{
		Window: Window{
			Title:  "CAVE",
			Width:  1600,
			Height: 800,
			VSync:  true,
			MSAA:   true,
		},
		Cave: Cave{
			HalfExtent:       10,
			RotationYDegrees: -45,
			WallResolution:   2048,
			FrustumCulling:   true,
		},
		Projection: Projection{
			Near:          0.01,
			Far:           1000,
			EyeFovDegrees: 90,
		},
		Tracking: Tracking{
			IPD:       0.0589722,
			MoveSpeed: 1.5,
			TurnSpeed: 90,
		},
		Scene: Scene{
			CubeX:    0,
			CubeZ:    -0.5,
			CubeSize: 0.03,
			CubeStep: 0.001,
			SizeStep: 0.001,
			MinSize:  0.001,
			MaxSize:  0.1,
		},
		Profiler: Profiler{
			Enabled:  false,
			Interval: time.Second,
		},
	}
}

// Load reads a YAML file over the defaults, resolves texture paths relative to the file
// and validates the result.
//
// Parameters:
//   - path: the YAML file; an empty path returns the defaults
//
// Returns:
//   - *Config: the loaded configuration
//   - error: read, parse or validation failure
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.Textures.resolve(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// resolve makes relative texture paths relative to baseDir.
func (t *Textures) resolve(baseDir string) {
	for _, p := range []*string{&t.SkyboxLeft, &t.SkyboxRight, &t.SkyboxHMD, &t.Cube} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(baseDir, *p)
		}
	}
}
