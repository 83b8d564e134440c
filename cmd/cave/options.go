package main

import (
	"github.com/Carmen-Shannon/oxy-cave/engine/cave"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cave/engine/scene"
	"github.com/Carmen-Shannon/oxy-cave/engine/stereo"
	"github.com/Carmen-Shannon/oxy-cave/engine/tracking"
	"github.com/Carmen-Shannon/oxy-cave/internal/config"
	"github.com/go-gl/mathgl/mgl32"
)

func newCave(cfg *config.Config) cave.Cave {
	return cave.NewCave(
		cave.WithHalfExtent(cfg.Cave.HalfExtent),
		cave.WithRotationY(mgl32.DegToRad(cfg.Cave.RotationYDegrees)),
	)
}

func rendererOptions(cfg *config.Config, software bool) []renderer.RendererBuilderOption {
	present := renderer.PresentModeVSync
	if !cfg.Window.VSync {
		present = renderer.PresentModeUncapped
	}
	msaa := renderer.MSAA4x
	if !cfg.Window.MSAA {
		msaa = renderer.MSAAOff
	}
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(present),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(software),
	}
}

func stateOptions(cfg *config.Config) []scene.StateBuilderOption {
	settings := scene.DefaultSettings()
	settings.CubeX = cfg.Scene.CubeX
	settings.CubeZ = cfg.Scene.CubeZ
	settings.CubeSize = cfg.Scene.CubeSize
	settings.CubeStep = cfg.Scene.CubeStep
	settings.SizeStep = cfg.Scene.SizeStep
	settings.MinSize = cfg.Scene.MinSize
	settings.MaxSize = cfg.Scene.MaxSize

	opts := []scene.StateBuilderOption{scene.WithSettings(settings)}
	if cfg.Scene.Seed != 0 {
		opts = append(opts, scene.WithSeed(cfg.Scene.Seed))
	}
	return opts
}

func assetPaths(cfg *config.Config) stereo.AssetPaths {
	return stereo.AssetPaths{
		Skybox:    [tracking.EyeCount]string{cfg.Textures.SkyboxLeft, cfg.Textures.SkyboxRight},
		HMDSkybox: cfg.Textures.SkyboxHMD,
		Cube:      cfg.Textures.Cube,
	}
}

func stereoOptions(cfg *config.Config) []stereo.StereoRendererBuilderOption {
	near, far := cfg.Projection.Near, cfg.Projection.Far
	return []stereo.StereoRendererBuilderOption{
		stereo.WithWallPassOptions(
			stereo.WithWallResolution(cfg.Cave.WallResolution),
			stereo.WithWallClip(near, far),
			stereo.WithFrustumCulling(cfg.Cave.FrustumCulling),
		),
		stereo.WithEyeFov(mgl32.DegToRad(cfg.Projection.EyeFovDegrees)),
		stereo.WithEyeClip(near, far),
	}
}

func newPoseProvider(cfg *config.Config) tracking.PoseProvider {
	t := cfg.Tracking
	return tracking.NewDesktopPoseProvider(
		tracking.WithStartPosition(mgl32.Vec3(t.StartPosition)),
		tracking.WithIPD(t.IPD),
		tracking.WithMoveSpeed(t.MoveSpeed),
		tracking.WithTurnSpeed(mgl32.DegToRad(t.TurnSpeed)),
	)
}
