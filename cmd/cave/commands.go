package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/Carmen-Shannon/oxy-cave/engine"
	"github.com/Carmen-Shannon/oxy-cave/engine/cave"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cave/engine/scene"
	"github.com/Carmen-Shannon/oxy-cave/engine/stereo"
	"github.com/Carmen-Shannon/oxy-cave/engine/sweep"
	"github.com/Carmen-Shannon/oxy-cave/engine/window"
	"github.com/Carmen-Shannon/oxy-cave/internal/config"
	"github.com/go-gl/mathgl/mgl32"
)

// ConfigFlags are shared by every command. Flags that are set override the config file.
type ConfigFlags struct {
	Config     string   `short:"c" help:"YAML configuration file"`
	HalfExtent *float32 `name:"half-extent" help:"CAVE half extent in meters"`
	RotationY  *float32 `name:"rotation-y" help:"CAVE rotation about Y in degrees"`
	Near       *float32 `help:"near clip distance"`
	Far        *float32 `help:"far clip distance"`
}

func (f ConfigFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.Config)
	if err != nil {
		return nil, err
	}
	if f.HalfExtent != nil {
		cfg.Cave.HalfExtent = *f.HalfExtent
	}
	if f.RotationY != nil {
		cfg.Cave.RotationYDegrees = *f.RotationY
	}
	if f.Near != nil {
		cfg.Projection.Near = *f.Near
	}
	if f.Far != nil {
		cfg.Projection.Far = *f.Far
	}
	return cfg, nil
}

type RunCmd struct {
	ConfigFlags `embed:""`

	Width    int    `help:"mirror window width"`
	Height   int    `help:"mirror window height"`
	Walls    int    `help:"wall target resolution in pixels"`
	NoVSync  bool   `name:"no-vsync" help:"present without waiting for vertical blank"`
	NoMSAA   bool   `name:"no-msaa" help:"disable multisampling of the mirror window"`
	Profile  bool   `help:"log frame statistics"`
	Seed     uint64 `help:"seed of the failed projector pick"`
	Software bool   `help:"force the software fallback adapter"`
}

// apply copies the non-zero flags into cfg and validates the result.
func (c *RunCmd) apply(cfg *config.Config) error {
	if c.Width > 0 {
		cfg.Window.Width = c.Width
	}
	if c.Height > 0 {
		cfg.Window.Height = c.Height
	}
	if c.Walls > 0 {
		cfg.Cave.WallResolution = c.Walls
	}
	if c.NoVSync {
		cfg.Window.VSync = false
	}
	if c.NoMSAA {
		cfg.Window.MSAA = false
	}
	if c.Profile {
		cfg.Profiler.Enabled = true
	}
	if c.Seed != 0 {
		cfg.Scene.Seed = c.Seed
	}
	return cfg.Validate()
}

func (c *RunCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	if err := c.apply(cfg); err != nil {
		return err
	}

	// ── Window ──────────────────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	)

	// ── Renderer ────────────────────────────────────────────────────────
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win, rendererOptions(cfg, c.Software)...)
	defer r.Release()

	// ── CAVE + demo state ───────────────────────────────────────────────
	cv := newCave(cfg)
	state := scene.NewState(stateOptions(cfg)...)

	assets, err := stereo.LoadAssets(r, cv, assetPaths(cfg))
	if err != nil {
		return fmt.Errorf("loading assets: %w", err)
	}
	defer assets.Release()

	sr, err := stereo.NewStereoRenderer(r, cv, state, assets, stereoOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("creating stereo renderer: %w", err)
	}
	defer sr.Release()

	// ── Engine ──────────────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithSurface(r),
		engine.WithFrameRenderer(sr),
		engine.WithState(state),
		engine.WithPoseProvider(newPoseProvider(cfg)),
		engine.WithTitle(cfg.Window.Title),
		engine.WithProfileInterval(cfg.Profiler.Interval),
		engine.WithProfiling(cfg.Profiler.Enabled),
	)
	eng.Run()
	return nil
}

type SweepCmd struct {
	ConfigFlags `embed:""`

	Steps   int     `default:"9" help:"samples per axis"`
	Margin  float32 `default:"0.05" help:"inset from the walls in meters"`
	Workers int     `help:"worker pool size (0 uses every CPU)"`
}

func (c *SweepCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := sweep.Run(ctx, newCave(cfg), sweep.Grid{Steps: c.Steps, Margin: c.Margin},
		cfg.Projection.Near, cfg.Projection.Far, c.Workers)
	fmt.Println(report)
	if err != nil {
		return err
	}
	if report.Inverted > 0 {
		return fmt.Errorf("%d accepted projections have an inverted frustum", report.Inverted)
	}
	return nil
}

type ProjectCmd struct {
	ConfigFlags `embed:""`

	Wall string    `enum:"left,right,bottom" default:"right" help:"wall to solve (left, right, bottom)"`
	Eye  []float32 `arg:"" optional:"" help:"eye position x y z in world space (default origin)"`
}

func (c *ProjectCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *ProjectCmd) run(out io.Writer) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	var eye mgl32.Vec3
	switch len(c.Eye) {
	case 0:
	case 3:
		eye = mgl32.Vec3{c.Eye[0], c.Eye[1], c.Eye[2]}
	default:
		return fmt.Errorf("eye needs 3 coordinates, got %d", len(c.Eye))
	}

	id, err := parseWall(c.Wall)
	if err != nil {
		return err
	}

	w := newCave(cfg).Wall(id)
	p, err := w.Project(eye, cfg.Projection.Near, cfg.Projection.Far)
	if err != nil {
		return fmt.Errorf("%s wall: %w", id, err)
	}

	fmt.Fprintf(out, "wall %s: A=%v B=%v C=%v\n", id, w.A, w.B, w.C)
	fmt.Fprintf(out, "eye %v, distance %.4f\n", eye, p.Distance)
	fmt.Fprintf(out, "frustum l=%.6f r=%.6f b=%.6f t=%.6f n=%g f=%g\n",
		p.Frustum.Left, p.Frustum.Right, p.Frustum.Bottom, p.Frustum.Top, p.Frustum.Near, p.Frustum.Far)
	for i := range 4 {
		row := p.Matrix.Row(i)
		fmt.Fprintf(out, "  [% .6f % .6f % .6f % .6f]\n", row[0], row[1], row[2], row[3])
	}
	return nil
}

func parseWall(name string) (cave.WallID, error) {
	for _, id := range cave.WallIDs {
		if id.String() == name {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown wall %q", name)
}
