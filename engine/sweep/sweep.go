// Package sweep validates the off-axis projection solver over a grid of eye positions inside a CAVE.
// It never touches the GPU.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/Carmen-Shannon/oxy-cave/engine/cave"
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/mat"
)

// RejectKind classifies why the solver rejected an evaluation.
type RejectKind int

const (
	RejectDegenerate RejectKind = iota
	RejectBehind
	RejectClip
	RejectOther

	rejectKindCount
)

func (k RejectKind) String() string {
	switch k {
	case RejectDegenerate:
		return "degenerate wall"
	case RejectBehind:
		return "eye behind wall"
	case RejectClip:
		return "invalid clip range"
	default:
		return "other"
	}
}

// Grid is a regular lattice of eye positions in CAVE space.
type Grid struct {
	// Steps is the number of samples per axis. 1 samples the CAVE center only.
	Steps int

	// Margin insets the lattice from the walls, in CAVE units.
	Margin float32
}

// Points returns the world-space eye positions of the grid for the given CAVE.
func (g Grid) Points(c cave.Cave) []mgl32.Vec3 {
	steps := max(g.Steps, 1)
	lo := -c.HalfExtent() + g.Margin
	span := 2 * (c.HalfExtent() - g.Margin)

	coord := func(i int) float32 {
		if steps == 1 {
			return 0
		}
		return lo + span*float32(i)/float32(steps-1)
	}

	toWorld := c.Transform()
	points := make([]mgl32.Vec3, 0, steps*steps*steps)
	for x := range steps {
		for y := range steps {
			for z := range steps {
				points = append(points, common.TransformPoint(toWorld, mgl32.Vec3{coord(x), coord(y), coord(z)}))
			}
		}
	}
	return points
}

// Report summarizes a sweep.
type Report struct {
	Points      int
	Evaluations int
	Accepted    int
	Rejected    [rejectKindCount]int

	// Inverted counts accepted evaluations whose frustum has left >= right or bottom >= top.
	Inverted int

	// MaxResidual is the largest distance between a wall corner and the corner recovered by
	// unprojecting its NDC position through the float64 inverse and extending the ray to the wall.
	MaxResidual float64
	WorstEye    mgl32.Vec3
	WorstWall   cave.WallID

	Duration time.Duration
}

// RejectedTotal returns the number of rejected evaluations of every kind.
func (r Report) RejectedTotal() int {
	total := 0
	for _, n := range r.Rejected {
		total += n
	}
	return total
}

func (r Report) String() string {
	return fmt.Sprintf("points=%d evaluations=%d accepted=%d rejected=%d (degenerate=%d behind=%d clip=%d other=%d) inverted=%d max_residual=%.3g (eye %v, %s wall) in %s",
		r.Points, r.Evaluations, r.Accepted, r.RejectedTotal(),
		r.Rejected[RejectDegenerate], r.Rejected[RejectBehind], r.Rejected[RejectClip], r.Rejected[RejectOther],
		r.Inverted, r.MaxResidual, r.WorstEye, r.WorstWall, r.Duration)
}

// evaluation is the outcome of solving one wall for one eye.
type evaluation struct {
	err      error
	inverted bool
	residual float64
}

// Run solves every wall for every grid point on a worker pool and aggregates the results.
//
// Parameters:
//   - ctx: cancels the remaining evaluations
//   - c: the CAVE whose walls are solved
//   - grid: the eye lattice
//   - near, far: clip distances passed to the solver
//   - workers: pool size; values <= 0 use runtime.NumCPU()
//
// Returns:
//   - Report: the aggregated results of the evaluations that ran
//   - error: ctx.Err() if the sweep was cancelled
func Run(ctx context.Context, c cave.Cave, grid Grid, near, far float32, workers int) (Report, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	start := time.Now()

	points := grid.Points(c)
	walls := c.Walls()
	results := make([][cave.WallCount]evaluation, len(points))
	done := make([]bool, len(points))

	pool := worker.NewDynamicWorkerPool(workers, 256, time.Second)
	defer pool.Stop()

	var wg sync.WaitGroup
	for i, eye := range points {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		id := i
		eyeCap := eye
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				for _, w := range walls {
					results[id][w.ID] = evaluate(eyeCap, w, near, far)
				}
				done[id] = true
				return nil, nil
			},
		})
	}
	wg.Wait()

	report := Report{Points: len(points), WorstWall: cave.WallLeft}
	for i, res := range results {
		if !done[i] {
			continue
		}
		for _, w := range walls {
			ev := res[w.ID]
			report.Evaluations++
			if ev.err != nil {
				report.Rejected[classify(ev.err)]++
				continue
			}
			report.Accepted++
			if ev.inverted {
				report.Inverted++
			}
			if ev.residual > report.MaxResidual {
				report.MaxResidual = ev.residual
				report.WorstEye = points[i]
				report.WorstWall = w.ID
			}
		}
	}
	report.Duration = time.Since(start)

	log.Printf("[Sweep] %s", report)
	return report, ctx.Err()
}

func classify(err error) RejectKind {
	switch {
	case errors.Is(err, cave.ErrDegenerateWall):
		return RejectDegenerate
	case errors.Is(err, cave.ErrEyeBehindWall):
		return RejectBehind
	case errors.Is(err, cave.ErrInvalidClipRange):
		return RejectClip
	default:
		return RejectOther
	}
}

func evaluate(eye mgl32.Vec3, w cave.WallPlane, near, far float32) evaluation {
	p, err := w.Project(eye, near, far)
	if err != nil {
		return evaluation{err: err}
	}
	ev := evaluation{
		inverted: !(p.Frustum.Left < p.Frustum.Right) || !(p.Frustum.Bottom < p.Frustum.Top),
	}

	var inv mat.Dense
	if err := inv.Inverse(toDense(p.Matrix)); err != nil {
		return evaluation{err: fmt.Errorf("invert projection: %w", err)}
	}

	corners := []struct {
		ndcX, ndcY float64
		wall       mgl32.Vec3
	}{
		{-1, -1, w.A},
		{1, -1, w.B},
		{-1, 1, w.C},
		{1, 1, w.D()},
	}
	for _, cr := range corners {
		var out mat.VecDense
		out.MulVec(&inv, mat.NewVecDense(4, []float64{cr.ndcX, cr.ndcY, -1, 1}))
		onNear := mgl32.Vec3{
			float32(out.AtVec(0) / out.AtVec(3)),
			float32(out.AtVec(1) / out.AtVec(3)),
			float32(out.AtVec(2) / out.AtVec(3)),
		}
		rel := onNear.Sub(eye)
		depth := rel.Dot(p.Normal.Mul(-1))
		if !(depth > 0) {
			ev.residual = math.Inf(1)
			continue
		}
		hit := eye.Add(rel.Mul(p.Distance / depth))
		ev.residual = math.Max(ev.residual, float64(hit.Sub(cr.wall).Len()))
	}
	return ev
}

// toDense converts a column-major mgl32 matrix into a float64 gonum matrix.
func toDense(m mgl32.Mat4) *mat.Dense {
	d := mat.NewDense(4, 4, nil)
	for r := range 4 {
		for c := range 4 {
			d.Set(r, c, float64(m.At(r, c)))
		}
	}
	return d
}
