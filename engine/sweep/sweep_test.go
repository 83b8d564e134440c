package sweep

import (
	"context"
	"testing"

	"github.com/Carmen-Shannon/oxy-cave/engine/cave"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridPoints(t *testing.T) {
	assert := assert.New(t)
	c := cave.NewCave(cave.WithHalfExtent(1), cave.WithTransform(mgl32.Ident4()))

	assert.Equal([]mgl32.Vec3{{0, 0, 0}}, Grid{Steps: 1}.Points(c))
	assert.Equal([]mgl32.Vec3{{0, 0, 0}}, Grid{}.Points(c))

	pts := Grid{Steps: 3, Margin: 0.5}.Points(c)
	require.Len(t, pts, 27)
	assert.Equal(mgl32.Vec3{-0.5, -0.5, -0.5}, pts[0])
	assert.Equal(mgl32.Vec3{0.5, 0.5, 0.5}, pts[26])
	for _, p := range pts {
		assert.True(c.Contains(p), "%v", p)
	}
}

func TestRunInteriorAcceptsEverything(t *testing.T) {
	assert := assert.New(t)
	c := cave.NewCave()

	r, err := Run(context.Background(), c, Grid{Steps: 5, Margin: 0.5}, 0.01, 1000, 4)
	require.NoError(t, err)

	assert.Equal(125, r.Points)
	assert.Equal(125*int(cave.WallCount), r.Evaluations)
	assert.Equal(r.Evaluations, r.Accepted)
	assert.Zero(r.RejectedTotal())
	assert.Zero(r.Inverted)
	assert.Less(r.MaxResidual, 0.05)
}

func TestRunRejectsEyesOnTheWalls(t *testing.T) {
	assert := assert.New(t)
	c := cave.NewCave(cave.WithTransform(mgl32.Ident4()))

	r, err := Run(context.Background(), c, Grid{Steps: 3}, 0.01, 1000, 2)
	require.NoError(t, err)

	// each wall plane holds one 3x3 slice of the lattice
	assert.Equal(81, r.Evaluations)
	assert.Equal(27, r.Rejected[RejectBehind])
	assert.Equal(54, r.Accepted)
	assert.Zero(r.Rejected[RejectDegenerate])
}

func TestRunClassifiesClipErrors(t *testing.T) {
	r, err := Run(context.Background(), cave.NewCave(), Grid{Steps: 2, Margin: 1}, 0, 1000, 0)
	require.NoError(t, err)

	assert.Equal(t, 8*int(cave.WallCount), r.Rejected[RejectClip])
	assert.Zero(t, r.Accepted)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := Run(ctx, cave.NewCave(), Grid{Steps: 4}, 0.01, 1000, 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 64, r.Points)
	assert.Zero(t, r.Evaluations)
}

func TestReportString(t *testing.T) {
	r := Report{Points: 1, Evaluations: 3, Accepted: 2}
	r.Rejected[RejectBehind] = 1
	assert.Contains(t, r.String(), "rejected=1")
	assert.Contains(t, r.String(), "behind=1")
	assert.Equal(t, "eye behind wall", RejectBehind.String())
}
