package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/stretchr/testify/assert"
)

func TestKeyTable(t *testing.T) {
	assert := assert.New(t)
	w := newEngineWindow()

	assert.False(w.IsKeyDown(common.KeyW))
	w.setKey(common.KeyW, true)
	w.setKey(common.KeyR, true)
	assert.True(w.IsKeyDown(common.KeyW))

	w.setKey(common.KeyW, false)
	assert.False(w.IsKeyDown(common.KeyW))
	assert.True(w.IsKeyDown(common.KeyR))

	w.releaseAllKeys()
	assert.False(w.IsKeyDown(common.KeyR))
}

func TestBuilderOptions(t *testing.T) {
	assert := assert.New(t)

	w := newEngineWindow(WithTitle("cave"), WithWidth(1024), WithHeight(0), WithResizable(false))
	assert.Equal("cave", w.title)
	assert.Equal(1024, w.Width())
	assert.Equal(800, w.Height())
	assert.False(w.resizable)
	assert.False(w.IsRunning())
	assert.Nil(w.SurfaceDescriptor())
	assert.Error(w.Close())
}
