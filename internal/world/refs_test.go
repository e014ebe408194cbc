package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrickRef_Resolve(t *testing.T) {
	w := twoGridWorld()

	b, ok := BrickRef{Grid: 1, Index: 0}.Resolve(w)
	require.True(t, ok)
	assert.Equal(t, uint32(10), b.ID)

	b, ok = BrickRef{Grid: 2, Index: 0}.Resolve(w)
	require.True(t, ok)
	assert.Equal(t, uint32(20), b.ID)
}

func TestBrickRef_Resolve_Dangling(t *testing.T) {
	w := twoGridWorld()

	tests := []struct {
		name string
		ref  BrickRef
	}{
		{"unknown grid", BrickRef{Grid: 99, Index: 0}},
		{"index past arena", BrickRef{Grid: 1, Index: 5}},
		{"negative index", BrickRef{Grid: 1, Index: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := tt.ref.Resolve(w)
			assert.False(t, ok)
		})
	}
}

func TestBrickRef_String(t *testing.T) {
	assert.Equal(t, "2/7", BrickRef{Grid: 2, Index: 7}.String())
}

func TestWorld_Grid(t *testing.T) {
	w := twoGridWorld()
	require.NotNil(t, w.Grid(1))
	require.NotNil(t, w.Grid(2))
	assert.Nil(t, w.Grid(3))
}

func TestWorld_BrickCount(t *testing.T) {
	assert.Equal(t, 3, twoGridWorld().BrickCount())
}
