package toolkit_test

import (
	"testing"

	"github.com/bnema/waydock/internal/toolkit"
	_ "github.com/bnema/waydock/internal/toolkit/headless"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxContains(t *testing.T) {
	box := toolkit.Box{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"top left corner", 10, 20, true},
		{"inside", 60.5, 44, true},
		{"right edge is exclusive", 110, 30, false},
		{"bottom edge is exclusive", 20, 70, false},
		{"left of box", 9.9, 30, false},
		{"above box", 20, 19, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, box.Contains(tt.x, tt.y))
		})
	}

	assert.False(t, toolkit.Box{Width: 0, Height: 10}.Contains(0, 0), "empty box contains nothing")
}

func TestBoxUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b toolkit.Box
		want toolkit.Box
	}{
		{
			name: "side by side",
			a:    toolkit.Box{X: 0, Y: 0, Width: 1920, Height: 1080},
			b:    toolkit.Box{X: 1920, Y: 0, Width: 2560, Height: 1440},
			want: toolkit.Box{X: 0, Y: 0, Width: 4480, Height: 1440},
		},
		{
			name: "negative origin",
			a:    toolkit.Box{X: -100, Y: 50, Width: 100, Height: 100},
			b:    toolkit.Box{X: 0, Y: 0, Width: 10, Height: 10},
			want: toolkit.Box{X: -100, Y: 0, Width: 110, Height: 150},
		},
		{
			name: "empty left operand",
			a:    toolkit.Box{},
			b:    toolkit.Box{X: 5, Y: 5, Width: 1, Height: 1},
			want: toolkit.Box{X: 5, Y: 5, Width: 1, Height: 1},
		},
		{
			name: "empty right operand",
			a:    toolkit.Box{X: 5, Y: 5, Width: 1, Height: 1},
			b:    toolkit.Box{X: 100, Y: 100},
			want: toolkit.Box{X: 5, Y: 5, Width: 1, Height: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Union(tt.b))
		})
	}
}

func TestEdgesHas(t *testing.T) {
	edges := toolkit.EdgeTop | toolkit.EdgeLeft

	assert.True(t, edges.Has(toolkit.EdgeTop))
	assert.True(t, edges.Has(toolkit.EdgeLeft))
	assert.False(t, edges.Has(toolkit.EdgeBottom))
	assert.False(t, edges.Has(toolkit.EdgeRight))
	assert.False(t, toolkit.EdgeNone.Has(toolkit.EdgeTop))
}

func TestOpen(t *testing.T) {
	assert.Contains(t, toolkit.Backends(), "headless")

	_, err := toolkit.Open("drm", toolkit.Options{})
	assert.ErrorIs(t, err, toolkit.ErrUnknownBackend)

	_, err = toolkit.Open("headless", toolkit.Options{Outputs: []string{"wide"}})
	assert.ErrorContains(t, err, "failed to create headless backend")

	backend, err := toolkit.Open("headless", toolkit.Options{Outputs: []string{"1920x1080"}})
	require.NoError(t, err)
	assert.NoError(t, backend.Close())
}

func TestRegisterDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		toolkit.Register("headless", func(toolkit.Options) (toolkit.Backend, error) { return nil, nil })
	})
	assert.Panics(t, func() { toolkit.Register("nil-opener", nil) })
}
