package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHandle(t *testing.T) {
	tests := []struct {
		in      string
		want    Handle
		wantErr bool
	}{
		{in: "0.1", want: Handle{Index: 0, Generation: 1}},
		{in: "12.34", want: Handle{Index: 12, Generation: 34}},
		{in: "", wantErr: true},
		{in: "3", wantErr: true},
		{in: "3.0", wantErr: true},
		{in: "-1.1", wantErr: true},
		{in: "a.b", wantErr: true},
		{in: "1.2.3", wantErr: true},
		{in: "0x7f000001", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHandle(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoSuchWindow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestArena(t *testing.T) {
	var a arena
	w1, w2 := &Window{}, &Window{}

	h1 := a.insert(w1)
	h2 := a.insert(w2)
	assert.Equal(t, Handle{Index: 0, Generation: 1}, h1)
	assert.Equal(t, Handle{Index: 1, Generation: 1}, h2)
	assert.Equal(t, 2, a.len())
	assert.True(t, Handle{}.IsZero())
	assert.False(t, h1.IsZero())

	got, ok := a.get(h1)
	require.True(t, ok)
	assert.Same(t, w1, got)

	require.True(t, a.remove(h1))
	assert.False(t, a.remove(h1), "double remove")
	_, ok = a.get(h1)
	assert.False(t, ok)
	assert.Equal(t, 1, a.len())

	w3 := &Window{}
	h3 := a.insert(w3)
	assert.Equal(t, Handle{Index: 0, Generation: 2}, h3)
	_, ok = a.get(h1)
	assert.False(t, ok, "stale handle must not resolve to the new window")

	_, ok = a.get(Handle{Index: 7, Generation: 1})
	assert.False(t, ok)
}
