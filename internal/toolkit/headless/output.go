package headless

import (
	"fmt"

	"github.com/bnema/waydock/internal/toolkit"
)

// Output is a virtual display.
type Output struct {
	name    string
	mode    toolkit.OutputMode
	scale   float64
	enabled bool
	commits int
}

// NewOutput creates a disabled output with mode as its preferred mode.
func NewOutput(name string, mode toolkit.OutputMode) *Output {
	return &Output{name: name, mode: mode, scale: 1}
}

func (o *Output) Name() string { return o.name }

func (o *Output) Enable() error {
	o.enabled = true
	o.commits++
	return nil
}

func (o *Output) CommitState(state toolkit.OutputState) error {
	if state.Mode != nil {
		if state.Mode.Width <= 0 || state.Mode.Height <= 0 {
			return fmt.Errorf("output %s: invalid mode %dx%d", o.name, state.Mode.Width, state.Mode.Height)
		}
		o.mode = *state.Mode
	}
	if state.Scale > 0 {
		o.scale = state.Scale
	}
	o.enabled = state.Enabled
	o.commits++
	return nil
}

func (o *Output) Mode() toolkit.OutputMode { return o.mode }

func (o *Output) Scale() float64 { return o.scale }

// Enabled reports whether the output is on.
func (o *Output) Enabled() bool { return o.enabled }

// Commits is the number of committed states.
func (o *Output) Commits() int { return o.commits }
