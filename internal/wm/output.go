package wm

import (
	"time"

	"github.com/bnema/waydock/internal/display"
	"github.com/bnema/waydock/internal/logger"
	"github.com/bnema/waydock/internal/toolkit"
)

// Layout exposes the output arrangement.
func (s *Server) Layout() *display.Layout { return s.layout }

func (s *Server) handleNewOutput(ev toolkit.NewOutput) {
	out := ev.Output
	if out == nil {
		return
	}
	if err := out.Enable(); err != nil {
		logger.Errorf("Failed to enable output %s: %v", out.Name(), err)
		return
	}

	mode := out.Mode()
	mon, changed := s.layout.AddAuto(out.Name(), mode.Width, mode.Height, out.Scale())
	if err := s.scene.AttachOutput(out, mon.X, mon.Y); err != nil {
		logger.Warnf("Failed to attach output %s to the scene: %v", out.Name(), err)
	}
	s.outputs[out.Name()] = out
	logger.Infof("Output %s: %dx%d at %d,%d", out.Name(), mon.Width, mon.Height, mon.X, mon.Y)

	if changed {
		s.layoutChanged()
	}
}

func (s *Server) handleOutputFrame(ev toolkit.OutputFrame) {
	if err := s.scene.RenderOutput(ev.Output, time.Now()); err != nil {
		logger.Debugf("Failed to render %s: %v", ev.Output.Name(), err)
	}
}

func (s *Server) handleOutputRequestState(ev toolkit.OutputRequestState) {
	out := ev.Output
	if err := out.CommitState(ev.State); err != nil {
		logger.Warnf("Output %s rejected state: %v", out.Name(), err)
		return
	}
	if ev.State.Mode == nil {
		return
	}
	mode := out.Mode()
	if s.layout.Resize(out.Name(), mode.Width, mode.Height) {
		s.layoutChanged()
	}
}

func (s *Server) handleOutputDestroy(ev toolkit.OutputDestroy) {
	out := ev.Output
	s.scene.DetachOutput(out)
	delete(s.outputs, out.Name())
	logger.Infof("Output %s removed", out.Name())

	if s.layout.Remove(out.Name()) {
		s.layoutChanged()
	}
}

// layoutChanged reacts to a new combined output box.
func (s *Server) layoutChanged() {
	s.cursor.ConstrainTo(s.layout.Box())
	s.applyLayout()
}
