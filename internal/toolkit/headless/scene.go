package headless

import (
	"fmt"
	"slices"
	"time"

	"github.com/bnema/waydock/internal/toolkit"
)

// Tree is a scene subtree. Children later in the slice are stacked above
// earlier ones.
type Tree struct {
	scene    *Scene
	parent   *Tree
	surface  toolkit.XDGSurface
	x, y     int
	children []*Tree
}

func (t *Tree) Position() (int, int) { return t.x, t.y }

func (t *Tree) SetPosition(x, y int) { t.x, t.y = x, y }

func (t *Tree) RaiseToTop() {
	if t.parent == nil {
		return
	}
	siblings := slices.DeleteFunc(t.parent.children, func(c *Tree) bool { return c == t })
	t.parent.children = append(siblings, t)
}

func (t *Tree) LowerToBottom() {
	if t.parent == nil {
		return
	}
	siblings := slices.DeleteFunc(t.parent.children, func(c *Tree) bool { return c == t })
	t.parent.children = append([]*Tree{t}, siblings...)
}

// Remove detaches the subtree from the scene, like the toolkit does when the
// surface it renders is destroyed.
func (t *Tree) Remove() {
	if t.parent == nil {
		return
	}
	t.parent.children = slices.DeleteFunc(t.parent.children, func(c *Tree) bool { return c == t })
	t.parent = nil
}

// Surface returns the xdg surface this subtree renders.
func (t *Tree) Surface() toolkit.XDGSurface { return t.surface }

func (t *Tree) absolute() (int, int) {
	x, y := t.x, t.y
	for p := t.parent; p != nil; p = p.parent {
		x += p.x
		y += p.y
	}
	return x, y
}

type sized interface {
	size() (int, int)
	Mapped() bool
}

// Scene is an in-memory scene graph with z-ordered hit-testing.
type Scene struct {
	root    *Tree
	outputs map[toolkit.Output]toolkit.Box
	frames  map[toolkit.Output]int
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	s := &Scene{
		outputs: make(map[toolkit.Output]toolkit.Box),
		frames:  make(map[toolkit.Output]int),
	}
	s.root = &Tree{scene: s}
	return s
}

func (s *Scene) CreateSurfaceTree(parent toolkit.SceneTree, surface toolkit.XDGSurface) toolkit.SceneTree {
	p := s.root
	if pt, ok := parent.(*Tree); ok && pt != nil {
		p = pt
	}
	tree := &Tree{scene: s, parent: p, surface: surface}
	p.children = append(p.children, tree)
	if a, ok := surface.(interface{ attach(*Tree) }); ok {
		a.attach(tree)
	}
	return tree
}

func (s *Scene) SurfaceAt(lx, ly float64) (toolkit.Hit, bool) {
	return s.hit(s.root, nil, lx, ly)
}

func (s *Scene) hit(t *Tree, owner toolkit.Toplevel, lx, ly float64) (toolkit.Hit, bool) {
	if tl, ok := t.surface.(toolkit.Toplevel); ok {
		owner = tl
	}
	if sz, ok := t.surface.(sized); ok && !sz.Mapped() {
		return toolkit.Hit{}, false
	}

	for i := len(t.children) - 1; i >= 0; i-- {
		if h, ok := s.hit(t.children[i], owner, lx, ly); ok {
			return h, true
		}
	}

	sz, ok := t.surface.(sized)
	if !ok {
		return toolkit.Hit{}, false
	}
	w, h := sz.size()
	x, y := t.absolute()
	box := toolkit.Box{X: x, Y: y, Width: w, Height: h}
	if !box.Contains(lx, ly) {
		return toolkit.Hit{}, false
	}
	return toolkit.Hit{
		Surface:  t.surface.Surface(),
		Toplevel: owner,
		SX:       lx - float64(x),
		SY:       ly - float64(y),
	}, true
}

func (s *Scene) AttachOutput(output toolkit.Output, x, y int) error {
	if _, ok := s.outputs[output]; ok {
		return fmt.Errorf("output %s already attached", output.Name())
	}
	mode := output.Mode()
	s.outputs[output] = toolkit.Box{X: x, Y: y, Width: mode.Width, Height: mode.Height}
	return nil
}

func (s *Scene) DetachOutput(output toolkit.Output) {
	delete(s.outputs, output)
	delete(s.frames, output)
}

func (s *Scene) RenderOutput(output toolkit.Output, now time.Time) error {
	if _, ok := s.outputs[output]; !ok {
		return fmt.Errorf("output %s has no scene output", output.Name())
	}
	s.frames[output]++
	return nil
}

// Frames returns how many frames were rendered on output.
func (s *Scene) Frames(output toolkit.Output) int { return s.frames[output] }

// Stack returns the root-level subtrees bottom to top.
func (s *Scene) Stack() []*Tree {
	return append([]*Tree(nil), s.root.children...)
}

// StackIndex returns the z-position of tree among its siblings, or -1.
func (s *Scene) StackIndex(tree toolkit.SceneTree) int {
	t, ok := tree.(*Tree)
	if !ok || t.parent == nil {
		return -1
	}
	return slices.Index(t.parent.children, t)
}
