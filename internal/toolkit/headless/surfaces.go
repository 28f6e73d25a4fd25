package headless

import (
	"errors"
	"sync/atomic"

	"github.com/bnema/waydock/internal/toolkit"
)

var nextPID atomic.Int64

// Client is a fake protocol client.
type Client struct {
	pid int
}

// NewClient returns a client with a unique pid.
func NewClient() *Client {
	return &Client{pid: int(nextPID.Add(1))}
}

func (c *Client) PID() int { return c.pid }

// Surface is a fake wl_surface.
type Surface struct {
	client *Client
}

func (s *Surface) Client() toolkit.Client { return s.client }

// base holds the xdg_surface state shared by toplevels and popups.
type base struct {
	surface       *Surface
	initialized   bool
	initialCommit bool
	mapped        bool
	geometry      toolkit.Box
	configures    int
	data          any
	tree          *Tree
}

func (b *base) Surface() toolkit.Surface { return b.surface }
func (b *base) Initialized() bool        { return b.initialized }
func (b *base) InitialCommit() bool      { return b.initialCommit }
func (b *base) Geometry() toolkit.Box    { return b.geometry }
func (b *base) ScheduleConfigure()       { b.configures++ }
func (b *base) Data() any                { return b.data }
func (b *base) SetData(data any)         { b.data = data }

// HeadlessSurface returns the underlying fake surface.
func (b *base) HeadlessSurface() *Surface { return b.surface }

// ConfigureCount is the number of configures scheduled so far.
func (b *base) ConfigureCount() int { return b.configures }

// Mapped reports whether the surface is currently mapped.
func (b *base) Mapped() bool { return b.mapped }

// SetInitialized sets the base-surface setup flag.
func (b *base) SetInitialized(v bool) { b.initialized = v }

// SetGeometry sets the client-reported window geometry.
func (b *base) SetGeometry(box toolkit.Box) { b.geometry = box }

func (b *base) attach(tree *Tree) { b.tree = tree }

// detach drops the scene subtree, as the toolkit does on surface destroy.
func (b *base) detach() {
	if b.tree != nil {
		b.tree.Remove()
		b.tree = nil
	}
}

// Toplevel is a fake xdg_toplevel.
type Toplevel struct {
	base

	appID     string
	title     string
	requested toolkit.ToplevelRequest

	activated  bool
	maximized  bool
	fullscreen bool
	width      int
	height     int
	sizeSet    bool
	closeSent  bool

	buffer *Buffer
}

// NewToplevel creates an initialized toplevel owned by a new client.
func NewToplevel(appID, title string) *Toplevel {
	return &Toplevel{
		base: base{
			surface:     &Surface{client: NewClient()},
			initialized: true,
		},
		appID: appID,
		title: title,
	}
}

func (t *Toplevel) AppID() string                      { return t.appID }
func (t *Toplevel) Title() string                      { return t.title }
func (t *Toplevel) Requested() toolkit.ToplevelRequest { return t.requested }
func (t *Toplevel) SetActivated(activated bool)        { t.activated = activated }
func (t *Toplevel) SetMaximized(maximized bool)        { t.maximized = maximized }
func (t *Toplevel) SetFullscreen(fullscreen bool)      { t.fullscreen = fullscreen }
func (t *Toplevel) SendClose()                         { t.closeSent = true }

func (t *Toplevel) SetSize(width, height int) {
	t.width, t.height = width, height
	t.sizeSet = true
}

func (t *Toplevel) Buffer() (toolkit.Buffer, bool) {
	if t.buffer == nil {
		return nil, false
	}
	return t.buffer, true
}

// Activated reports the last activation state sent to the client.
func (t *Toplevel) Activated() bool { return t.activated }

// Maximized reports the last maximized state sent to the client.
func (t *Toplevel) Maximized() bool { return t.maximized }

// Fullscreen reports the last fullscreen state sent to the client.
func (t *Toplevel) Fullscreen() bool { return t.fullscreen }

// Size returns the last size sent to the client.
func (t *Toplevel) Size() (width, height int) { return t.width, t.height }

// CloseRequested reports whether a close was sent.
func (t *Toplevel) CloseRequested() bool { return t.closeSent }

// SetTitle changes the title.
func (t *Toplevel) SetTitle(title string) { t.title = title }

// SetBuffer attaches buffer; nil detaches.
func (t *Toplevel) SetBuffer(buffer *Buffer) { t.buffer = buffer }

// RequestMaximize records the client request and returns the event.
func (t *Toplevel) RequestMaximize(maximized bool) toolkit.RequestMaximize {
	t.requested.Maximized = maximized
	return toolkit.RequestMaximize{Toplevel: t}
}

// RequestFullscreen records the client request and returns the event.
func (t *Toplevel) RequestFullscreen(fullscreen bool) toolkit.RequestFullscreen {
	t.requested.Fullscreen = fullscreen
	return toolkit.RequestFullscreen{Toplevel: t}
}

// Map marks the toplevel mapped and returns the event.
func (t *Toplevel) Map() toolkit.ToplevelMap {
	t.mapped = true
	return toolkit.ToplevelMap{Toplevel: t}
}

// Unmap marks the toplevel unmapped and returns the event.
func (t *Toplevel) Unmap() toolkit.ToplevelUnmap {
	t.mapped = false
	return toolkit.ToplevelUnmap{Toplevel: t}
}

// Commit returns a commit event. first marks it as the initial commit.
func (t *Toplevel) Commit(first bool) toolkit.ToplevelCommit {
	t.initialCommit = first
	return toolkit.ToplevelCommit{Toplevel: t}
}

// Destroy detaches the toplevel's scene subtree and returns the event.
func (t *Toplevel) Destroy() toolkit.ToplevelDestroy {
	t.detach()
	return toolkit.ToplevelDestroy{Toplevel: t}
}

// size is the extent the scene uses for hit-testing.
func (t *Toplevel) size() (int, int) {
	if t.sizeSet && t.width > 0 && t.height > 0 {
		return t.width, t.height
	}
	return t.geometry.Width, t.geometry.Height
}

// Popup is a fake xdg_popup.
type Popup struct {
	base
	parent toolkit.XDGSurface
}

// NewPopup creates a mapped popup of parent.
func NewPopup(parent toolkit.XDGSurface, geometry toolkit.Box) *Popup {
	var client *Client
	if s, ok := parent.Surface().(*Surface); ok {
		client = s.client
	}
	return &Popup{
		base: base{
			surface:     &Surface{client: client},
			initialized: true,
			mapped:      true,
			geometry:    geometry,
		},
		parent: parent,
	}
}

func (p *Popup) Parent() toolkit.XDGSurface { return p.parent }

// Commit returns a commit event. first marks it as the initial commit.
func (p *Popup) Commit(first bool) toolkit.PopupCommit {
	p.initialCommit = first
	return toolkit.PopupCommit{Popup: p}
}

// Destroy detaches the popup's scene subtree and returns the event.
func (p *Popup) Destroy() toolkit.PopupDestroy {
	p.detach()
	return toolkit.PopupDestroy{Popup: p}
}

func (p *Popup) size() (int, int) { return p.geometry.Width, p.geometry.Height }

// Buffer is a CPU-side pixel buffer.
type Buffer struct {
	width  int
	height int
	pixels toolkit.PixelData
	err    error
	open   bool
}

// ErrNoDataAccess is returned by buffers created with NewOpaqueBuffer.
var ErrNoDataAccess = errors.New("buffer does not support data access")

// NewBuffer wraps pixel data with the given stride.
func NewBuffer(width, height, stride int, data []byte) *Buffer {
	return &Buffer{
		width:  width,
		height: height,
		pixels: toolkit.PixelData{Data: data, Stride: stride},
	}
}

// NewOpaqueBuffer creates a buffer whose pixels cannot be read, like a GPU
// buffer without a CPU mapping.
func NewOpaqueBuffer(width, height int) *Buffer {
	return &Buffer{width: width, height: height, err: ErrNoDataAccess}
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

func (b *Buffer) BeginDataAccess() (toolkit.PixelData, error) {
	if b.err != nil {
		return toolkit.PixelData{}, b.err
	}
	b.open = true
	return b.pixels, nil
}

func (b *Buffer) EndDataAccess() { b.open = false }

// InAccess reports whether BeginDataAccess is outstanding.
func (b *Buffer) InAccess() bool { return b.open }
