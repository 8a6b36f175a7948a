package assets

import "sync"

// DefaultMarginPx is how close to the viewport a slot must be before fetching.
const DefaultMarginPx = 100

// Target is the vertical extent of a visual slot, in logical pixels.
type Target struct {
	Top    int
	Height int
}

// Observer reports proximity-to-viewport transitions for one target.
type Observer interface {
	Observe(target Target, notify func(visible bool))
	Disconnect()
}

// ObserverFactory creates an observer that treats targets within marginPx of the viewport as visible.
type ObserverFactory func(marginPx int) Observer

// AlwaysVisible reports every target as visible as soon as it is observed.
func AlwaysVisible(int) Observer {
	return &alwaysVisible{}
}

type alwaysVisible struct {
	mu           sync.Mutex
	disconnected bool
}

func (o *alwaysVisible) Observe(_ Target, notify func(visible bool)) {
	o.mu.Lock()
	disconnected := o.disconnected
	o.mu.Unlock()
	if !disconnected {
		notify(true)
	}
}

func (o *alwaysVisible) Disconnect() {
	o.mu.Lock()
	o.disconnected = true
	o.mu.Unlock()
}

// Viewport is a scroll-position visibility signal for non-browser clients.
type Viewport struct {
	mu        sync.Mutex
	top       int
	height    int
	observers map[*viewportObserver]struct{}
}

// NewViewport creates a viewport of the given height scrolled to the top.
func NewViewport(height int) *Viewport {
	return &Viewport{height: height, observers: map[*viewportObserver]struct{}{}}
}

// Observer is an ObserverFactory bound to this viewport.
func (v *Viewport) Observer(marginPx int) Observer {
	return &viewportObserver{viewport: v, margin: marginPx}
}

// Scroll moves the viewport and notifies observers whose visibility changed.
func (v *Viewport) Scroll(top int) {
	v.mu.Lock()
	v.top = top
	v.mu.Unlock()
	v.evaluate()
}

// Resize changes the viewport height.
func (v *Viewport) Resize(height int) {
	v.mu.Lock()
	v.height = height
	v.mu.Unlock()
	v.evaluate()
}

// Observed returns the number of connected observers.
func (v *Viewport) Observed() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.observers)
}

type notification struct {
	notify  func(bool)
	visible bool
}

func (v *Viewport) evaluate() {
	v.mu.Lock()
	pending := make([]notification, 0)
	for o := range v.observers {
		visible := v.intersectsLocked(o.target, o.margin)
		if visible != o.visible {
			o.visible = visible
			pending = append(pending, notification{notify: o.notify, visible: visible})
		}
	}
	v.mu.Unlock()

	for _, n := range pending {
		n.notify(n.visible)
	}
}

func (v *Viewport) intersectsLocked(t Target, margin int) bool {
	top := v.top - margin
	bottom := v.top + v.height + margin
	return t.Top < bottom && t.Top+t.Height > top
}

type viewportObserver struct {
	viewport     *Viewport
	margin       int
	target       Target
	notify       func(bool)
	visible      bool
	disconnected bool
}

// Observe registers the target and reports its initial visibility if it is already in view.
func (o *viewportObserver) Observe(target Target, notify func(visible bool)) {
	v := o.viewport
	v.mu.Lock()
	if o.disconnected {
		v.mu.Unlock()
		return
	}
	o.target = target
	o.notify = notify
	o.visible = v.intersectsLocked(target, o.margin)
	v.observers[o] = struct{}{}
	visible := o.visible
	v.mu.Unlock()

	if visible {
		notify(true)
	}
}

func (o *viewportObserver) Disconnect() {
	v := o.viewport
	v.mu.Lock()
	o.disconnected = true
	delete(v.observers, o)
	v.mu.Unlock()
}
