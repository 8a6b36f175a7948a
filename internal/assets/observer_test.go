package assets

import "testing"

type recorder struct {
	events []bool
}

func (r *recorder) notify(visible bool) {
	r.events = append(r.events, visible)
}

func TestViewportMargin(t *testing.T) {
	v := NewViewport(500)
	inside := &recorder{}
	edge := &recorder{}
	outside := &recorder{}
	v.Observer(DefaultMarginPx).Observe(Target{Top: 100, Height: 50}, inside.notify)
	v.Observer(DefaultMarginPx).Observe(Target{Top: 599, Height: 50}, edge.notify)
	v.Observer(DefaultMarginPx).Observe(Target{Top: 600, Height: 50}, outside.notify)

	if len(inside.events) != 1 || !inside.events[0] {
		t.Fatalf("expected inside target visible, got %v", inside.events)
	}
	if len(edge.events) != 1 || !edge.events[0] {
		t.Fatalf("expected target within margin visible, got %v", edge.events)
	}
	if len(outside.events) != 0 {
		t.Fatalf("expected target past margin to stay quiet, got %v", outside.events)
	}
}

func TestViewportTransitions(t *testing.T) {
	v := NewViewport(200)
	r := &recorder{}
	o := v.Observer(0)
	o.Observe(Target{Top: 1000, Height: 100}, r.notify)

	v.Scroll(900)
	v.Scroll(950)
	v.Scroll(0)
	v.Resize(2000)
	if len(r.events) != 3 || !r.events[0] || r.events[1] || !r.events[2] {
		t.Fatalf("unexpected transitions %v", r.events)
	}

	o.Disconnect()
	v.Resize(10)
	v.Resize(2000)
	if len(r.events) != 3 {
		t.Fatalf("disconnected observer notified: %v", r.events)
	}
	if v.Observed() != 0 {
		t.Fatalf("expected no observers")
	}
}

func TestObserveAfterDisconnectIsNoop(t *testing.T) {
	v := NewViewport(100)
	r := &recorder{}
	o := v.Observer(0)
	o.Disconnect()
	o.Observe(Target{Top: 0, Height: 10}, r.notify)
	if len(r.events) != 0 || v.Observed() != 0 {
		t.Fatalf("expected no registration after disconnect")
	}

	a := AlwaysVisible(0)
	a.Disconnect()
	a.Observe(Target{}, r.notify)
	if len(r.events) != 0 {
		t.Fatalf("expected always-visible observer to stay quiet after disconnect")
	}
	AlwaysVisible(0).Observe(Target{}, r.notify)
	if len(r.events) != 1 || !r.events[0] {
		t.Fatalf("expected immediate visibility, got %v", r.events)
	}
}
