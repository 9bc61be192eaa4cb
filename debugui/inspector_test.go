package debugui

import (
	"testing"
	"time"
)

func TestInspectorHistory(t *testing.T) {
	in := NewInspector(4)

	in.Record(0.010)
	in.Record(0.020)

	if got := in.AverageFrameTime(); got < 7.49 || got > 7.51 {
		t.Errorf("expected average 7.5ms over a half-filled ring, got %f", got)
	}

	for range 4 {
		in.Record(0.016)
	}
	if got := in.AverageFrameTime(); got < 15.99 || got > 16.01 {
		t.Errorf("expected ring to wrap to 16ms, got %f", got)
	}
	if in.frameIndex != 2 {
		t.Errorf("expected frame index 2 after six records, got %d", in.frameIndex)
	}
}

func TestNewInspectorDefaultHistory(t *testing.T) {
	in := NewInspector(0)
	if len(in.frameHistory) != 120 {
		t.Errorf("expected 120 frames of history, got %d", len(in.frameHistory))
	}
}

func TestFrameTimer(t *testing.T) {
	ft := NewFrameTimer()
	time.Sleep(5 * time.Millisecond)
	if d := ft.DeltaTime(); d < 0.004 {
		t.Errorf("expected roughly 5ms, got %fs", d)
	}
}

func TestOverlayAdd(t *testing.T) {
	var o Overlay
	o.Add(func() {})
	o.Add(func() {})
	if len(o.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(o.Items))
	}
}
