package schemapad

import (
	"testing"
)

func TestSelection_Transitions(t *testing.T) {
	var s Selection

	if _, ok := s.Selected(); ok {
		t.Error("fresh selection is non-empty")
	}

	s.ClickProcess("p1")
	if id, ok := s.Selected(); !ok || id != "p1" {
		t.Errorf("Selected() = %v, %v, want p1", id, ok)
	}

	// Clicking a different process switches.
	s.ClickProcess("p2")
	if id, _ := s.Selected(); id != "p2" {
		t.Errorf("Selected() = %v, want p2", id)
	}

	// Clicking the same process again deselects.
	s.ClickProcess("p2")
	if _, ok := s.Selected(); ok {
		t.Error("re-click did not deselect")
	}

	// Canvas click clears.
	s.ClickProcess("p3")
	s.ClickCanvas()
	if _, ok := s.Selected(); ok {
		t.Error("canvas click did not deselect")
	}
}

func TestSelection_ChangeReporting(t *testing.T) {
	var s Selection

	if s.ClickCanvas() {
		t.Error("ClickCanvas() on empty selection reported a change")
	}
	if !s.ClickProcess("p1") {
		t.Error("ClickProcess(p1) reported no change")
	}
	if s.ClickProcess("") {
		t.Error("ClickProcess(\"\") reported a change")
	}
}
