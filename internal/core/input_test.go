package core

import "testing"

func TestActionRoundTrip(t *testing.T) {
	for a := ActionNone; a <= ActionSkin; a++ {
		if got := ParseAction(a.String()); got != a {
			t.Errorf("ParseAction(%q) = %v, expected %v", a.String(), got, a)
		}
	}
	if got := ParseAction("Teleport"); got != ActionNone {
		t.Errorf("ParseAction(unknown) = %v, expected None", got)
	}
}

func TestInputFrameList(t *testing.T) {
	f := NewInputFrame()
	if !f.Empty() {
		t.Error("new frame should be empty")
	}

	f.Set(ActionBoost)
	f.Set(ActionLeft)

	list := f.List()
	if len(list) != 2 || list[0] != ActionLeft || list[1] != ActionBoost {
		t.Errorf("List() = %v, expected [Left Boost]", list)
	}

	clone := f.Clone()
	f.Clear()
	if !f.Empty() {
		t.Error("Clear should empty the frame")
	}
	if !clone.Has(ActionLeft) {
		t.Error("Clone should be independent of the original")
	}
}
