package scene

import "testing"

func TestSceneEvents(t *testing.T) {
	s := New()
	var got []Op
	s.Subscribe(func(ev Event) { got = append(got, ev.Op) })

	o := NewText(KindCustomText, "GO TEAM", 10, 10, 20)
	s.Add(o)
	s.Move(o, 20, 20)
	s.SetScale(o, 1.5, 1.5)
	s.SetRotation(o, 45)
	s.Restyle(o)
	s.Remove(o)
	s.Clear()

	want := []Op{OpAdd, OpMove, OpScale, OpRotate, OpRestyle, OpRemove, OpClear}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSceneFind(t *testing.T) {
	s := New()
	hidden := NewText(KindNameText, "HIDDEN", 0, 0, 38)
	hidden.Visible = false
	s.Add(hidden)

	if s.Find(KindNameText) != nil {
		t.Error("Find should skip invisible objects")
	}

	visible := NewText(KindNameText, "SMITH", 0, 0, 38)
	s.Add(visible)
	if s.Find(KindNameText) != visible {
		t.Error("Find should return the visible object")
	}

	s.Add(NewText(KindCustomText, "a", 0, 0, 12))
	s.Add(NewText(KindCustomText, "b", 0, 0, 12))
	if n := len(s.FindAll(KindCustomText)); n != 2 {
		t.Errorf("FindAll(customText) = %d objects, want 2", n)
	}
}

func TestSceneRemoveKeepsOrder(t *testing.T) {
	s := New()
	a := NewText(KindCustomText, "a", 0, 0, 12)
	b := NewText(KindCustomText, "b", 0, 0, 12)
	c := NewText(KindCustomText, "c", 0, 0, 12)
	s.Add(a)
	s.Add(b)
	s.Add(c)

	s.Remove(b)
	objs := s.Objects()
	if len(objs) != 2 || objs[0] != a || objs[1] != c {
		t.Errorf("draw order broken after remove: %v", objs)
	}

	// Removing an object that is not present is a no-op.
	s.Remove(b)
	if len(s.Objects()) != 2 {
		t.Error("double remove changed the scene")
	}
}

func TestViewKeyArtworkKind(t *testing.T) {
	tests := []struct {
		view ViewKey
		want Kind
	}{
		{ViewFront, KindArtworkFront},
		{ViewBack, KindArtworkBack},
		{ViewLeftSleeve, KindSleeveLeft},
		{ViewRightSleeve, KindSleeveRight},
		{ViewCollar, KindCollar},
	}
	for _, tt := range tests {
		if got := tt.view.ArtworkKind(); got != tt.want {
			t.Errorf("%s.ArtworkKind() = %s, want %s", tt.view, got, tt.want)
		}
	}
}

func TestParseView(t *testing.T) {
	if v, err := ParseView("left-sleeve"); err != nil || v != ViewLeftSleeve {
		t.Errorf("ParseView(left-sleeve) = %v, %v", v, err)
	}
	if _, err := ParseView("top"); err == nil {
		t.Error("ParseView(top) should fail")
	}
}
