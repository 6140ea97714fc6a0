package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/kastheco/tabtray/keys"
)

func menuText(m *Menu) string {
	return ansi.Strip(m.String())
}

func TestMenu_EmptyStateOffersNewTab(t *testing.T) {
	m := NewMenu()
	m.SetSize(140, 1)

	out := menuText(m)
	if !strings.Contains(out, "n new tab") {
		t.Fatalf("empty menu should offer a new tab; got: %q", out)
	}
	if strings.Contains(out, "close") {
		t.Fatalf("empty menu has nothing to close; got: %q", out)
	}
}

func TestMenu_DefaultStateShowsTabActions(t *testing.T) {
	m := NewMenu()
	m.SetSize(160, 1)
	m.SetState(StateDefault)

	out := menuText(m)
	for _, want := range []string{"x close", "↵/o select", "m grab/drop", "y copy url", "/ search", "q quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("default menu missing %q; got: %q", want, out)
		}
	}
	if !strings.Contains(out, " │ ") {
		t.Errorf("default menu should separate groups; got: %q", out)
	}
}

func TestMenu_HeaderActionLabel(t *testing.T) {
	m := NewMenu()
	m.SetSize(140, 1)
	m.SetState(StateHeader)

	m.SetHeaderAction("expand")
	if out := menuText(m); !strings.Contains(out, "space expand") {
		t.Fatalf("menu should render the header space label; got: %q", out)
	}

	m.SetHeaderAction("collapse")
	if out := menuText(m); !strings.Contains(out, "space collapse") {
		t.Fatalf("menu should render the header space label; got: %q", out)
	}

	m.SetHeaderAction("bogus")
	if out := menuText(m); !strings.Contains(out, "space toggle") {
		t.Fatalf("unknown labels fall back to toggle; got: %q", out)
	}
}

func TestMenu_DraggingShowsOnlyDragKeys(t *testing.T) {
	m := NewMenu()
	m.SetSize(140, 1)
	m.SetState(StateDragging)

	out := menuText(m)
	if !strings.Contains(out, "m grab/drop") || !strings.Contains(out, "esc cancel") {
		t.Fatalf("drag menu should show drop and cancel; got: %q", out)
	}
	if strings.Contains(out, "quit") {
		t.Fatalf("drag menu should not show system keys; got: %q", out)
	}
}

func TestMenu_KeydownKeepsLabel(t *testing.T) {
	m := NewMenu()
	m.SetSize(140, 1)
	m.SetState(StateDefault)
	m.Keydown(keys.KeyClose)
	if out := menuText(m); !strings.Contains(out, "x close") {
		t.Fatalf("highlighted key should still render; got: %q", out)
	}
	m.ClearKeydown()
	if m.keyDown != -1 {
		t.Fatalf("ClearKeydown should reset keyDown, got %d", m.keyDown)
	}
}
