package overlay

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(f *FormOverlay, s string) {
	for _, r := range s {
		f.HandleKeyPress(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestFormOverlay_SubmitWithURL(t *testing.T) {
	f := NewFormOverlay("new tab", 60, false)
	typeText(f, "go.dev/doc")

	closed := f.HandleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, closed)
	assert.True(t, f.IsSubmitted())
	assert.Equal(t, "https://go.dev/doc", f.URL())
	assert.Equal(t, "", f.Title())
}

func TestFormOverlay_SubmitWithURLAndTitle(t *testing.T) {
	f := NewFormOverlay("new tab", 60, false)
	typeText(f, "https://pkg.go.dev")

	f.HandleKeyPress(tea.KeyMsg{Type: tea.KeyTab})
	typeText(f, "package docs")

	closed := f.HandleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, closed)
	assert.Equal(t, "https://pkg.go.dev", f.URL())
	assert.Equal(t, "package docs", f.Title())
}

func TestFormOverlay_EmptyURLDoesNotSubmit(t *testing.T) {
	f := NewFormOverlay("new tab", 60, false)

	closed := f.HandleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, closed)
	assert.False(t, f.IsSubmitted())
	require.Error(t, f.Err())
	assert.Contains(t, f.Render(), "url is required")

	typeText(f, "a")
	assert.NoError(t, f.Err(), "typing clears the error")
}

func TestFormOverlay_EmptyURLOpensDefault(t *testing.T) {
	f := NewFormOverlay("new tab", 60, false)
	f.SetDefaultURL("about:home")

	closed := f.HandleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, closed)
	assert.Equal(t, "about:home", f.URL())
}

func TestFormOverlay_EscCancels(t *testing.T) {
	f := NewFormOverlay("new tab", 60, false)

	closed := f.HandleKeyPress(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, closed)
	assert.True(t, f.IsCanceled())
	assert.False(t, f.IsSubmitted())
}

func TestFormOverlay_ShiftTabReturnsToURL(t *testing.T) {
	f := NewFormOverlay("new tab", 60, false)
	typeText(f, "a.example")

	f.HandleKeyPress(tea.KeyMsg{Type: tea.KeyDown})
	typeText(f, "t")
	f.HandleKeyPress(tea.KeyMsg{Type: tea.KeyShiftTab})
	typeText(f, "/x")

	require.True(t, f.HandleKeyPress(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, "https://a.example/x", f.URL())
	assert.Equal(t, "t", f.Title())
}

func TestFormOverlay_Render(t *testing.T) {
	for _, private := range []bool{false, true} {
		f := NewFormOverlay("new tab", 60, private)
		output := f.Render()
		assert.Contains(t, output, "new tab")
		assert.Contains(t, output, "url")
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "example.com", want: "https://example.com"},
		{in: "  http://example.com/a  ", want: "http://example.com/a"},
		{in: "localhost:8080", want: "https://localhost:8080"},
		{in: "about:blank", want: "about:blank"},
		{in: "", wantErr: true},
		{in: "https://", wantErr: true},
		{in: "ftp://example.com", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := NormalizeURL(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
