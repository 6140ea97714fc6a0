package overlay

import (
	"errors"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// FormOverlay asks for the URL and optional title of a new tab.
type FormOverlay struct {
	form      *huh.Form
	urlVal    string
	titleVal  string
	title     string
	err       error
	submitted bool
	canceled  bool
	private   bool
	width     int

	// defaultURL is opened when the url field is left empty.
	defaultURL string
	urlInput   *huh.Input
}

// NewFormOverlay creates a new tab form with URL and title inputs.
func NewFormOverlay(title string, width int, private bool) *FormOverlay {
	f := &FormOverlay{
		title:   title,
		width:   width,
		private: private,
	}

	formWidth := width - 6
	if formWidth < 34 {
		formWidth = 34
	}

	f.urlInput = huh.NewInput().
		Key("url").
		Title("url").
		Placeholder("example.com").
		Value(&f.urlVal)

	f.form = huh.NewForm(
		huh.NewGroup(
			f.urlInput,
			huh.NewInput().
				Key("title").
				Title("title (optional)").
				Value(&f.titleVal),
		),
	).
		WithTheme(ThemeRosePine(private)).
		WithWidth(formWidth).
		WithShowHelp(false).
		WithShowErrors(false)

	_ = f.form.Init()

	return f
}

// SetDefaultURL makes an empty url field open u instead of failing.
func (f *FormOverlay) SetDefaultURL(u string) {
	f.defaultURL = strings.TrimSpace(u)
	if f.defaultURL != "" {
		f.urlInput.Placeholder(f.defaultURL)
	}
}

// rawURL is the typed url, or the default when nothing was typed.
func (f *FormOverlay) rawURL() string {
	if strings.TrimSpace(f.urlVal) == "" {
		return f.defaultURL
	}
	return f.urlVal
}

func (f *FormOverlay) updateForm(msg tea.Msg) {
	updated, _ := f.form.Update(msg)
	if form, ok := updated.(*huh.Form); ok {
		f.form = form
	}
}

// HandleKeyPress processes a key and returns true when the overlay should close.
func (f *FormOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEsc:
		f.canceled = true
		return true

	case tea.KeyEnter:
		if _, err := NormalizeURL(f.rawURL()); err != nil {
			f.err = err
			return false
		}
		f.err = nil
		f.submitted = true
		return true

	case tea.KeyTab, tea.KeyDown:
		f.updateForm(huh.NextField())
		return false

	case tea.KeyShiftTab, tea.KeyUp:
		f.updateForm(huh.PrevField())
		return false

	default:
		f.err = nil
		f.updateForm(msg)
		return false
	}
}

var errEmptyURL = errors.New("url is required")

// NormalizeURL trims raw and adds an https scheme to bare host names.
// about: and file: URLs are accepted as typed.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errEmptyURL
	}
	if !strings.Contains(raw, ":") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.New("not a valid url")
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return "", errors.New("url has no host")
		}
	case "about", "file":
	default:
		// host:port without a scheme parses as scheme "host".
		if u.Opaque != "" && !strings.Contains(raw, "//") {
			return NormalizeURL("https://" + raw)
		}
		return "", errors.New("unsupported scheme " + u.Scheme)
	}
	return u.String(), nil
}

// Render returns the styled overlay string.
func (f *FormOverlay) Render() string {
	w := f.width
	if w < 40 {
		w = 40
	}

	accent := colorIris
	if f.private {
		accent = colorLove
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		MarginBottom(1)

	hintStyle := lipgloss.NewStyle().
		Foreground(colorMuted).
		MarginTop(1)

	errStyle := lipgloss.NewStyle().Foreground(colorLove)

	content := titleStyle.Render(f.title) + "\n"
	content += f.form.View() + "\n"
	if f.err != nil {
		content += errStyle.Render(f.err.Error()) + "\n"
	}
	content += hintStyle.Render("tab/↑↓ navigate · enter open")

	style := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(w)

	return style.Render(content)
}

// URL returns the normalized URL, or the raw input when it does not parse.
func (f *FormOverlay) URL() string {
	u, err := NormalizeURL(f.rawURL())
	if err != nil {
		return strings.TrimSpace(f.rawURL())
	}
	return u
}

// Title returns the title field value.
func (f *FormOverlay) Title() string {
	return strings.TrimSpace(f.titleVal)
}

func (f *FormOverlay) Err() error        { return f.err }
func (f *FormOverlay) IsSubmitted() bool { return f.submitted }
func (f *FormOverlay) IsCanceled() bool  { return f.canceled }
