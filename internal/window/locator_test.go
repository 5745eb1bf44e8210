package window

import (
	"errors"
	"testing"

	"github.com/bryanchriswhite/demorec/internal/geometry"
)

type fakeStrategy struct {
	name    string
	windows []Window
	err     error
}

func (f *fakeStrategy) Name() string           { return f.name }
func (f *fakeStrategy) List() ([]Window, error) { return f.windows, f.err }

func rect(x, y, w, h int) *geometry.Rect {
	return &geometry.Rect{X: x, Y: y, Width: w, Height: h}
}

func TestLocator_MergesAndDeduplicates(t *testing.T) {
	first := &fakeStrategy{name: "first", windows: []Window{
		{Title: "Demo - Google Chrome", App: "Google Chrome", Bounds: rect(0, 0, 1200, 800), Handle: "a"},
		{Title: "Editor", App: "Code", Bounds: rect(0, 0, 1000, 700)},
	}}
	second := &fakeStrategy{name: "second", windows: []Window{
		// Same (app, title) as the first strategy, different handle.
		{Title: "Demo - Google Chrome", App: "Google Chrome", Handle: "b"},
		{Title: "Terminal", App: "Alacritty", Bounds: rect(0, 0, 800, 600)},
	}}

	windows, err := NewLocator(first, second).List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows after dedupe, got %d", len(windows))
	}
	// Earlier strategy wins the duplicate.
	if windows[0].Handle != "a" {
		t.Errorf("expected first strategy's window to shadow the duplicate, got handle %q", windows[0].Handle)
	}
}

func TestLocator_DropsDecorativeChrome(t *testing.T) {
	s := &fakeStrategy{name: "s", windows: []Window{
		{Title: "Tooltip", App: "App", Bounds: rect(10, 10, 40, 20)},
		{Title: "Tall sidebar", App: "App", Bounds: rect(0, 0, 60, 900)},
		{Title: "Real Window", App: "App", Bounds: rect(0, 0, 1280, 720)},
		{Title: "No bounds reported", App: "Other"},
	}}

	windows, err := NewLocator(s).List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Only the tiny tooltip is dropped: chrome must be BOTH narrow and short,
	// and unknown bounds are kept.
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d: %+v", len(windows), windows)
	}
	for _, w := range windows {
		if w.Title == "Tooltip" {
			t.Error("decorative tooltip survived filtering")
		}
	}
}

func TestLocator_FindMatchesTitleOrOwner(t *testing.T) {
	s := &fakeStrategy{name: "s", windows: []Window{
		{Title: "some page", App: "Firefox", Bounds: rect(0, 0, 1200, 800)},
		{Title: "Demo – localhost:3000", App: "Google Chrome", Bounds: rect(0, 0, 1200, 800)},
	}}
	l := NewLocator(s)

	w, err := l.Find("chrome")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.App != "Google Chrome" {
		t.Errorf("expected owner match on Chrome, got %+v", w)
	}

	w, err = l.Find("LOCALHOST:3000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Title != "Demo – localhost:3000" {
		t.Errorf("expected case-insensitive title match, got %+v", w)
	}
}

func TestLocator_FindNotFound(t *testing.T) {
	s := &fakeStrategy{name: "s", windows: []Window{
		{Title: "Editor", App: "Code", Bounds: rect(0, 0, 1000, 700)},
	}}

	_, err := NewLocator(s).Find("nonexistent-window")
	if !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}
}

func TestLocator_FindRejectsInvalidPattern(t *testing.T) {
	_, err := NewLocator(&fakeStrategy{name: "s"}).Find("([")
	if err == nil {
		t.Fatal("expected error for invalid regex")
	}
}

func TestLocator_SurvivesFailingStrategy(t *testing.T) {
	broken := &fakeStrategy{name: "broken", err: errors.New("no display")}
	working := &fakeStrategy{name: "working", windows: []Window{
		{Title: "Window", App: "App", Bounds: rect(0, 0, 800, 600)},
	}}

	windows, err := NewLocator(broken, working).List()
	if err != nil {
		t.Fatalf("merge should tolerate one failing strategy: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
}

func TestLocator_AllStrategiesFailing(t *testing.T) {
	_, err := NewLocator(
		&fakeStrategy{name: "a", err: errors.New("boom")},
		&fakeStrategy{name: "b", err: errors.New("boom")},
	).List()
	if err == nil {
		t.Fatal("expected error when every strategy fails")
	}
}

func TestDetectBrowserPattern(t *testing.T) {
	cases := []struct {
		name    string
		windows []Window
		want    string
		ok      bool
	}{
		{
			name: "embedded engine wins over browser",
			windows: []Window{
				{Title: "page", App: "Firefox"},
				{Title: "project", App: "Cursor"},
			},
			want: "Cursor",
			ok:   true,
		},
		{
			name: "browser by owner name",
			windows: []Window{
				{Title: "Editor", App: "Code"},
				{Title: "page", App: "Firefox"},
			},
			want: "Firefox",
			ok:   true,
		},
		{
			name: "urlish title fallback",
			windows: []Window{
				{Title: "myapp – localhost:8080", App: "SomethingElse"},
			},
			want: `myapp – localhost:8080`,
			ok:   true,
		},
		{
			name:    "nothing recognizable",
			windows: []Window{{Title: "Editor", App: "Code"}},
			ok:      false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := DetectBrowserPattern(tc.windows)
			if ok != tc.ok {
				t.Fatalf("ok=%v, want %v", ok, tc.ok)
			}
			if tc.ok && got != tc.want {
				t.Fatalf("pattern=%q, want %q", got, tc.want)
			}
		})
	}
}
