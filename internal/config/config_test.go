package config

import (
	"path/filepath"
	"testing"
)

func TestIsContainer_EnvVar(t *testing.T) {
	t.Setenv("CONTAINER", "1")
	if !IsContainer() {
		t.Fatal("expected container mode with CONTAINER set")
	}
}

func TestLoad_ContainerDefaults(t *testing.T) {
	t.Setenv("CONTAINER", "1")
	t.Setenv("RECORDINGS_DIR", "")
	t.Setenv("DISPLAY", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RecordingsDir != containerRecordingsDir {
		t.Errorf("recordings dir = %q", cfg.RecordingsDir)
	}
	if cfg.Display != ":99" {
		t.Errorf("display = %q, want headless default :99", cfg.Display)
	}
	if cfg.FPS != defaultFPS {
		t.Errorf("fps = %d", cfg.FPS)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONTAINER", "1")
	t.Setenv("RECORDINGS_DIR", "/tmp/demos")
	t.Setenv("DISPLAY", ":42")
	t.Setenv("VIDEO_SERVER_HOST", "demos.example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RecordingsDir != "/tmp/demos" {
		t.Errorf("recordings dir = %q", cfg.RecordingsDir)
	}
	if cfg.Display != ":42" {
		t.Errorf("display = %q", cfg.Display)
	}
	if cfg.VideoServerHost != "demos.example.com" {
		t.Errorf("host = %q", cfg.VideoServerHost)
	}
}

func TestMediaURL(t *testing.T) {
	cfg := &Config{
		RecordingsDir:   "/app/recordings",
		VideoServerHost: "localhost",
		VideoServerPort: 8080,
		Container:       true,
	}

	url := cfg.MediaURL(filepath.Join("/app/recordings", "scene1.mp4"))
	if url != "http://localhost:8080/videos/scene1.mp4" {
		t.Errorf("url = %q", url)
	}

	// Public hosts go through the TLS-terminating proxy, no port.
	cfg.VideoServerHost = "demos.example.com"
	url = cfg.MediaURL("/app/recordings/nested/scene2.mp4")
	if url != "https://demos.example.com/videos/nested/scene2.mp4" {
		t.Errorf("url = %q", url)
	}

	// Outside the recordings dir there is nothing to serve.
	if got := cfg.MediaURL("/etc/passwd"); got != "" {
		t.Errorf("expected empty URL for outside path, got %q", got)
	}

	// Host mode has no media server at all.
	cfg.Container = false
	if got := cfg.MediaURL("/app/recordings/scene1.mp4"); got != "" {
		t.Errorf("expected empty URL on host, got %q", got)
	}
}
