// Package config holds runtime configuration and environment detection.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Environment variables honored regardless of config file:
//
//	RECORDINGS_DIR     output directory on the host (default ~/recordings)
//	DISPLAY            X11 display to capture (default :0 host, :99 container)
//	CONTAINER          any non-empty value forces container mode
//	VIDEO_SERVER_HOST  public host for media URLs (default localhost)
//	VIDEO_SERVER_PORT  port of the recordings HTTP server (default 8080)
const (
	containerRecordingsDir = "/app/recordings"

	defaultFPS  = 30
	defaultPort = 8080
)

// Config is the resolved runtime configuration.
type Config struct {
	RecordingsDir   string
	FFmpegPath      string
	Display         string
	FPS             int
	VideoServerHost string
	VideoServerPort int
	LogLevel        string
	Container       bool
}

// Load resolves configuration from the environment and optional config file.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "demorec"))
	}

	v.SetDefault("fps", defaultFPS)
	v.SetDefault("video_server_host", "localhost")
	v.SetDefault("video_server_port", defaultPort)
	v.SetDefault("log_level", "info")

	v.BindEnv("recordings_dir", "RECORDINGS_DIR")
	v.BindEnv("video_server_host", "VIDEO_SERVER_HOST")
	v.BindEnv("video_server_port", "VIDEO_SERVER_PORT")
	v.BindEnv("display", "DISPLAY")
	v.SetEnvPrefix("DEMOREC")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// The config file is optional; anything else is a real problem.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	container := IsContainer()

	cfg := &Config{
		RecordingsDir:   v.GetString("recordings_dir"),
		Display:         v.GetString("display"),
		FPS:             v.GetInt("fps"),
		VideoServerHost: v.GetString("video_server_host"),
		VideoServerPort: v.GetInt("video_server_port"),
		LogLevel:        v.GetString("log_level"),
		Container:       container,
	}

	if cfg.RecordingsDir == "" {
		if container {
			cfg.RecordingsDir = containerRecordingsDir
		} else if home, err := os.UserHomeDir(); err == nil {
			cfg.RecordingsDir = filepath.Join(home, "recordings")
		} else {
			cfg.RecordingsDir = "recordings"
		}
	}
	if cfg.Display == "" {
		if container {
			cfg.Display = ":99"
		} else {
			cfg.Display = ":0"
		}
	}

	return cfg, nil
}

// EnsureRecordingsDir creates the recordings directory if needed.
func (c *Config) EnsureRecordingsDir() error {
	return os.MkdirAll(c.RecordingsDir, 0o755)
}

// MediaURL maps an output path under the recordings directory onto the
// recordings HTTP server. Only meaningful in container mode; returns ""
// when the server is not expected to exist or the path is outside the
// recordings directory.
func (c *Config) MediaURL(path string) string {
	if !c.Container {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	dir, err := filepath.Abs(c.RecordingsDir)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(dir, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	rel = filepath.ToSlash(rel)

	if c.VideoServerHost == "localhost" || c.VideoServerHost == "127.0.0.1" {
		return fmt.Sprintf("http://%s:%d/videos/%s", c.VideoServerHost, c.VideoServerPort, rel)
	}
	// Public domains sit behind a reverse proxy that terminates TLS.
	return fmt.Sprintf("https://%s/videos/%s", c.VideoServerHost, rel)
}

// IsContainer reports whether the process runs inside a container
// (Docker or Podman). Container mode selects headless capture defaults.
func IsContainer() bool {
	if os.Getenv("CONTAINER") != "" || os.Getenv("container") != "" {
		return true
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	if _, err := os.Stat("/run/.containerenv"); err == nil {
		return true
	}
	if data, err := os.ReadFile("/proc/1/cgroup"); err == nil {
		content := string(data)
		for _, marker := range []string{"docker", "containerd", "libpod"} {
			if strings.Contains(content, marker) {
				return true
			}
		}
	}
	return false
}

// ffmpegCandidates lists well-known install locations checked before PATH.
var ffmpegCandidates = []string{
	"/opt/homebrew/bin/ffmpeg",
	"/usr/local/bin/ffmpeg",
	"/usr/bin/ffmpeg",
}

// FindFFmpeg locates the ffmpeg binary.
func FindFFmpeg() (string, error) {
	for _, p := range ffmpegCandidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	if p, err := exec.LookPath("ffmpeg"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("ffmpeg not found; install it first:\n" +
		"  macOS: brew install ffmpeg\n" +
		"  Ubuntu/Debian: sudo apt install ffmpeg\n" +
		"  Windows: choco install ffmpeg")
}
