// Package session owns the lifecycle of the single capture subprocess:
// spawn, liveness checks, the escalating shutdown ladder, and cleanup of
// orphans from previous runs.
package session

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/bryanchriswhite/demorec/internal/capture"
	"github.com/bryanchriswhite/demorec/internal/config"
	"github.com/bryanchriswhite/demorec/internal/logger"
)

// State names the controller's lifecycle phase.
type State string

const (
	StateIdle      State = "idle"
	StateStarting  State = "starting"
	StateRecording State = "recording"
	StateStopping  State = "stopping"
	StateFailed    State = "failed"
)

// Shutdown ladder timings. Each rung gets a bounded wait before escalating;
// the early rungs let ffmpeg finalize the container, the late ones just make
// sure the process is gone.
const (
	gracefulQuitWait  = 3 * time.Second
	interruptWait     = 2 * time.Second
	terminateWait     = 2 * time.Second
	killWait          = 500 * time.Millisecond
	spawnGracePeriod  = 500 * time.Millisecond
	healthProbeWindow = 2 * time.Second
)

// Status is a point-in-time snapshot of the controller.
type Status struct {
	State      State   `json:"state"`
	OutputPath string  `json:"output_path,omitempty"`
	Duration   float64 `json:"duration_seconds,omitempty"`
	SizeMB     float64 `json:"size_mb,omitempty"`
	Healthy    bool    `json:"healthy"`
	Detail     string  `json:"detail,omitempty"`
}

// Result summarizes a finished recording.
type Result struct {
	OutputPath string  `json:"output_path"`
	MediaURL   string  `json:"media_url,omitempty"`
	Duration   float64 `json:"duration_seconds"`
	SizeMB     float64 `json:"size_mb"`
}

// Controller runs at most one capture subprocess at a time. All methods are
// safe for concurrent use; the single-session invariant is enforced under
// the mutex, never by the caller.
type Controller struct {
	cfg *config.Config
	log zerolog.Logger

	// Seams for tests: the binary to spawn and the arg builder.
	ffmpegPath string
	buildSpec  func(t capture.Target, fps int, outputPath string) (capture.Spec, error)

	reaper *Reaper

	mu         sync.Mutex
	state      State
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	done       chan struct{}
	waitErr    error
	outputPath string
	logPath    string
	logFile    *os.File
	startedAt  time.Time
	lastSize   int64
}

// NewController builds an idle controller. The ffmpeg binary is resolved
// lazily on the first start so a missing install surfaces as a start error,
// not a construction error.
func NewController(cfg *config.Config) *Controller {
	return &Controller{
		cfg:    cfg,
		log:    *logger.WithComponent("session"),
		state:  StateIdle,
		reaper: NewReaper(cfg.RecordingsDir),
		buildSpec: func(t capture.Target, fps int, outputPath string) (capture.Spec, error) {
			return capture.Build(runtime.GOOS, t, fps, outputPath)
		},
	}
}

// OutputName returns a timestamped recording filename.
func OutputName(now time.Time) string {
	return "recording_" + now.Format("20060102_150405") + ".mp4"
}

// Start spawns the capture process for the given target. The output path is
// derived from the recordings directory unless name is given; fps <= 0 uses
// the configured framerate. Start returns once the process has survived a
// short grace period; an immediate death is reported as a start failure with
// the tail of the capture log attached.
func (c *Controller) Start(target capture.Target, name string, fps int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateRecording, StateStarting, StateStopping:
		return "", fmt.Errorf("%w (output: %s)", ErrAlreadyRecording, c.outputPath)
	}

	// Leftover capture processes from a crashed run would fight over the
	// recordings directory; sweep them before every start. Safe here: the
	// state check above guarantees no session of ours is live.
	if c.reaper != nil {
		if n := c.reaper.Reap(); n > 0 {
			c.log.Warn().Int("count", n).Msg("reaped orphaned capture processes")
		}
	}

	if err := c.cfg.EnsureRecordingsDir(); err != nil {
		return "", fmt.Errorf("creating recordings dir: %w", err)
	}

	if name == "" {
		name = OutputName(time.Now())
	} else if !strings.HasSuffix(name, ".mp4") {
		name += ".mp4"
	}
	outputPath := filepath.Join(c.cfg.RecordingsDir, name)
	logPath := outputPath + ".ffmpeg.log"

	if fps <= 0 {
		fps = c.cfg.FPS
	}
	spec, err := c.buildSpec(target, fps, outputPath)
	if err != nil {
		return "", err
	}

	bin := c.ffmpegPath
	if bin == "" {
		bin, err = config.FindFFmpeg()
		if err != nil {
			return "", err
		}
		c.ffmpegPath = bin
	}

	// Capture output goes to a log file, not a pipe. Nobody drains pipes
	// here, and a full pipe buffer would stall ffmpeg mid-recording.
	logFile, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("creating capture log: %w", err)
	}

	cmd := exec.Command(bin, spec.Args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	stdin, err := cmd.StdinPipe()
	if err != nil {
		logFile.Close()
		return "", fmt.Errorf("%w: %v", ErrSpawnFailed, err)
	}

	c.state = StateStarting
	c.log.Info().
		Str("output", outputPath).
		Str("binary", bin).
		Strs("args", spec.Args).
		Msg("starting capture")

	if err := cmd.Start(); err != nil {
		c.state = StateIdle
		logFile.Close()
		os.Remove(logPath)
		return "", fmt.Errorf("%w: %v", ErrSpawnFailed, err)
	}

	done := make(chan struct{})
	go func() {
		err := cmd.Wait()
		c.mu.Lock()
		c.waitErr = err
		c.mu.Unlock()
		close(done)
	}()

	c.cmd = cmd
	c.stdin = stdin
	c.done = done
	c.outputPath = outputPath
	c.logPath = logPath
	c.logFile = logFile
	c.startedAt = time.Now()
	c.lastSize = 0

	// Grace period: ffmpeg dies within milliseconds on bad devices or
	// missing permissions, so a short wait catches almost all setup errors
	// synchronously. The mutex is released while waiting, so a concurrent
	// Stop may tear the session down in the meantime; after re-locking the
	// state must still be Starting before the transition to Recording.
	c.mu.Unlock()
	select {
	case <-done:
		c.mu.Lock()
		if c.state != StateStarting {
			return "", ErrStartInterrupted
		}
		c.state = StateFailed
		detail := c.captureLogTail()
		c.reset()
		c.state = StateIdle
		return "", startupFailure(detail)
	case <-time.After(spawnGracePeriod):
		c.mu.Lock()
		if c.state != StateStarting {
			return "", ErrStartInterrupted
		}
	}

	c.state = StateRecording
	c.log.Info().Str("output", outputPath).Int("pid", cmd.Process.Pid).Msg("recording")
	return outputPath, nil
}

// startupFailure classifies the capture log tail into an actionable error.
func startupFailure(logTail string) error {
	lower := strings.ToLower(logTail)
	if strings.Contains(lower, "operation not permitted") || strings.Contains(lower, "not allowed") ||
		strings.Contains(lower, "cannot open display") && strings.Contains(lower, "permission") {
		return fmt.Errorf("%w: screen recording permission denied; grant it in "+
			"System Settings > Privacy & Security > Screen Recording, then retry\n%s",
			ErrSpawnFailed, logTail)
	}
	return fmt.Errorf("%w: process exited during startup\n%s", ErrSpawnFailed, logTail)
}

// Stop walks the shutdown ladder until the process exits, then finalizes the
// output file. Safe to call when the process already died; the controller
// still cleans up and reports what is on disk.
func (c *Controller) Stop() (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRecording && c.state != StateStarting {
		return nil, ErrNotRecording
	}
	c.state = StateStopping
	c.log.Info().Str("output", c.outputPath).Msg("stopping capture")

	if !c.exited() {
		c.shutdownLadder()
	}

	res := &Result{
		OutputPath: c.outputPath,
		Duration:   time.Since(c.startedAt).Seconds(),
	}

	if info, err := os.Stat(c.outputPath); err == nil && info.Size() > 0 {
		res.SizeMB = float64(info.Size()) / (1024 * 1024)
		res.MediaURL = c.cfg.MediaURL(c.outputPath)
		// Successful recordings don't need the capture log around.
		os.Remove(c.logPath)
	} else {
		c.log.Warn().Str("output", c.outputPath).Str("log", c.logPath).
			Msg("output file empty or missing, keeping capture log for diagnosis")
	}

	c.reset()
	c.state = StateIdle
	c.log.Info().
		Str("output", res.OutputPath).
		Float64("duration_s", res.Duration).
		Float64("size_mb", res.SizeMB).
		Msg("recording finished")
	return res, nil
}

// shutdownLadder escalates from polite to forceful. Called with the mutex
// held; the bounded waits drop it so the Wait goroutine can record the exit.
func (c *Controller) shutdownLadder() {
	// Rung 1: ffmpeg's own 'q' command triggers a clean container finalize.
	if c.stdin != nil {
		if _, err := io.WriteString(c.stdin, "q"); err == nil {
			c.stdin.Close()
			if c.waitRung(gracefulQuitWait) {
				return
			}
		} else {
			c.stdin.Close()
		}
	}

	// Rung 2: SIGINT, ffmpeg's documented stop signal.
	c.log.Warn().Msg("graceful quit timed out, sending SIGINT")
	c.cmd.Process.Signal(os.Interrupt)
	if c.waitRung(interruptWait) {
		return
	}

	// Rung 3: SIGTERM.
	c.log.Warn().Msg("SIGINT timed out, sending SIGTERM")
	c.cmd.Process.Signal(syscall.SIGTERM)
	if c.waitRung(terminateWait) {
		return
	}

	// Rung 4: SIGKILL. The fragmented MP4 layout keeps what was written
	// playable even here.
	c.log.Error().Msg("SIGTERM timed out, killing capture process")
	c.cmd.Process.Kill()
	c.waitRung(killWait)
}

// waitRung drops the mutex while waiting for exit, up to the timeout.
func (c *Controller) waitRung(timeout time.Duration) bool {
	done := c.done
	c.mu.Unlock()
	defer c.mu.Lock()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Status reports the current state. While recording it includes a growth
// heuristic: a file that stopped growing between two probes is flagged
// unhealthy, which catches wedged encoders long before anyone watches the
// result.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{State: c.state}
	if c.state != StateRecording && c.state != StateStarting {
		return st
	}

	st.OutputPath = c.outputPath
	st.Duration = time.Since(c.startedAt).Seconds()

	if c.exited() {
		st.State = StateFailed
		st.Detail = "capture process exited unexpectedly"
		if c.waitErr != nil {
			st.Detail += " (" + c.waitErr.Error() + ")"
		}
		if tail := c.captureLogTail(); tail != "" {
			st.Detail += ": " + tail
		}
		return st
	}

	info, err := os.Stat(c.outputPath)
	if err != nil {
		// The container header can take a moment to hit disk.
		st.Healthy = time.Since(c.startedAt) < healthProbeWindow
		if !st.Healthy {
			st.Detail = "output file has not appeared"
		}
		return st
	}
	st.SizeMB = float64(info.Size()) / (1024 * 1024)

	switch {
	case info.Size() == 0 && time.Since(c.startedAt) >= healthProbeWindow:
		st.Detail = "output file is still empty"
	case c.lastSize > 0 && info.Size() <= c.lastSize:
		st.Detail = "output file has stopped growing"
	default:
		st.Healthy = true
	}
	c.lastSize = info.Size()
	return st
}

// Recording reports whether a session is active.
func (c *Controller) Recording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateRecording || c.state == StateStarting
}

// exited reports whether the Wait goroutine observed process exit.
// Caller holds the mutex.
func (c *Controller) exited() bool {
	if c.done == nil {
		return true
	}
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// captureLogTail returns the last chunk of the capture log for diagnostics.
// Caller holds the mutex.
func (c *Controller) captureLogTail() string {
	if c.logPath == "" {
		return ""
	}
	data, err := os.ReadFile(c.logPath)
	if err != nil {
		return ""
	}
	const tail = 2048
	if len(data) > tail {
		data = data[len(data)-tail:]
	}
	return strings.TrimSpace(string(data))
}

// reset clears per-session fields. Caller holds the mutex.
func (c *Controller) reset() {
	if c.logFile != nil {
		c.logFile.Close()
	}
	c.cmd = nil
	c.stdin = nil
	c.done = nil
	c.waitErr = nil
	c.outputPath = ""
	c.logPath = ""
	c.logFile = nil
	c.lastSize = 0
}
