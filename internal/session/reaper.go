package session

import (
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bryanchriswhite/demorec/internal/logger"
)

// procEntry is one candidate process from the scan.
type procEntry struct {
	pid     int
	cmdline string
}

// Reaper finds and kills capture processes left behind by a previous run,
// e.g. after the server crashed mid-recording. It only ever touches ffmpeg
// processes whose command line references our recordings directory; other
// captures on the machine are none of our business.
type Reaper struct {
	recordingsDir string
	log           zerolog.Logger

	// Seams for tests.
	list func() ([]procEntry, error)
	kill func(pid int) error
}

// NewReaper scopes orphan cleanup to the given recordings directory.
func NewReaper(recordingsDir string) *Reaper {
	return &Reaper{
		recordingsDir: recordingsDir,
		log:           *logger.WithComponent("reaper"),
		list:          listFFmpeg,
		kill: func(pid int) error {
			p, err := os.FindProcess(pid)
			if err != nil {
				return err
			}
			return p.Kill()
		},
	}
}

// Reap kills orphaned capture processes and returns how many were killed.
// A scan failure is not an error: on a box without pgrep, or with no ffmpeg
// running at all, there is simply nothing to reap.
func (r *Reaper) Reap() int {
	entries, err := r.list()
	if err != nil {
		r.log.Debug().Err(err).Msg("orphan scan unavailable")
		return 0
	}

	killed := 0
	for _, e := range entries {
		if !strings.Contains(e.cmdline, r.recordingsDir) {
			continue
		}
		r.log.Warn().Int("pid", e.pid).Str("cmdline", e.cmdline).
			Msg("killing orphaned capture process")
		if err := r.kill(e.pid); err != nil {
			r.log.Warn().Err(err).Int("pid", e.pid).Msg("failed to kill orphan")
			continue
		}
		killed++
	}
	return killed
}

// listFFmpeg scans for running ffmpeg processes via pgrep, then resolves
// each candidate's full command line through ps.
func listFFmpeg() ([]procEntry, error) {
	out, err := exec.Command("pgrep", "-f", "ffmpeg").Output()
	if err != nil {
		// pgrep exits 1 when nothing matches.
		if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 1 {
			return nil, nil
		}
		return nil, err
	}

	var entries []procEntry
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		pid, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			continue
		}
		args, err := exec.Command("ps", "-p", strconv.Itoa(pid), "-o", "args=").Output()
		if err != nil {
			// Process vanished between scan and inspection.
			continue
		}
		entries = append(entries, procEntry{pid: pid, cmdline: strings.TrimSpace(string(args))})
	}
	return entries, nil
}
