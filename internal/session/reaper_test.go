package session

import (
	"errors"
	"testing"
)

func TestReaper_KillsOnlyOwnCaptures(t *testing.T) {
	r := NewReaper("/app/recordings")

	var killed []int
	r.list = func() ([]procEntry, error) {
		return []procEntry{
			{pid: 100, cmdline: "ffmpeg -f x11grab -i :99 /app/recordings/recording_1.mp4"},
			{pid: 200, cmdline: "ffmpeg -i /home/user/movie.mkv /home/user/out.mp4"},
			{pid: 300, cmdline: "ffmpeg -f avfoundation -i 1:none /app/recordings/recording_2.mp4"},
		}, nil
	}
	r.kill = func(pid int) error {
		killed = append(killed, pid)
		return nil
	}

	if n := r.Reap(); n != 2 {
		t.Fatalf("reaped %d, want 2", n)
	}
	if len(killed) != 2 || killed[0] != 100 || killed[1] != 300 {
		t.Errorf("killed %v, want only the pids writing into the recordings dir", killed)
	}
}

func TestReaper_ScanFailureIsNotFatal(t *testing.T) {
	r := NewReaper("/app/recordings")
	r.list = func() ([]procEntry, error) {
		return nil, errors.New("pgrep not installed")
	}
	r.kill = func(int) error {
		t.Fatal("kill must not be called when the scan fails")
		return nil
	}

	if n := r.Reap(); n != 0 {
		t.Fatalf("reaped %d, want 0", n)
	}
}

func TestReaper_ToleratesKillFailure(t *testing.T) {
	r := NewReaper("/recs")
	r.list = func() ([]procEntry, error) {
		return []procEntry{
			{pid: 1, cmdline: "ffmpeg /recs/a.mp4"},
			{pid: 2, cmdline: "ffmpeg /recs/b.mp4"},
		}, nil
	}
	r.kill = func(pid int) error {
		if pid == 1 {
			return errors.New("operation not permitted")
		}
		return nil
	}

	if n := r.Reap(); n != 1 {
		t.Fatalf("reaped %d, want 1 despite the kill failure", n)
	}
}

func TestReaper_NothingRunning(t *testing.T) {
	r := NewReaper("/recs")
	r.list = func() ([]procEntry, error) { return nil, nil }
	if n := r.Reap(); n != 0 {
		t.Fatalf("reaped %d, want 0", n)
	}
}
