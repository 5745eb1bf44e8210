package session

import "errors"

var (
	// ErrAlreadyRecording rejects a second concurrent session. Callers must
	// stop the active recording before starting another.
	ErrAlreadyRecording = errors.New("a recording is already in progress")

	// ErrNotRecording means stop or status was asked of an idle controller.
	ErrNotRecording = errors.New("no recording in progress")

	// ErrSpawnFailed wraps any failure to launch or keep alive the capture
	// process during the startup grace period.
	ErrSpawnFailed = errors.New("failed to start capture process")

	// ErrStartInterrupted means Stop tore the session down while Start was
	// still waiting out the spawn grace period.
	ErrStartInterrupted = errors.New("recording was stopped during startup")
)
