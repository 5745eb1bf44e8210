//go:build windows

package window

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const toolTimeout = 10 * time.Second

func defaultStrategies() []Strategy {
	return []Strategy{&powershellStrategy{}}
}

// windowQueryPS prints "pid||process||title" for every process with a main
// window. gdigrab captures by title, so bounds are not needed here.
const windowQueryPS = `Get-Process | Where-Object { $_.MainWindowTitle -ne "" } | ` +
	`ForEach-Object { "$($_.Id)||$($_.ProcessName)||$($_.MainWindowTitle)" }`

type powershellStrategy struct{}

func (s *powershellStrategy) Name() string { return "powershell" }

func (s *powershellStrategy) List() ([]Window, error) {
	ctx, cancel := context.WithTimeout(context.Background(), toolTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", windowQueryPS).Output()
	if err != nil {
		return nil, fmt.Errorf("powershell window query: %w", err)
	}

	return parseDelimitedWindows(string(out), func(line string) (Window, bool) {
		parts := strings.Split(line, "||")
		if len(parts) < 3 || strings.TrimSpace(parts[2]) == "" {
			return Window{}, false
		}
		pid, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
		return Window{
			Title:  strings.TrimSpace(parts[2]),
			App:    strings.TrimSpace(parts[1]),
			PID:    pid,
			Handle: strings.TrimSpace(parts[0]),
		}, true
	}), nil
}

func focusWindow(w *Window) error {
	ctx, cancel := context.WithTimeout(context.Background(), toolTimeout)
	defer cancel()

	script := fmt.Sprintf(`(New-Object -ComObject WScript.Shell).AppActivate(%d)`, w.PID)
	return exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", script).Run()
}
