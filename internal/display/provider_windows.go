//go:build windows

package display

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// screenQueryPS prints one "x,y,w,h" line per attached screen.
const screenQueryPS = `Add-Type -AssemblyName System.Windows.Forms; ` +
	`[System.Windows.Forms.Screen]::AllScreens | ForEach-Object { ` +
	`"$($_.Bounds.X),$($_.Bounds.Y),$($_.Bounds.Width),$($_.Bounds.Height)" }`

type windowsProvider struct{}

func newPlatformProvider() Provider {
	return &windowsProvider{}
}

func (p *windowsProvider) Screens() []Screen {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", screenQueryPS).Output()
	if err != nil {
		warnFallback("windows", fmt.Errorf("powershell screen query: %w", err))
		return fallbackScreens(1)
	}
	screens := parseScreenList(string(out), 1)
	if len(screens) == 0 {
		warnFallback("windows", fmt.Errorf("no screens in powershell output"))
		return fallbackScreens(1)
	}
	return screens
}
