package commands

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bryanchriswhite/demorec/internal/display"
	"github.com/bryanchriswhite/demorec/internal/session"
	"github.com/bryanchriswhite/demorec/internal/window"
)

var (
	recordOutput   string
	recordScreen   int
	recordFPS      int
	recordDuration time.Duration
)

var recordCmd = &cobra.Command{
	Use:   "record [window-pattern]",
	Short: "Record a window or screen until interrupted",
	Long: `Record the window matching the given pattern (regex against window title
and owning app, case-insensitive). Without a pattern a browser window is
auto-detected, falling back to full-screen capture.

Recording runs until Ctrl-C or until --duration elapses.`,
	Example: `  # Record a Chrome window until Ctrl-C
  demorec record chrome

  # Record screen 2 for half a minute
  demorec record --screen 2 --duration 30s

  # Record into a named file
  demorec record chrome -o walkthrough`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().StringVarP(&recordOutput, "output", "o", "", "output filename (default: recording_<timestamp>.mp4)")
	recordCmd.Flags().IntVar(&recordScreen, "screen", 0, "1-based screen index for full-screen capture")
	recordCmd.Flags().IntVar(&recordFPS, "fps", 0, "capture framerate (default 30)")
	recordCmd.Flags().DurationVar(&recordDuration, "duration", 0, "stop automatically after this long (default: run until Ctrl-C)")
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}

	res, err := session.ResolveTarget(runtime.GOOS, cfg, window.NewLocator(), display.NewProvider().Screens(), session.TargetRequest{
		WindowPattern: pattern,
		Screen:        recordScreen,
	})
	if err != nil {
		return err
	}

	controller := session.NewController(cfg)
	outputPath, err := controller.Start(res.Target, recordOutput, recordFPS)
	if err != nil {
		return err
	}

	if res.Window != nil {
		fmt.Printf("Recording %q on screen %d -> %s\n", res.Window.Title, res.Screen, outputPath)
	} else {
		fmt.Printf("Recording screen %d -> %s\n", res.Screen, outputPath)
	}
	fmt.Println("Press Ctrl-C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var timer <-chan time.Time
	if recordDuration > 0 {
		timer = time.After(recordDuration)
	}
	select {
	case <-sigCh:
	case <-timer:
	}

	result, err := controller.Stop()
	if err != nil {
		return err
	}
	fmt.Printf("Saved %s (%.1fs, %.1f MB)\n", result.OutputPath, result.Duration, result.SizeMB)
	if result.MediaURL != "" {
		fmt.Printf("Available at %s\n", result.MediaURL)
	}
	return nil
}
