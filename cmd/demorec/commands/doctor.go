package commands

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/bryanchriswhite/demorec/internal/config"
	"github.com/bryanchriswhite/demorec/internal/display"
	"github.com/bryanchriswhite/demorec/internal/window"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check recording prerequisites",
	Long: `Check that everything a recording needs is in place: the ffmpeg binary,
the platform window tools, display detection and the recordings directory.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	failures := 0
	check := func(name string, err error, hint string) {
		if err != nil {
			failures++
			fmt.Printf("  ✗ %s: %v\n", name, err)
			if hint != "" {
				fmt.Printf("      %s\n", hint)
			}
			return
		}
		fmt.Printf("  ✓ %s\n", name)
	}

	fmt.Println("demorec doctor")
	fmt.Println("==============")

	ffmpegPath, err := config.FindFFmpeg()
	check("ffmpeg", err, "")
	if err == nil {
		fmt.Printf("      %s\n", ffmpegPath)
	}

	if runtime.GOOS == "linux" {
		_, err := exec.LookPath("wmctrl")
		check("wmctrl", err, "install with: sudo apt install wmctrl (optional, improves window discovery)")
		_, err = exec.LookPath("xdotool")
		check("xdotool", err, "install with: sudo apt install xdotool (optional, used for window focusing)")
	}

	screens := display.NewProvider().Screens()
	fmt.Printf("  ✓ displays: %d detected\n", len(screens))
	for _, s := range screens {
		fmt.Printf("      screen %d: %dx%d at %d,%d (scale %dx)\n", s.Index, s.Width, s.Height, s.X, s.Y, s.Scale)
	}

	windows, err := window.NewLocator().List()
	check(fmt.Sprintf("window enumeration (%d windows)", len(windows)), err, "")

	check("recordings directory", cfg.EnsureRecordingsDir(), "")
	fmt.Printf("      %s\n", cfg.RecordingsDir)

	if cfg.Container {
		fmt.Println("  ✓ container mode (headless capture defaults)")
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	fmt.Println("\nAll checks passed.")
	return nil
}
