package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bryanchriswhite/demorec/internal/window"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:   "list [pattern]",
	Short: "List capturable windows",
	Long: `List visible windows with their title, owning application, PID and
bounds, as reported by the platform enumeration strategies. An optional
regex filters by title or app.`,
	Example: `  # List all windows in table format (default)
  demorec list

  # Only browser-looking windows
  demorec list chrome

  # JSON output
  demorec list --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "output format (table or json)")
}

func runList(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	loc := window.NewLocator()
	var windows []window.Window
	var err error
	if len(args) > 0 {
		w, ferr := loc.Find(args[0])
		if ferr != nil {
			return ferr
		}
		windows = []window.Window{*w}
	} else {
		windows, err = loc.List()
		if err != nil {
			return err
		}
	}

	if listFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(windows)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "APP\tTITLE\tPID\tBOUNDS")
	for _, w := range windows {
		bounds := "-"
		if w.Bounds != nil {
			bounds = fmt.Sprintf("%d,%d %dx%d", w.Bounds.X, w.Bounds.Y, w.Bounds.Width, w.Bounds.Height)
		}
		pid := "-"
		if w.PID > 0 {
			pid = fmt.Sprintf("%d", w.PID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", w.App, w.Title, pid, bounds)
	}
	return tw.Flush()
}
