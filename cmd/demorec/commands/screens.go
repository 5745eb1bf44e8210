package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bryanchriswhite/demorec/internal/display"
)

var screensFormat string

var screensCmd = &cobra.Command{
	Use:   "screens",
	Short: "List attached displays",
	Long: `List attached displays with their position in the global desktop,
logical resolution and backing scale factor.`,
	RunE: runScreens,
}

func init() {
	rootCmd.AddCommand(screensCmd)
	screensCmd.Flags().StringVarP(&screensFormat, "format", "f", "table", "output format (table or json)")
}

func runScreens(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	screens := display.NewProvider().Screens()

	if screensFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(screens)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tPOSITION\tSIZE\tSCALE")
	for _, s := range screens {
		fmt.Fprintf(tw, "%d\t%d,%d\t%dx%d\t%dx\n", s.Index, s.X, s.Y, s.Width, s.Height, s.Scale)
	}
	return tw.Flush()
}
