package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/clive/internal/profile"
)

func newProfileCmd(app *App) *cobra.Command {
	var sessionID string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show a stored session's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := app.manager(ctx)
			if err != nil {
				return err
			}
			report, err := mgr.Profile(ctx, sessionID)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(app.Out, report)
			}
			printReport(app.Out, report)
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func printReport(w io.Writer, r profile.Report) {
	fmt.Fprintln(w, styleHeader.Render("Profile"))
	fmt.Fprintf(w, "  sessions:    %d\n", r.Sessions)
	fmt.Fprintf(w, "  iterations:  %d\n", r.Iterations)
	fmt.Fprintf(w, "  started:     %s\n", r.SessionStartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  run time:    %.0fs\n", r.SessionRunTime)
	fmt.Fprintf(w, "  first topic: %s\n", strings.Join(r.FirstTopic, ", "))
	fmt.Fprintf(w, "  last topic:  %s\n", strings.Join(r.LastTopic, ", "))
	fmt.Fprintf(w, "  sticky:      %s\n", strings.Join(r.StickyTopic, ", "))

	if len(r.Averages) > 0 {
		fmt.Fprintln(w, styleHeader.Render("Averages"))
		for _, name := range r.DimensionNames() {
			fmt.Fprintf(w, "  %-10s %7.3f\n", name, r.Averages[name])
		}
	}
	fmt.Fprintf(w, "%s\n", styleDim.Render(fmt.Sprintf("%d turns recorded", len(r.Turns))))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
