package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionsCmd(app *App) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List stored sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := app.openStore(ctx)
			if err != nil {
				return err
			}
			recs, err := st.ListSessions(ctx, limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(app.Out, recs)
			}
			if len(recs) == 0 {
				fmt.Fprintln(app.Out, styleDim.Render("no sessions stored"))
				return nil
			}
			fmt.Fprintln(app.Out, styleHeader.Render(fmt.Sprintf("%-36s  %-8s  %8s  %9s  %s", "ID", "COACH", "SESSIONS", "ITERATION", "UPDATED")))
			for _, r := range recs {
				fmt.Fprintf(app.Out, "%-36s  %-8s  %8d  %9d  %s\n",
					r.ID, r.Coach, r.State.Sessions, r.State.Iteration, r.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of sessions to show")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}
