package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/clive/internal/coach"
	"github.com/danielpatrickdp/clive/internal/conversation"
)

const notUnderstood = "I'm sorry, I didn't understand that. Try again."

func newChatCmd(app *App) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the coach on the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := app.manager(ctx)
			if err != nil {
				return err
			}
			return runChat(ctx, app, mgr, sessionID)
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "resume a stored session by id")
	return cmd
}

// runChat reads one utterance per line until a farewell or EOF.
func runChat(ctx context.Context, app *App, mgr *conversation.Manager, sessionID string) error {
	out := app.Out
	interactive := app.IsInteractive != nil && app.IsInteractive()

	var opening coach.Response
	if sessionID == "" {
		id, greeting, err := mgr.Create(ctx)
		if err != nil {
			return err
		}
		sessionID, opening = id, greeting
	} else {
		resp, err := mgr.Turn(ctx, sessionID, "")
		if err != nil {
			return fmt.Errorf("resume %s: %w", sessionID, err)
		}
		opening = resp
	}
	if interactive {
		fmt.Fprintln(out, styleDim.Render("session "+sessionID))
	}
	printReply(out, opening.Reply)

	scanner := bufio.NewScanner(app.In)
	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		resp, err := mgr.Turn(ctx, sessionID, scanner.Text())
		switch {
		case errors.Is(err, coach.ErrNoResponse):
			printReply(out, notUnderstood)
			continue
		case err != nil:
			return err
		}

		if resp.Danger {
			fmt.Fprintln(out, crisisBanner())
		}
		printReply(out, resp.Reply)
		if resp.Final {
			return nil
		}
	}
}

func printReply(w io.Writer, text string) {
	fmt.Fprintf(w, "\n%s\n\n", styleCoach.Render(text))
}
