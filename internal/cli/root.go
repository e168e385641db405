package cli

import (
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/clive/internal/config"
	"github.com/danielpatrickdp/clive/internal/logging"
)

// NewRootCmd builds the clive command tree.
func NewRootCmd(app *App) *cobra.Command {
	var configPath, logLevel string

	root := &cobra.Command{
		Use:           "clive",
		Short:         "A Clean Language coach",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			app.Config = cfg
			if app.Logger == nil {
				logger, err := logging.New(cfg.LogLevel)
				if err != nil {
					return err
				}
				app.Logger = logger
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
			return app.Close()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "clive.yaml", "YAML config file (optional)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(
		newChatCmd(app),
		newServeCmd(app),
		newProfileCmd(app),
		newSessionsCmd(app),
		newLexiconServeCmd(app),
	)
	return root
}
