package cli

import (
	"log/slog"

	"github.com/lemmego/patterns/cmder"
	"github.com/lemmego/patterns/config"
	"github.com/lemmego/patterns/logger"
	"github.com/lemmego/patterns/observer"
	"github.com/lemmego/patterns/scenario"
	"github.com/spf13/cobra"
)

// app carries what the commands share.
type app struct {
	cfg      config.Configuration
	prompter cmder.Prompter
	logger   *slog.Logger

	logLevel  string
	logFormat string
	isolated  bool
}

func (a *app) subjectOptions() []observer.Option {
	opts := []observer.Option{observer.WithLogger(a.logger)}
	if a.isolated {
		opts = append(opts, observer.WithIsolatedDelivery())
	}
	return opts
}

func (a *app) runOptions() []scenario.RunOption {
	opts := []scenario.RunOption{scenario.WithLogger(a.logger)}
	if a.isolated {
		opts = append(opts, scenario.WithIsolatedDelivery())
	}
	return opts
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "patterns",
		Short:        a.cfg.String(config.AppName, "patterns") + ": observer and singleton patterns",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logger.New(cmd.ErrOrStderr(), a.logLevel, a.logFormat)
			if err != nil {
				return err
			}
			a.logger = l

			a.cfg.Set(config.LogLevel, a.logLevel)
			a.cfg.Set(config.LogFormat, a.logFormat)
			a.cfg.Set(config.ObserverIsolated, a.isolated)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", a.cfg.String(config.LogLevel, "info"), "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", a.cfg.String(config.LogFormat, "text"), "log format (text, json)")
	flags.BoolVar(&a.isolated, "isolated", a.cfg.Bool(config.ObserverIsolated, false), "keep notifying after an observer fails")

	observerCmd := &cobra.Command{
		Use:   "observer",
		Short: "Switch and lightbulb demonstrations of the observer pattern",
	}
	observerCmd.AddCommand(newRunCmd(a), newDemoCmd(a), newInteractiveCmd(a))

	root.AddCommand(observerCmd, newScenariosCmd(), newSingletonCmd(), newConfigCmd(a))
	return root
}

// Execute runs the command line tool.
func Execute() error {
	a := &app{
		cfg:      config.Load(),
		prompter: cmder.Console{},
	}
	return newRootCmd(a).Execute()
}
