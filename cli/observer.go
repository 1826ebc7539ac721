package cli

import (
	"fmt"

	"github.com/gertd/go-pluralize"
	"github.com/lemmego/patterns/observer"
	"github.com/lemmego/patterns/scenario"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var builtin string

	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Replay a scenario script and check its expectations",
		Long: "Replay a scenario script (.yaml, .toml or .json) against a switch and its bulbs.\n" +
			"Without a script argument the built-in scenario named by --builtin is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s *scenario.Script
			var err error
			if len(args) == 1 {
				s, err = scenario.Load(args[0])
			} else {
				s, err = scenario.LoadBuiltin(builtin)
			}
			if err != nil {
				return err
			}

			report, runErr := scenario.Run(cmd.Context(), s, a.runOptions()...)
			if report != nil {
				renderReport(cmd.OutOrStdout(), report)
			}
			if runErr != nil {
				return runErr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scenario %q passed\n", report.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&builtin, "builtin", "switch", "built-in scenario to run when no script is given")
	return cmd
}

func newDemoCmd(a *app) *cobra.Command {
	var bulbs, toggles int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Toggle a switch wired to a row of lightbulbs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if bulbs < 0 || toggles < 0 {
				return fmt.Errorf("--bulbs and --toggles must not be negative")
			}

			sw := observer.NewSwitch(a.subjectOptions()...)
			row := make([]*observer.Lightbulb, bulbs)
			for i := range row {
				row[i] = observer.NewLightbulb(fmt.Sprintf("bulb-%d", i+1))
				sw.Attach(row[i])
			}
			for i := 0; i < toggles; i++ {
				if err := sw.Toggle(); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			renderSwitch(out, sw)
			p := pluralize.NewClient()
			for _, b := range row {
				fmt.Fprintf(out, "  %s: %s, %s\n", b.Name(), onOff(b.IsOn()), p.Pluralize("update", b.UpdateCount(), true))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&bulbs, "bulbs", 2, "number of bulbs attached to the switch")
	cmd.Flags().IntVar(&toggles, "toggles", 3, "number of times the switch is toggled")
	return cmd
}

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Attach, detach and toggle lightbulbs from a prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSession(a.prompter, cmd.OutOrStdout(), observer.NewSwitch(a.subjectOptions()...))
			return s.run(cmd.Context())
		},
	}
}

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the built-in scenarios",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range scenario.Builtins() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
