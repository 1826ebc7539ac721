package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings, flags applied, as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := yaml.Marshal(a.cfg.GetAll())
			if err != nil {
				return errors.Wrap(err, "encode settings")
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}
