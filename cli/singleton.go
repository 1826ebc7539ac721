package cli

import (
	"fmt"

	"github.com/lemmego/patterns/singleton"
	"github.com/spf13/cobra"
)

func newSingletonCmd() *cobra.Command {
	var refs int

	cmd := &cobra.Command{
		Use:   "singleton",
		Short: "Take several references to each singleton and tick through all of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			if refs < 1 {
				return fmt.Errorf("--refs must be at least 1")
			}

			styles := []struct {
				name string
				get  func() singleton.TickCounter
			}{
				{"once", func() singleton.TickCounter { return singleton.Counter() }},
				{"lazy", singleton.Ticker},
			}

			out := cmd.OutOrStdout()
			for _, style := range styles {
				held := make([]singleton.TickCounter, refs)
				same := true
				for i := range held {
					held[i] = style.get()
					if held[i] != held[0] {
						same = false
					}
					held[i].Tick()
				}
				fmt.Fprintf(out, "%s: %d references, same instance: %t, ticks: %d\n",
					style.name, refs, same, held[0].Ticks())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&refs, "refs", 3, "number of references to take")
	return cmd
}
