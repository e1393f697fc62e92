package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/Geun-Oh/uxlog/internal/mission"
	"github.com/spf13/cobra"
)

var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "List the configured missions and their markers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := cfg.Registry()
		if err != nil {
			return err
		}
		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			return reg.WriteYAML(cmd.OutOrStdout())
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tSHAPE\tSCREEN\tMARKERS")
		for _, d := range reg.All() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Shape(), d.ScreenPrefix, markers(d))
		}
		return tw.Flush()
	},
}

func init() {
	missionsCmd.Flags().Bool("yaml", false, "print the missions as a config file block")
}

func markers(d mission.Descriptor) string {
	pair := func(s mission.Stage) string { return s.Start + " → " + s.Complete }
	switch d.Shape() {
	case mission.ShapeAB:
		return "A " + pair(*d.VariantA) + ", B " + pair(*d.VariantB)
	case mission.ShapeTwoStage:
		return pair(d.Basic()) + ", + " + pair(*d.Additional)
	default:
		return pair(d.Basic())
	}
}
