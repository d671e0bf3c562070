package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rpggio/hygrotrack/internal/domain/compliance"
)

func newStandardsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "standards",
		Short: "List fabric standards and their humidity limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "LIMIT\tFABRIC")
			for _, std := range reg.Standards() {
				_, _ = fmt.Fprintf(w, "%g\t%s\n", std.Limit, std.Label)
			}
			return w.Flush()
		},
	}
}

func newClassifyCmd(opts *options) *cobra.Command {
	var fabric, humidity string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify one humidity reading against its fabric standard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			c, ok := compliance.Classify(reg, fabric, humidity)
			if !ok {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "unclassified: no standard for %q or reading %q is not a number\n", fabric, humidity)
				return nil
			}
			std, _ := reg.Lookup(fabric)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (limit %g%%)\n", c, std.Limit)
			return nil
		},
	}
	cmd.Flags().StringVar(&fabric, "fabric", "", "fabric standard label")
	cmd.Flags().StringVar(&humidity, "humidity", "", "measured humidity percentage")
	_ = cmd.MarkFlagRequired("fabric")
	_ = cmd.MarkFlagRequired("humidity")
	return cmd
}
