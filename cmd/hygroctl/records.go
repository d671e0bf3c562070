package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/hygrotrack/internal/domain/activity"
	"github.com/rpggio/hygrotrack/internal/domain/record"
)

func newRecordsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Review inspection records",
	}
	cmd.AddCommand(newRecordsListCmd(opts), newRecordsShowCmd(opts))
	return cmd
}

func addFilterFlags(cmd *cobra.Command, filter *record.ListOptions) {
	cmd.Flags().StringVar(&filter.Factory, "factory", "", "filter by factory code")
	cmd.Flags().StringVar(&filter.Department, "department", "", "filter by department")
	cmd.Flags().StringVar((*string)(&filter.Type), "type", "", "filter by record type (Environment, Product)")
}

func newRecordsListCmd(opts *options) *cobra.Command {
	var filter record.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records newest first with their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			views, err := s.records.List(cmd.Context(), opts.tenantID, filter)
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), views)
		},
	}
	addFilterFlags(cmd, &filter)
	cmd.Flags().StringVar((*string)(&filter.Status), "status", "", "filter by status (Take Action, Resolved, No action needed)")
	cmd.Flags().IntVar(&filter.Limit, "limit", 50, "max number of records to display")
	return cmd
}

func newRecordsShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one record with its follow-ups and activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			view, err := s.records.View(cmd.Context(), opts.tenantID, args[0])
			if err != nil {
				return err
			}
			entries, err := s.activity.GetRecentActivity(cmd.Context(), opts.tenantID, activity.ListActivityOptions{RecordID: args[0]})
			if err != nil {
				return err
			}
			return printRecord(cmd.OutOrStdout(), *view, entries)
		},
	}
}

func newDashboardCmd(opts *options) *cobra.Command {
	var filter record.ListOptions

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Summarize record statuses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			d, err := s.records.Dashboard(cmd.Context(), opts.tenantID, filter)
			if err != nil {
				return err
			}
			return printDashboard(cmd.OutOrStdout(), *d)
		},
	}
	addFilterFlags(cmd, &filter)
	return cmd
}

func printRecords(out io.Writer, views []record.RecordView) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCREATED\tFACTORY\tDEPARTMENT\tTYPE\tSLOT\tSTATUS")
	for _, v := range views {
		r := v.Record
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Factory, r.Department, r.Type, r.TimeSlot, v.Status)
	}
	return w.Flush()
}

func printRecord(out io.Writer, v record.RecordView, entries []activity.ActivityEntry) error {
	r := v.Record
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "ID:\t%s\n", r.ID)
	_, _ = fmt.Fprintf(w, "Status:\t%s\n", v.Status)
	_, _ = fmt.Fprintf(w, "Where:\t%s / %s (%s)\n", r.Factory, r.Department, r.TimeSlot)
	_, _ = fmt.Fprintf(w, "Operator:\t%s\n", r.Operator)
	_, _ = fmt.Fprintf(w, "Created:\t%s\n", r.CreatedAt.Local().Format(time.DateTime))

	if r.Type == record.TypeProduct {
		_, _ = fmt.Fprintf(w, "Line:\t%s %s\n", r.Room, r.Line)
		if v.Semi != nil {
			_, _ = fmt.Fprintf(w, "Semi sets:\t%d (%s)\n", len(v.Semi.Sets), riskOrNone(string(v.Semi.Risk)))
		}
		if v.Product != nil {
			_, _ = fmt.Fprintf(w, "Product sets:\t%d (%s)\n", len(v.Product.Sets), riskOrNone(string(v.Product.Risk)))
		}
		_, _ = fmt.Fprintf(w, "Re-checks:\t%d\n", len(r.ProductHistory))
	} else {
		_, _ = fmt.Fprintf(w, "Reading:\t%s%% RH at %s°C\n", r.Humidity, r.Temperature)
		for i, round := range r.Checks4Pts {
			_, _ = fmt.Fprintf(w, "Spot check %d:\t%s at %s\n", i+1, round.Result, round.CheckedAt.Local().Format(time.DateTime))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(entries) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(out, "\nActivity:")
	for _, e := range entries {
		_, _ = fmt.Fprintf(out, "  %s  %s\n", e.CreatedAt.Local().Format(time.DateTime), e.Summary)
	}
	return nil
}

func riskOrNone(risk string) string {
	if risk == "" {
		return "empty"
	}
	return risk
}

func printDashboard(out io.Writer, d record.Dashboard) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total:\t%d\n", d.Total)
	_, _ = fmt.Fprintf(w, "Take Action:\t%d\n", d.TakeAction)
	_, _ = fmt.Fprintf(w, "Resolved:\t%d\n", d.Resolved)
	_, _ = fmt.Fprintf(w, "No action needed:\t%d\n", d.Safe)
	for _, g := range d.ByDate {
		_, _ = fmt.Fprintf(w, "  %s\t%d records\n", g.Date, len(g.Records))
	}
	return w.Flush()
}
