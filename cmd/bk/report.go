package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/bookmarky/internal/db"
	"github.com/zulandar/bookmarky/internal/report"
	"gorm.io/gorm"
)

func newReportCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "report <1|2|3>",
		Short: "Print a milestone report",
		Long: `Prints one of the milestone reports:

  1  hours worked per bug
  2  hours worked per user
  3  open bug counts by status`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"1", "2", "3"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, configPath, args[0])
		},
	}

	configFlag(cmd, &configPath)
	return cmd
}

func runReport(cmd *cobra.Command, configPath, rid string) error {
	printer, ok := reportPrinters[rid]
	if !ok {
		return fmt.Errorf("unknown report %q: want 1, 2 or 3", rid)
	}

	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gormDB)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	if err := printer(context.Background(), gormDB, w); err != nil {
		return err
	}
	return w.Flush()
}

var reportPrinters = map[string]func(context.Context, *gorm.DB, io.Writer) error{
	"1": printHoursByBug,
	"2": printHoursByUser,
	"3": printStatusByMilestone,
}

func printHoursByBug(ctx context.Context, gormDB *gorm.DB, w io.Writer) error {
	rows, err := report.HoursByBug(ctx, gormDB)
	if err != nil {
		return err
	}
	if rows == nil {
		fmt.Fprintln(w, "No milestones.")
		return nil
	}
	fmt.Fprintln(w, "MILESTONE\tBUG\tHOURS")
	for _, r := range rows {
		bugCol := "-"
		if r.BugID != nil {
			bugCol = fmt.Sprintf("#%d %s", *r.BugID, deref(r.BugTitle))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.MilestoneTitle, bugCol, hours(r.Hours))
	}
	return nil
}

func printHoursByUser(ctx context.Context, gormDB *gorm.DB, w io.Writer) error {
	rows, err := report.HoursByUser(ctx, gormDB)
	if err != nil {
		return err
	}
	if rows == nil {
		fmt.Fprintln(w, "No milestones.")
		return nil
	}
	fmt.Fprintln(w, "MILESTONE\tUSER\tHOURS")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.MilestoneTitle, r.Login, hours(r.Hours))
	}
	return nil
}

func printStatusByMilestone(ctx context.Context, gormDB *gorm.DB, w io.Writer) error {
	rows, err := report.StatusByMilestone(ctx, gormDB)
	if err != nil {
		return err
	}
	if rows == nil {
		fmt.Fprintln(w, "No milestones.")
		return nil
	}
	fmt.Fprintln(w, "MILESTONE\tTARGET\tOPEN\tREADY FOR TESTING\tTESTING\tREADY FOR DEPLOYMENT")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n", r.MilestoneTitle, r.TargetDate.Format(dateLayout),
			r.OpenCount, r.ReadyForTestingCount, r.TestingCount, r.ReadyForDeploymentCount)
	}
	return nil
}

func hours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
