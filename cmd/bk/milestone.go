package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/zulandar/bookmarky/internal/bug"
	"github.com/zulandar/bookmarky/internal/db"
)

const dateLayout = "2006-01-02"

func newMilestoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Manage milestones",
	}

	cmd.AddCommand(newMilestoneAddCmd())
	cmd.AddCommand(newMilestoneListCmd())
	return cmd
}

func newMilestoneAddCmd() *cobra.Command {
	var (
		configPath string
		targetDate string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMilestoneAdd(cmd, configPath, args[0], targetDate)
		},
	}

	configFlag(cmd, &configPath)
	cmd.Flags().StringVar(&targetDate, "target", "", "target date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("target")
	return cmd
}

func runMilestoneAdd(cmd *cobra.Command, configPath, title, targetDate string) error {
	target, err := time.Parse(dateLayout, targetDate)
	if err != nil {
		return fmt.Errorf("invalid --target %q: want YYYY-MM-DD", targetDate)
	}

	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gormDB)

	id, err := bug.CreateMilestone(context.Background(), gormDB, title, target)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(cmd.OutOrStdout(), "%s Added milestone %d (%s, due %s)\n", green("✓"), id, title, target.Format(dateLayout))
	return nil
}

func newMilestoneListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List milestones by target date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMilestoneList(cmd, configPath)
		},
	}

	configFlag(cmd, &configPath)
	return cmd
}

func runMilestoneList(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gormDB)

	ms, err := bug.Milestones(context.Background(), gormDB)
	if err != nil {
		return err
	}
	if len(ms) == 0 {
		fmt.Fprintln(out, "No milestones.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTARGET")
	for _, m := range ms {
		fmt.Fprintf(w, "%d\t%s\t%s\n", m.ID, m.Title, m.TargetDate.Format(dateLayout))
	}
	return w.Flush()
}
