package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/zulandar/bookmarky/internal/config"
	"github.com/zulandar/bookmarky/internal/db"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBResetCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the Bookmarky database",
		Long:  "Creates the database if needed, migrates all tables and seeds the unassigned account.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	configFlag(cmd, &configPath)
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if err := db.EnsureDatabase(cfg.Database); err != nil {
		return err
	}
	fmt.Fprintf(out, "Database %s ready\n", dbLabel(cfg.Database))

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer db.Close(gormDB)

	if err := db.Init(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(out, "\n%s Bookmarky database initialized.\n", green("✓"))
	return nil
}

func newDBResetCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and re-create all Bookmarky tables",
		Long: `Drops every Bookmarky table and re-initializes the schema.

All users, bugs, comments and bookmarks are lost.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBReset(cmd, configPath, yes)
		},
	}

	configFlag(cmd, &configPath)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runDBReset(cmd *cobra.Command, configPath string, skipConfirm bool) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gormDB)

	if !skipConfirm {
		if !confirmReset(cmd, dbLabel(cfg.Database)) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := db.Reset(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Re-created %d tables\n", len(db.AllModels()))

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(out, "\n%s Bookmarky database reset.\n", green("✓"))
	return nil
}

func confirmReset(cmd *cobra.Command, name string) bool {
	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()

	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(out, "%s This will permanently delete all data in %s.\n", yellow("WARNING:"), name)
	fmt.Fprintln(out, "This action cannot be undone.")
	fmt.Fprintln(out)
	fmt.Fprint(out, "Type \"yes\" to confirm: ")

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()) == "yes"
	}
	return false
}

func dbLabel(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverSQLite {
		return cfg.Path
	}
	return fmt.Sprintf("%s on %s:%d", cfg.Name, cfg.Host, cfg.Port)
}
