package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/zulandar/bookmarky/internal/auth"
	"github.com/zulandar/bookmarky/internal/db"
	"github.com/zulandar/bookmarky/internal/models"
	"golang.org/x/term"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(newUserCreateCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var (
		configPath  string
		displayName string
		email       string
		role        string
	)

	cmd := &cobra.Command{
		Use:   "create <login>",
		Short: "Create a user account",
		Long:  "Creates a user account. The password is read from the terminal, or from the first line of stdin when it is not a terminal.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserCreate(cmd, configPath, auth.NewUser{
				Login:       args[0],
				DisplayName: displayName,
				Email:       email,
				Role:        role,
			})
		},
	}

	configFlag(cmd, &configPath)
	cmd.Flags().StringVar(&displayName, "display-name", "", "display name (defaults to the login)")
	cmd.Flags().StringVar(&email, "email", "", "e-mail address")
	cmd.Flags().StringVar(&role, "role", models.RoleDeveloper, "Developer, Tester or Manager")
	return cmd
}

func runUserCreate(cmd *cobra.Command, configPath string, nu auth.NewUser) error {
	out := cmd.OutOrStdout()

	password, err := readPassword(cmd)
	if err != nil {
		return err
	}
	nu.Password = password

	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	defer db.Close(gormDB)

	id, err := auth.CreateUser(context.Background(), gormDB, nu)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(out, "%s Created user %s (id %d)\n", green("✓"), strings.TrimSpace(nu.Login), id)
	return nil
}

// readPassword prompts without echo on a terminal and reads one line
// otherwise.
func readPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", errors.New("read password: no input")
	}
	return strings.TrimRight(scanner.Text(), "\r"), nil
}
