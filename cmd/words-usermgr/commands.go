package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/go-while/go-words/internal/config"
	"github.com/go-while/go-words/internal/database"
	"github.com/go-while/go-words/internal/models"
	"github.com/go-while/go-words/internal/services"
)

const minPasswordLength = 6

// passwordReader prompts for a password without echo
type passwordReader func(w io.Writer, prompt string) (string, error)

func termPassword(w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

type deps struct {
	configFile   string
	dataDir      string
	readPassword passwordReader
	db           *database.Database
}

// newRootCmd returns the command tree and a func closing the database it opened
func newRootCmd(readPassword passwordReader) (*cobra.Command, func() error) {
	d := &deps{readPassword: readPassword}
	root := &cobra.Command{
		Use:           "words-usermgr",
		Short:         "Manage go-words users",
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return d.open()
		},
	}
	root.PersistentFlags().StringVar(&d.configFile, "config", "", "config file; WORDS_* environment variables override it")
	root.PersistentFlags().StringVar(&d.dataDir, "datadir", "", "directory holding words.sq3 (overrides config)")

	root.AddCommand(
		newCreateCmd(d),
		newPasswdCmd(d),
		newDeleteCmd(d),
		newListCmd(d),
	)
	return root, d.close
}

func (d *deps) open() error {
	mainConfig, err := config.Load(d.configFile)
	if err != nil {
		return err
	}
	dbConfig := database.DefaultDBConfig()
	dbConfig.DataDir = mainConfig.Database.DataDir
	dbConfig.WALMode = mainConfig.Database.WALMode
	if d.dataDir != "" {
		dbConfig.DataDir = d.dataDir
	}
	d.db, err = database.OpenDatabase(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}

func (d *deps) close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Shutdown()
	d.db = nil
	return err
}

// newPassword asks twice and checks the minimum length
func (d *deps) newPassword(w io.Writer, prompt string) (string, error) {
	password, err := d.readPassword(w, prompt)
	if err != nil {
		return "", err
	}
	confirm, err := d.readPassword(w, "Confirm password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	return password, nil
}

func newCreateCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			name := services.NormalizeName(args[0])
			if name == "" {
				return errors.New("name must not be empty")
			}
			if _, err := d.db.GetUserByName(ctx, name); err == nil {
				return fmt.Errorf("user '%s' already exists", name)
			}
			password, err := d.newPassword(w, "Enter password: ")
			if err != nil {
				return err
			}
			user, err := d.db.InsertUser(ctx, name, password)
			if err != nil {
				return fmt.Errorf("failed to insert user: %w", err)
			}
			fmt.Fprintf(w, "User '%s' created (ID: %d)\n", user.Name, user.ID)
			return nil
		},
	}
}

func newPasswdCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "passwd <name>",
		Short: "Change a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			user, err := d.db.GetUserByName(ctx, services.NormalizeName(args[0]))
			if err != nil {
				return fmt.Errorf("user '%s' not found", args[0])
			}
			password, err := d.newPassword(w, fmt.Sprintf("Enter new password for '%s': ", user.Name))
			if err != nil {
				return err
			}
			if _, err := d.db.UpdateUser(ctx, user.ID, nil, &password); err != nil {
				return fmt.Errorf("failed to update password: %w", err)
			}
			fmt.Fprintf(w, "Password for '%s' updated\n", user.Name)
			return nil
		},
	}
}

func newDeleteCmd(d *deps) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a user with all catalogs and words",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			user, err := d.db.GetUserByName(ctx, services.NormalizeName(args[0]))
			if err != nil {
				return fmt.Errorf("user '%s' not found", args[0])
			}
			if !yes {
				fmt.Fprintf(w, "Are you sure you want to delete user '%s' (ID: %d)? [y/N]: ", user.Name, user.ID)
				response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				response = strings.TrimSpace(strings.ToLower(response))
				if response != "y" && response != "yes" {
					fmt.Fprintln(w, "User deletion cancelled")
					return nil
				}
			}
			if err := d.db.DeleteUser(ctx, user.ID); err != nil {
				return fmt.Errorf("failed to delete user: %w", err)
			}
			fmt.Fprintf(w, "User '%s' (ID: %d) deleted\n", user.Name, user.ID)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newListCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := d.db.ListUsers(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get users: %w", err)
			}
			writeUsers(cmd.OutOrStdout(), users)
			return nil
		},
	}
}

func writeUsers(w io.Writer, users []*models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found")
		return
	}
	fmt.Fprintf(w, "Found %d users:\n\n", len(users))
	fmt.Fprintf(w, "%-6s %-30s %s\n", "ID", "Name", "Created")
	fmt.Fprintf(w, "%-6s %-30s %s\n", "------", "----", "-------")
	for _, u := range users {
		fmt.Fprintf(w, "%-6d %-30s %s\n", u.ID, truncate(u.Name, 30), u.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
