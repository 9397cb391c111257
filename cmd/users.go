package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"renttracker/internal/repositories"
	"renttracker/internal/services"
	"renttracker/pkg/database"
)

func createUserCmd() *cobra.Command {
	var input services.CreateUserInput

	cmd := &cobra.Command{
		Use:   "createuser <username>",
		Short: "Create a user and grant roles",
		Long: "Create a user and grant roles. The seeded roles are viewers and property_managers.\n" +
			"The password is read from --password or the RENTTRACKER_PASSWORD environment variable.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Username = args[0]
			if input.Password == "" {
				input.Password = os.Getenv("RENTTRACKER_PASSWORD")
			}

			pool, err := openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			user, err := userService(pool).CreateUser(cmd.Context(), &input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Password, "password", "", "password (at least 8 characters)")
	cmd.Flags().StringVar(&input.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&input.LastName, "last-name", "", "last name")
	cmd.Flags().StringSliceVar(&input.Roles, "roles", nil, "comma separated role names")
	return cmd
}

func changePasswordCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "changepassword <username>",
		Short: "Set a new password for an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("RENTTRACKER_PASSWORD")
			}
			pool, err := openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := userService(pool).ChangePassword(cmd.Context(), args[0], password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password changed for %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "new password (at least 8 characters)")
	return cmd
}

func listUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listusers",
		Short: "List users and the roles that can be granted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := userService(pool)
			users, err := svc.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			roles, err := svc.ListRoles(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "USERNAME\tNAME\tACTIVE")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s %s\t%t\n", u.Username, u.FirstName, u.LastName, u.IsActive)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "ROLE\tDESCRIPTION")
			for _, r := range roles {
				desc := ""
				if r.Description != nil {
					desc = *r.Description
				}
				fmt.Fprintf(w, "%s\t%s\n", r.Name, desc)
			}
			return w.Flush()
		},
	}
}

func userService(pool *pgxpool.Pool) services.UserService {
	return services.NewUserService(repositories.NewUserRepo(pool), repositories.NewPermissionRepo(pool))
}

// openPool loads the configuration and connects to the database.
func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return database.NewPool(ctx, cfg.DatabaseURL)
}
