package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/brownson-api/internal/application/usecase"
	"github.com/jhoicas/brownson-api/internal/infrastructure/postgres"
	"github.com/jhoicas/brownson-api/pkg/config"
	"github.com/spf13/cobra"
)

const commandTimeout = 2 * time.Minute

// bootDB carga la configuración y abre el pool de PostgreSQL.
func bootDB(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.DB.Driver != "postgres" {
		return nil, fmt.Errorf("brownsonctl requiere DB_DRIVER=postgres (actual: %s)", cfg.DB.Driver)
	}
	return postgres.NewPool(ctx, cfg.DB)
}

// brownsonctl migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()
		pool, err := bootDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to migrate.")
			return nil
		}
		for _, name := range applied {
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated: %s\n", name)
		}
		return nil
	},
}

// brownsonctl create-admin
func newCreateAdminCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account or promote an existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			pool, err := bootDB(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			users := usecase.NewUserUseCase(postgres.NewUserRepository(pool), nil)
			user, created, err := users.EnsureAdmin(ctx, name, email, password)
			if err != nil {
				return err
			}
			verb := "Promoted"
			if created {
				verb = "Created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s admin %s (%s)\n", verb, user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin e-mail (required)")
	cmd.Flags().StringVar(&password, "password", "", "password, at least 8 characters (optional when promoting)")
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name for a new account")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
