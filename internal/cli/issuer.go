package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/classleaf/quizport/internal/auth"
	"github.com/classleaf/quizport/internal/config"
	"github.com/classleaf/quizport/internal/quiz"
)

// newIssuerCmd groups the administrative issuer provisioning operations.
// These write to the store directly, without going through the HTTP surface.
func newIssuerCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issuer",
		Short: "Manage issuer accounts",
	}
	cmd.AddCommand(newIssuerAddCmd(configPath))
	cmd.AddCommand(newIssuerSuspendCmd(configPath))
	return cmd
}

func newIssuerAddCmd(configPath *string) *cobra.Command {
	var email, password, name, plan string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Provision a new issuer account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" || name == "" {
				return fmt.Errorf("email, password and name are required")
			}
			store, err := storeFromConfig(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			is := quiz.Issuer{
				ID:           uuid.NewString(),
				Email:        email,
				PasswordHash: hash,
				Name:         name,
				Active:       true,
				Plan:         plan,
				CreatedAt:    time.Now().UTC(),
			}
			if err := store.PutIssuer(cmd.Context(), is); err != nil {
				return err
			}
			fmt.Printf("issuer %s created (%s)\n", is.ID, is.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&plan, "plan", "basic", "subscription plan (basic|pro|enterprise)")
	return cmd
}

func newIssuerSuspendCmd(configPath *string) *cobra.Command {
	var activate bool
	cmd := &cobra.Command{
		Use:   "suspend <issuer-id>",
		Short: "Suspend (or, with --activate, reinstate) an issuer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storeFromConfig(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			is, err := store.GetIssuer(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			is.Active = activate
			if err := store.UpdateIssuer(cmd.Context(), is); err != nil {
				return err
			}
			fmt.Printf("issuer %s active=%v\n", is.ID, is.Active)
			return nil
		},
	}
	cmd.Flags().BoolVar(&activate, "activate", false, "reinstate instead of suspending")
	return cmd
}

// newAdminTokenCmd mints a token for the admin HTTP surface.
func newAdminTokenCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "admin-token",
		Short: "Mint an admin bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			authSvc := auth.NewService(cfg.Auth.HMACSecret, cfg.TokenTTL(), nil)
			tok, err := authSvc.IssueToken("admin", auth.RoleAdmin)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
}

func storeFromConfig(ctx context.Context, configPath string) (quiz.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return openStore(openCtx, cfg)
}
