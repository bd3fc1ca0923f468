package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gncitizen/pkg/auth"
	"gncitizen/pkg/rbac"
)

func newTokenCommand(opts *rootOptions) *cobra.Command {
	var (
		userID int
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token signed with the configured secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			if cfg.JWT.Secret == "" {
				return errors.New("jwt.secret is not configured")
			}
			token, err := auth.GenerateJWT(userID, role, cfg.JWT.Secret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().IntVar(&userID, "user", 1, "user id carried by the token")
	cmd.Flags().StringVar(&role, "role", rbac.RoleAdmin, "role carried by the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
