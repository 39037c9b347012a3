package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/altar-backend/internal/auth"
)

// tokenOutput is the machine-readable result of "ritualctl token".
type tokenOutput struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func newTokenCommand(opts *rootOptions) *cobra.Command {
	var (
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		Long: `token signs an access token with the server's secret (auth.jwt_secret or
AUTH_JWT_SECRET). It is meant for local development; production tokens come
from the identity provider. Without --user a random user id is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tcfg := opts.cfg.Auth
			if secret != "" {
				tcfg.JWTSecret = secret
			}
			if ttl > 0 {
				tcfg.AccessTokenTTL = ttl
			}
			if tcfg.JWTSecret == "" {
				return &usageError{errors.New("no signing secret: pass --secret or set AUTH_JWT_SECRET")}
			}

			userID := uuid.New()
			if opts.userID != "" {
				id, err := uuid.Parse(opts.userID)
				if err != nil {
					return &usageError{fmt.Errorf("invalid --user: %w", err)}
				}
				userID = id
			}

			m := auth.NewJWTManager(tcfg.JWTSecret, tcfg.JWTIssuer, tcfg.AccessTokenTTL, auth.WithClock(opts.clock))
			token, err := m.GenerateAccessToken(userID, auth.RoleUser)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			out := tokenOutput{
				Token:     token,
				UserID:    userID.String(),
				ExpiresAt: opts.clock.Now().Add(tcfg.AccessTokenTTL).UTC(),
			}
			return opts.printer(cmd).print(out, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, out.Token)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (overrides auth.jwt_secret)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (overrides auth.access_token_ttl)")

	return cmd
}
