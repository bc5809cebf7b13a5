package main

import (
	"fmt"

	"github.com/jonathan/linkedin-snapshot/internal/config"
	"github.com/jonathan/linkedin-snapshot/internal/server"
	"github.com/jonathan/linkedin-snapshot/internal/types"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token for the REST server",
	Long:  "Sign a bearer token for the serve command with JWT_SECRET. The subject names the client in server logs.",
	RunE:  runToken,
}

var tokenSubject string

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Client name to embed in the token (required)")
	if err := tokenCmd.MarkFlagRequired("subject"); err != nil {
		panic(fmt.Sprintf("failed to mark subject flag as required: %v", err))
	}
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	svc := server.NewJWTService(jwtCfg)
	token, err := svc.GenerateToken(tokenSubject)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	return writeJSON(cmd.OutOrStdout(), types.TokenResponse{
		Token:     token,
		Subject:   tokenSubject,
		ExpiresIn: svc.ExpirationHours(),
	})
}
