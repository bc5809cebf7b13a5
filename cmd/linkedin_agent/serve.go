package main

import (
	"fmt"

	"github.com/jonathan/linkedin-snapshot/internal/config"
	"github.com/jonathan/linkedin-snapshot/internal/server"
	"github.com/jonathan/linkedin-snapshot/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing the profile, job listing and job search pipelines.
Requests are authenticated with bearer tokens when JWT_SECRET is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	jwtCfg, err := config.OptionalJWTConfig()
	if err != nil {
		return err
	}

	p, err := newPipeline(commandContext(cmd), cmd)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:         servePort,
		Service:      p.service,
		FreshService: p.service.Fresh(),
		JWT:          jwtCfg,
		RateLimit:    ratelimit.LoadConfig(),
		OnShutdown:   p.Close,
	})
	if err != nil {
		p.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
