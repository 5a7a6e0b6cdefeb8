// Package main is the entry point for the todocheck CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"todocheck/internal/backend/googletasks"
	"todocheck/internal/backend/todoapi"
	"todocheck/internal/cli"
	"todocheck/internal/commands"
	"todocheck/internal/config"
	"todocheck/internal/service"
)

func main() {
	// Cancel the root context on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newService)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// newService builds the backend named by cfg.Backend.
func newService(ctx context.Context, cfg *config.Config) (service.Service, error) {
	switch cfg.Backend {
	case config.BackendGoogleTasks:
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("%s not found in %s: %w", config.OAuthClientFile, cfg.Dir, service.ErrAuth)
		}
		if !cfg.HasToken() {
			return nil, fmt.Errorf("%s not found in %s: %w", config.TokenFile, cfg.Dir, service.ErrAuth)
		}
		return googletasks.New(ctx, cfg)
	default:
		return todoapi.New(ctx, cfg.BaseURL(), todoapi.Options{
			Timeout: cfg.Timeout,
			Token:   cfg.Token,
			Logger:  cfg.Logger(),
		}), nil
	}
}
