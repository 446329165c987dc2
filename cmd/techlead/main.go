// Package main is the entry point for the techlead CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"techlead/internal/backend/firestore"
	"techlead/internal/backend/gemini"
	"techlead/internal/cli"
	"techlead/internal/commands"
	"techlead/internal/config"
	"techlead/internal/events"
	"techlead/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// One bus per process
	bus := events.NewBus()

	factory := func(ctx context.Context, cfg *config.Config) (*service.Session, error) {
		if !cfg.HasToken() {
			return nil, config.ErrNotLoggedIn
		}
		user, err := cfg.LoadUser()
		if err != nil {
			return nil, err
		}

		st, err := firestore.New(ctx, cfg)
		if err != nil {
			return nil, err
		}

		var ai service.Assistant
		ai, err = gemini.New(ctx, cfg)
		if err != nil {
			if !errors.Is(err, config.ErrNotConfigured) {
				return nil, err
			}
			cfg.Log.Debug().Err(err).Msg("assistant disabled")
			ai = gemini.Disabled{Err: err}
		}

		return &service.Session{
			UserID:    user.ID,
			Store:     st,
			Assistant: ai,
			Bus:       bus,
		}, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
