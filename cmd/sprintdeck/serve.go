package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/sprintdeck/internal/ai"
	"github.com/zulandar/sprintdeck/internal/auth"
	"github.com/zulandar/sprintdeck/internal/config"
	"github.com/zulandar/sprintdeck/internal/db"
	"github.com/zulandar/sprintdeck/internal/notify"
	"github.com/zulandar/sprintdeck/internal/server"
	"github.com/zulandar/sprintdeck/internal/sprint"
	"github.com/zulandar/sprintdeck/internal/standup"
	"github.com/zulandar/sprintdeck/internal/tracker"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Sprintdeck API server",
		Long:  "Connects to the database, runs migrations, starts the snapshot recorder, and serves the API until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "sprintdeck.yaml", "path to config file")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	trackerClient := tracker.New(cfg.ClickUp)
	sprintStore := sprint.NewStore(gormDB)

	notifier, err := notify.New(cfg.Notify)
	if err != nil {
		return err
	}
	if notifier != nil {
		defer notifier.Close()
	}

	recorder := sprint.NewRecorder(sprintStore, trackerClient, notifier, cfg.Notify.DigestCron)
	go recorder.Run(ctx)

	verifier := auth.NewSupabaseVerifier(cfg.Supabase)
	resolver := auth.NewResolver(verifier, gormDB, cfg.Auth.UnknownRolePolicy)

	if cfg.Gemini.APIKey == "" {
		log.Printf("serve: no Gemini API key, AI endpoints will fail")
	}
	gen := ai.NewGeminiClient(cfg.Gemini)

	return server.Start(ctx, server.StartOpts{
		DB:       gormDB,
		Cfg:      cfg,
		Resolver: resolver,
		Standups: standup.NewStore(gormDB),
		Sprints:  sprintStore,
		Tracker:  trackerClient,
		Gen:      gen,
		Out:      cmd.OutOrStdout(),
	})
}
