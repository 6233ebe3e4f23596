package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"github.com/hyprland-community/Hyprmaid/internal/app"
	"github.com/hyprland-community/Hyprmaid/internal/config"
	"github.com/hyprland-community/Hyprmaid/internal/discord"
	"github.com/hyprland-community/Hyprmaid/internal/github"
	"github.com/hyprland-community/Hyprmaid/internal/handlers"
	"github.com/hyprland-community/Hyprmaid/internal/logger"
	"github.com/hyprland-community/Hyprmaid/internal/reconcile"
	"github.com/hyprland-community/Hyprmaid/internal/server"
)

// services holds the configuration and the long-running components
type services struct {
	cfg  *config.Config
	log  *logger.Logger
	bot  *app.Bot
	loop *reconcile.Loop

	// one slot per task so no sender blocks after shutdown
	errChan chan error
}

func initialize(opts *rootOptions) (*services, error) {
	// Load configuration
	cfg, err := config.LoadFile(opts.envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	log := logger.New(level, cfg.Log.Format)
	log.Infof("Starting Hyprmaid %s", version)

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	gh, err := github.NewClient(cfg.GitHub, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	schedule, err := cfg.Reconcile.ParseSchedule()
	if err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule: %w", err)
	}

	// Build the reconciliation pipeline
	guild := discord.NewGuild(session, cfg.Discord.GuildID, log)
	provisioner := reconcile.NewProvisioner(guild, gh, reconcile.ProvisionerOptions{
		WebhookName: cfg.Reconcile.WebhookName,
		URLSuffix:   cfg.Reconcile.WebhookURLSuffix,
	}, log)
	blacklist := reconcile.NewBlacklist(cfg.Reconcile.Blacklist...)
	reconciler := reconcile.NewReconciler(provisioner, blacklist, log)

	log.Infof("Reconciling %s into guild %s, %d repositories blacklisted", gh.Org(), cfg.Discord.GuildID, blacklist.Len())

	return &services{
		cfg:     cfg,
		log:     log,
		bot:     app.NewBot(session, cfg.Discord.ShowInviteQR, log),
		loop:    reconcile.NewLoop(gh, guild, reconciler, schedule, log),
		errChan: make(chan error, 3),
	}, nil
}

func runServe(ctx context.Context, opts *rootOptions) error {
	svc, err := initialize(opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	// Start services
	svc.startBot(ctx, &wg)
	svc.startReconcileLoop(ctx, &wg)
	svc.startWebServer(ctx, &wg)

	return svc.waitForShutdown(cancel, &wg)
}

func runReconcileOnce(ctx context.Context, opts *rootOptions, out io.Writer) error {
	svc, err := initialize(opts)
	if err != nil {
		return err
	}

	report, err := svc.loop.RunOnce(ctx)

	// The report is printed even when the pass failed
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(report); encErr != nil {
		svc.log.Error("Failed to write pass report", encErr)
	}

	return err
}

func (s *services) startBot(ctx context.Context, wg *sync.WaitGroup) {
	wg.Go(func() {
		log := s.log.WithStr("task", "bot")

		log.Info("Starting Discord bot...")
		if err := s.bot.Connect(ctx); err != nil {
			s.bot.Disconnect()
			s.errChan <- fmt.Errorf("failed to connect to Discord: %w", err)
			return
		}

		<-ctx.Done()
		log.Info("Discord bot shutting down...")
		s.bot.Disconnect()
	})
}

func (s *services) startReconcileLoop(ctx context.Context, wg *sync.WaitGroup) {
	wg.Go(func() {
		s.log.Infof("Starting reconciliation loop for %s (schedule %q)", s.cfg.GitHub.Org, s.cfg.Reconcile.Schedule)

		if err := s.loop.Run(ctx); err != nil {
			s.errChan <- fmt.Errorf("reconciliation loop aborted: %w", err)
			return
		}

		s.log.Info("Reconciliation loop stopped")
	})
}

func (s *services) startWebServer(ctx context.Context, wg *sync.WaitGroup) {
	if !s.cfg.Server.Enabled() {
		s.log.Info("Health server disabled")
		return
	}

	wg.Go(func() {
		httpServer := server.New(s.cfg.Server, handlers.New(s.loop, s.bot, s.log), s.log)
		if err := httpServer.Start(s.errChan); err != nil {
			s.errChan <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}

		// Wait for shutdown
		<-ctx.Done()
		s.log.Info("HTTP server shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Error("Error during HTTP server shutdown", err)
		}
	})
}

// waitForShutdown blocks until a task fails or a signal arrives, then
// stops every task. A task failure is returned.
func (s *services) waitForShutdown(cancel context.CancelFunc, wg *sync.WaitGroup) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var failure error
	select {
	case failure = <-s.errChan:
		s.log.Error("Service failed", failure)
	case sig := <-sigChan:
		s.log.Infof("Received %s, shutting down", sig)
	}

	cancel()
	wg.Wait()

	s.log.Info("Application stopped")
	return failure
}
