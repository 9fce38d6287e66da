package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"github.com/mcoot/bingobot/internal/api"
	"github.com/mcoot/bingobot/internal/bot"
	"github.com/mcoot/bingobot/internal/config"
	"github.com/mcoot/bingobot/internal/factory"
	"github.com/mcoot/bingobot/internal/services/notify"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	// The Discord session is created first so the app can DM players through it
	var session *discordgo.Session
	var notifier notify.Notifier
	if cfg.DiscordToken != "" {
		var err error
		session, err = bot.NewSession(cfg.DiscordToken)
		if err != nil {
			return fmt.Errorf("create discord session: %w", err)
		}
		notifier = bot.NewDMNotifier(session, logger)
	} else {
		logger.Warn("DISCORD_TOKEN not set, running without the chat bot")
	}

	app, err := factory.New(factory.Config{
		Settings: cfg,
		Notifier: notifier,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	app.Start()
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	if session != nil {
		b := bot.New(session, app.Game, app.Clock, bot.Config{
			GuildID:     cfg.GuildID,
			ChannelID:   cfg.ChannelID,
			AdminRoleID: cfg.AdminRoleID,
		}, logger)
		session.AddHandler(b.OnMessageCreate)
		go b.Announce(app.Hub.Subscribe("discord"))

		if err := session.Open(); err != nil {
			return fmt.Errorf("open discord session: %w", err)
		}
		defer func() { _ = session.Close() }()
		logger.Info("discord bot connected")
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		Game:         app.Game,
		Events:       app.Hub,
		AdminKeyHash: cfg.AdminKeyHash,
		RateLimit:    cfg.APIRate,
		Burst:        cfg.APIBurst,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Addr = cfg.HTTPAddr
	server := api.NewServer(router, serverConfig, logger)

	// Serve until SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
