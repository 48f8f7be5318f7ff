package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xaenox/thread-tracker/internal/bot"
	"github.com/xaenox/thread-tracker/internal/cache"
	"github.com/xaenox/thread-tracker/internal/platform"
	"github.com/xaenox/thread-tracker/internal/storage"
	"github.com/xaenox/thread-tracker/internal/tracker"
	"github.com/xaenox/thread-tracker/pkg/config"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "thread-tracker",
		Short: "Discord bot that tracks roleplay threads and who last replied to them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the configuration file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(configPath string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err), zap.String("path", configPath))
		return err
	}

	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		store, err = storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		})
		if err != nil {
			logger.Error("Failed to initialize storage", zap.Error(err))
			return err
		}
	}
	defer store.Close()

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		logger.Error("Failed to create Discord session", zap.Error(err))
		return err
	}

	client := platform.NewDiscordClient(session)
	messageCache := cache.New[platform.ChannelMessage, *platform.Message](cfg.Tracker.CacheLifetime)

	tr := tracker.New(store, client, messageCache, logger, tracker.Options{
		SelfHealWatchers:     cfg.Tracker.SelfHealWatchers,
		MaxConcurrentUpdates: cfg.Tracker.MaxConcurrentUpdates,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := bot.New(session, client, store, tr, logger, cfg.Tracker)
	if err := b.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("Bot stopped with error", zap.Error(err))
		return err
	}

	logger.Info("Shutting down")
	return nil
}
