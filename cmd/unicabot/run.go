package main

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/shanehull/unicabot/internal/ai"
	"github.com/shanehull/unicabot/internal/api"
	"github.com/shanehull/unicabot/internal/bot"
	"github.com/shanehull/unicabot/internal/config"
	"github.com/shanehull/unicabot/internal/history"
	applog "github.com/shanehull/unicabot/internal/log"
	"github.com/shanehull/unicabot/internal/notify"
	"github.com/shanehull/unicabot/internal/store"
	"github.com/shanehull/unicabot/internal/subs"
	"github.com/shanehull/unicabot/internal/unica"
	"github.com/shanehull/unicabot/internal/watcher"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot and the event watcher",
	Long: `Start the Telegram command handler and the watcher loop.

The watcher waits the short interval, scrapes the events page, forgets
events that left it and notifies every subscriber of each new one, then
waits the long interval and starts over. SIGINT or SIGTERM stops both.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return run(ctx, cfg)
	},
}

func init() {
	runCmd.Flags().String("listen", "", "Status API address, e.g. :8080 (disabled when empty)")
	runCmd.Flags().String("storage", "", "Storage backend: json or bolt")
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.Storage == config.StorageBolt {
		return store.NewBoltStore(cfg.DataDir)
	}
	return store.NewFileStore(cfg.DataDir)
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := applog.WithComponent("main")

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close store")
		}
	}()

	registry := subs.NewRegistry(s)
	catalog := history.NewCatalog(s)
	logger.Info().
		Str("data_dir", cfg.DataDir).
		Str("storage", cfg.Storage).
		Int("subscribers", registry.Len()).
		Int("events", catalog.Len()).
		Msg("State loaded")

	tg, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	tg.Debug = cfg.Debug
	logger.Info().Str("username", tg.Self.UserName).Msg("Authorized on Telegram")

	var opts []notify.Option
	if cfg.SMTP.Enabled() {
		opts = append(opts, notify.WithMailer(notify.NewEmailSender(cfg.SMTP)))
		logger.Info().Str("to", cfg.SMTP.ToEmail).Msg("Email copies enabled")
	}
	if cfg.Gemini.APIKey != "" {
		client, err := ai.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			logger.Warn().Err(err).Msg("AI descriptions disabled")
		} else {
			opts = append(opts, notify.WithAnnotator(client))
		}
	}
	notifier := notify.NewNotifier(notify.NewTelegram(tg), opts...)

	w := watcher.New(
		unica.NewFetcher(cfg.PageURL, nil),
		catalog,
		registry,
		notifier,
		watcher.Config{ShortWait: cfg.ShortWait, LongWait: cfg.LongWait},
	)
	b := bot.New(tg, registry, catalog)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		w.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := b.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("Bot failed")
		}
	}()

	if cfg.Listen != "" {
		srv := api.NewServer(cfg.Listen, Version, catalog, registry, w)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Start(); err != nil {
				logger.Error().Err(err).Msg("Status API failed")
			}
		}()

		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Status API shutdown failed")
		}
	}

	<-ctx.Done()
	logger.Info().Msg("Shutting down")
	wg.Wait()
	logger.Info().Msg("Stopped")
	return nil
}
