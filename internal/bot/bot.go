package bot

import (
	"context"
	"fmt"
	"time"

	"editor-board/internal/api/backend"
	"editor-board/internal/bot/handlers"
	"editor-board/internal/bot/middleware"
	"editor-board/internal/catalog"
	"editor-board/internal/config"
	"editor-board/internal/session"
	"editor-board/internal/storage/postgres"
	"editor-board/internal/storage/redis"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Bot represents Telegram bot
type Bot struct {
	bot      *tele.Bot
	store    *postgres.Store
	cache    *redis.Cache
	backend  *backend.Client
	catalog  *catalog.Catalog
	sessions *session.Registry
	config   *config.Config
	logger   *zap.Logger
}

func New(
	cfg *config.Config,
	store *postgres.Store,
	cache *redis.Cache,
	client *backend.Client,
	cat *catalog.Catalog,
	logger *zap.Logger,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.TelegramToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	bot := &Bot{
		bot:      b,
		store:    store,
		cache:    cache,
		backend:  client,
		catalog:  cat,
		sessions: NewSessions(cache, client, logger),
		config:   cfg,
		logger:   logger,
	}

	bot.setupMiddleware()

	bot.registerHandlers()

	logger.Info("bot initialized successfully", zap.String("username", b.Me.Username))

	return bot, nil
}

// NewSessions builds the per-user session registry backed by Redis.
func NewSessions(cache *redis.Cache, client *backend.Client, logger *zap.Logger) *session.Registry {
	return session.NewRegistry(func(userID int64) *session.Manager {
		flags := cache.SessionFlags(userID)
		return session.NewManager(
			&accountIdentity{client: client, tokens: flags},
			flags,
			session.WithLoginURL(client.LoginURL()),
			session.WithCredentials(flags),
			session.WithLogger(logger.With(zap.Int64("user_id", userID))),
		)
	})
}

func (b *Bot) setupMiddleware() {
	b.bot.Use(middleware.Recovery(b.logger))

	b.bot.Use(middleware.Logger(b.logger))

	b.bot.Use(middleware.RateLimit(b.cache, b.logger))
}

func (b *Bot) registerHandlers() {
	ctx := &handlers.Context{
		Store:    b.store,
		Cache:    b.cache,
		Backend:  b.backend,
		Catalog:  b.catalog,
		Sessions: b.sessions,
		Config:   b.config,
		Logger:   b.logger,
	}

	b.bot.Handle("/start", handlers.HandleStart(ctx))
	b.bot.Handle("/help", handlers.HandleHelp(ctx))
	b.bot.Handle("/jobs", handlers.HandleJobs(ctx))
	b.bot.Handle("/posts", handlers.HandlePosts(ctx))
	b.bot.Handle("/filters", handlers.HandleFilters(ctx))
	b.bot.Handle("/login", handlers.HandleLogin(ctx))
	b.bot.Handle("/me", handlers.HandleMe(ctx))
	b.bot.Handle("/logout", handlers.HandleLogout(ctx))
	b.bot.Handle("/settings", handlers.HandleSettings(ctx))

	b.bot.Handle(tele.OnText, handlers.HandleText(ctx))

	b.bot.Handle(tele.OnCallback, handlers.HandleCallback(ctx))

	b.logger.Info("handlers registered")
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting bot...")

	go b.bot.Start()

	<-ctx.Done()

	b.logger.Info("stopping bot...")
	b.bot.Stop()

	return nil
}

func (b *Bot) GetBot() *tele.Bot {
	return b.bot
}
