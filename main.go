package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"rantify/blueprint"
	"rantify/config"
	authcontroller "rantify/controllers/auth"
	rantcontroller "rantify/controllers/rant"
	"rantify/logger"
	"rantify/middleware"
	"rantify/services/llm"
	"rantify/services/prompt"
	"rantify/services/rant"
	"rantify/services/spotify"
	"rantify/session"
	"rantify/util"
)

func init() {
	env := os.Getenv("ENV")
	if env == "" {
		log.Println("==⚠️ WARNING: env variable not set. Using dev ⚠️==")
		env = "dev"
	}
	err := godotenv.Load(".env." + env)
	if err != nil {
		log.Println("Error reading the env file")
		log.Println(err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "rantify",
		Usage: "Rate, roast and rhyme about Spotify playlists",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: serve,
			},
			renderCommand(),
		},
		Action: serve,
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

// newBudgeter builds the prompt budgeter for the configured model.
func newBudgeter(cfg *config.Config) (*prompt.Budgeter, error) {
	tokenizer, err := prompt.NewTiktokenTokenizer(cfg.LLM.Model)
	if err != nil {
		return nil, fmt.Errorf("could not load tokenizer: %w", err)
	}
	return prompt.NewBudgeter(tokenizer, cfg.LLM.MaxPromptTokens)
}

func newBackend(cfg *config.Config) llm.Backend {
	if cfg.LLM.Provider == config.ProviderOllama {
		return llm.NewOllamaBackend(cfg.LLM.OllamaURL, cfg.LLM.Model)
	}
	return llm.NewOpenAIBackend(cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIBaseURL, cfg.LLM.Model)
}

// newStore returns a redis backed store when REDIS_URL is set, otherwise an
// in-process store swept by a cron janitor.
func newStore(ctx context.Context, cfg *config.Config, zl *zap.Logger) (session.Store, func(), error) {
	if cfg.Server.RedisURL == "" {
		store := session.NewMemoryStore()
		janitor, err := store.StartJanitor("@every 10m")
		if err != nil {
			return nil, nil, err
		}
		zl.Warn("[main][newStore] warning - REDIS_URL not set, sessions are kept in memory")
		return store, func() { <-janitor.Stop().Done() }, nil
	}

	opts, err := redis.ParseURL(cfg.Server.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, nil, fmt.Errorf("could not reach redis: %w", err)
	}
	return session.NewRedisStore(client), func() { _ = client.Close() }, nil
}

func serve(ctx context.Context, _ *cli.Command) error {
	zl := logger.NewZapSentryLogger(&blueprint.RantifyLoggerOptions{Component: "main"})
	defer func() { _ = zl.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, closeStore, err := newStore(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer closeStore()

	authenticator := spotify.NewAuthenticator(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.RedirectURI)
	manager, err := session.NewManager(session.Config{
		Store:       store,
		Secret:      cfg.Session.Secret,
		Authorizer:  authenticator,
		RefreshSkew: cfg.Session.RefreshSkew.Duration,
		TTL:         cfg.Session.TTL.Duration,
		Logger:      zl.Named("session"),
	})
	if err != nil {
		return err
	}

	budgeter, err := newBudgeter(cfg)
	if err != nil {
		return err
	}
	generator, err := llm.NewGenerator(newBackend(cfg), cfg.LLM.MaxRetryAttempts, zl.Named("llm"))
	if err != nil {
		return err
	}

	catalogLogger := zl.Named("spotify")
	// one limiter for the process so the rate cap holds across requests
	catalogLimiter := spotify.NewLimiter(cfg.Spotify.RequestsPerSecond)
	catalog := func(ctx context.Context, cred *blueprint.Credential) rant.Catalog {
		return spotify.NewClientFromToken(ctx, cred.AccessToken,
			spotify.WithLimiter(catalogLimiter),
			spotify.WithTimeout(cfg.Spotify.Timeout.Duration),
			spotify.WithLogger(catalogLogger))
	}
	orchestrator := rant.NewOrchestrator(catalog, budgeter, generator, zl.Named("rant"))

	authController := authcontroller.NewAuthController(manager, "/")
	rantController := rantcontroller.NewRantController(orchestrator,
		func(sessionID string) rant.CredentialSource { return manager.For(sessionID) },
		manager.Logout)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New(), cors.New(), middleware.LogIncomingRequest(zl.Named("http")))

	app.Get("/heartbeat", func(ctx *fiber.Ctx) error {
		return util.SuccessResponse(ctx, http.StatusOK, "ok")
	})

	authRouter := app.Group("/auth",
		middleware.EnsureSession(cfg.Session.Secret, cfg.Session.TTL.Duration),
		middleware.Deadline(cfg.Server.RequestTimeout.Duration))
	authRouter.Get("/login", authController.Login)
	authRouter.Get("/callback", authController.Callback)
	authRouter.Post("/logout", authController.Logout)

	apiRouter := app.Group("/api/v1",
		middleware.RequireSession(cfg.Session.Secret),
		middleware.VerifyToken,
		middleware.Deadline(cfg.Server.RequestTimeout.Duration))
	apiRouter.Get("/me", rantController.Me)
	apiRouter.Post("/rate", rantController.Rate)
	apiRouter.Post("/roast", rantController.Roast)
	apiRouter.Post("/rhyme", rantController.Rhyme)

	go func() {
		<-ctx.Done()
		zl.Info("[main][serve] shutting down")
		if err := app.ShutdownWithTimeout(cfg.Server.RequestTimeout.Duration); err != nil {
			zl.Error("[main][serve] error - could not shut down cleanly", zap.Error(err))
		}
	}()

	zl.Info("[main][serve] listening", zap.String("port", cfg.Server.Port), zap.String("llm_provider", cfg.LLM.Provider), zap.String("llm_model", cfg.LLM.Model))
	if err := app.Listen(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
