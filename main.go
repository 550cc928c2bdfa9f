package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/storage/memory/v2"
	fredis "github.com/gofiber/storage/redis/v3"
	"github.com/khanghh/admin-portal/internal/authapi"
	"github.com/khanghh/admin-portal/internal/config"
	"github.com/khanghh/admin-portal/internal/credentials"
	"github.com/khanghh/admin-portal/internal/devbackend"
	"github.com/khanghh/admin-portal/internal/handlers"
	"github.com/khanghh/admin-portal/internal/mail"
	"github.com/khanghh/admin-portal/internal/middlewares"
	"github.com/khanghh/admin-portal/internal/middlewares/captcha"
	"github.com/khanghh/admin-portal/internal/middlewares/csrf"
	"github.com/khanghh/admin-portal/internal/middlewares/sessions"
	"github.com/khanghh/admin-portal/internal/render"
	"github.com/khanghh/admin-portal/internal/store"
	"github.com/khanghh/admin-portal/params"
	"github.com/urfave/cli/v2"
	"gopkg.in/gomail.v2"
)

var (
	app       *cli.App
	gitCommit string
	gitDate   string
	gitTag    string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "YAML config file",
		Value: "config.yaml",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = "Admin portal"
	app.Flags = []cli.Flag{
		configFileFlag,
		debugFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name:   "devbackend",
			Usage:  "Run a local development auth backend",
			Action: runDevBackend,
		},
		{
			Name: "version",
			Action: func(ctx *cli.Context) error {
				fmt.Println(params.VersionWithCommit(gitCommit, gitDate))
				return nil
			},
		},
	}
	app.Action = run
}

func initLogger(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		return nil, err
	}
	initLogger(cfg.Debug || ctx.Bool(debugFlag.Name))
	return cfg, nil
}

func initStorage(redisURL string) fiber.Storage {
	if redisURL == "" {
		return memory.New()
	}
	return fredis.New(fredis.Config{URL: redisURL})
}

func newFiberApp(appName string, errorHandler fiber.ErrorHandler, views fiber.Views) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      appName,
		Views:        views,
		ErrorHandler: errorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		BodyLimit:    params.ServerBodyLimit,
		ReadTimeout:  params.ServerReadTimeout,
		WriteTimeout: params.ServerWriteTimeout,
		IdleTimeout:  params.ServerIdleTimeout,
	})
}

func run(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	storage := initStorage(cfg.RedisURL)
	sessionStore := sessions.NewStore(storage, cfg.Session.CookieName, cfg.Session.SessionMaxAge, cfg.Session.CookieHttpOnly, cfg.Session.CookieSecure)

	render.InitValues(fiber.Map{"siteName": cfg.SiteName})
	server := newFiberApp(cfg.SiteName, middlewares.ErrorHandler, render.NewHtmlEngine(cfg.TemplateDir))
	server.Use(recover.New())
	server.Use(sessions.SessionMiddleware(sessionStore))
	server.Use(csrf.New())

	codeLimiter := limiter.New(limiter.Config{
		Max:          cfg.RateLimit.Max,
		Expiration:   cfg.RateLimit.Expiration,
		Storage:      store.NewPrefixStorage(storage, "limiter:"),
		LimitReached: handlers.CodeLimitReached,
	})

	var verifier captcha.Verifier
	if cfg.Turnstile.SecretKey != "" {
		verifier = captcha.NewTurnstileVerifier(cfg.Turnstile.SecretKey)
	}

	backend := authapi.NewClient(cfg.Backend.URL, cfg.Backend.Timeout)
	credentialStore := credentials.NewStore(storage, cfg.Session.SessionMaxAge)
	authHandler := handlers.NewAuthHandler(backend, credentialStore, verifier, handlers.FlowOptions{
		SuccessRedirectURL:   cfg.Flow.SuccessRedirectURL,
		SuccessRedirectDelay: cfg.Flow.SuccessRedirectDelay,
		EmailVerifiedDelay:   cfg.Flow.EmailVerifiedDelay,
		ResendCooldown:       cfg.Flow.ResendCooldown,
		TurnstileSiteKey:     cfg.Turnstile.SiteKey,
		CookieSecure:         cfg.Session.CookieSecure,
	})
	homeHandler := handlers.NewHomeHandler(credentialStore)
	handlers.SetupRoutes(server, authHandler, homeHandler, handlers.NewInflightGuard(), codeLimiter)
	server.Use(func(ctx *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	slog.Info("Starting admin portal", "addr", cfg.ListenAddr, "backend", cfg.Backend.URL)
	return server.Listen(cfg.ListenAddr)
}

func initMailSender(cfg config.SMTPConfig) mail.MailSender {
	if cfg.Host == "" {
		slog.Warn("No SMTP host configured, mails will be logged")
		return mail.LogMailSender{}
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return mail.NewSMTPMailSender(dialer, cfg.From)
}

func runDevBackend(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	engine := render.NewHtmlEngine(cfg.TemplateDir)
	if err := engine.Load(); err != nil {
		return err
	}
	mail.Initialize(engine, fiber.Map{"siteName": cfg.SiteName})

	var (
		accounts store.Store[devbackend.Account]
		codes    store.Store[devbackend.CodeRecord]
	)
	if cfg.RedisURL != "" {
		rdb := fredis.New(fredis.Config{URL: cfg.RedisURL}).Conn()
		accounts = store.NewRedisStore[devbackend.Account](rdb, "devbackend:account:")
		codes = store.NewRedisStore[devbackend.CodeRecord](rdb, "devbackend:code:")
	} else {
		accounts = store.NewMemoryStore[devbackend.Account]()
		codes = store.NewMemoryStore[devbackend.CodeRecord]()
	}

	svc, err := devbackend.NewService(accounts, codes, initMailSender(cfg.DevBackend.SMTP), devbackend.Options{
		SigningKey: cfg.DevBackend.SigningKey,
		Issuer:     cfg.DevBackend.Issuer,
		NodeID:     1,
	})
	if err != nil {
		return err
	}

	slog.Info("Starting dev backend", "addr", cfg.DevBackend.ListenAddr)
	return devbackend.NewApp(svc).Listen(cfg.DevBackend.ListenAddr)
}

func main() {
	if gitTag != "" {
		params.VersionMeta = ""
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
