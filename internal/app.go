package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dataroom-api/config"
	"dataroom-api/internal/application/ports"
	"dataroom-api/internal/application/services"
	"dataroom-api/internal/infrastructure/crypto"
	"dataroom-api/internal/infrastructure/db/postgres"
	fileDB "dataroom-api/internal/infrastructure/db/postgres/file"
	sessionDB "dataroom-api/internal/infrastructure/db/postgres/session"
	userDB "dataroom-api/internal/infrastructure/db/postgres/user"
	"dataroom-api/internal/infrastructure/google"
	"dataroom-api/internal/infrastructure/jwt"
	"dataroom-api/internal/infrastructure/metrics"
	"dataroom-api/internal/infrastructure/mq"
	"dataroom-api/internal/infrastructure/secret"
	"dataroom-api/internal/infrastructure/storage"
	"dataroom-api/internal/interface/api/rest"
	"dataroom-api/internal/interface/api/rest/middleware"
	"dataroom-api/pkg/rmqconsumer"
)

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	blobs      *storage.Local
	enc        crypto.Encryptor
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	drive      ports.DriveClient
	events     ports.EventPublisher
	mq         *mq.RabbitMQ
	mqConsumer *rmqconsumer.Consumer
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsDev() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func NewApp(ctx context.Context) (*App, error) {
	// config
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("error loading .env file: %v", err)
	}
	cfg := config.Load()

	// logger
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}

	// secrets
	if err = resolveSecrets(ctx, logger, &cfg); err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.App.FrontendURL))
	r.Use(middleware.RequestLogGin(logger, mCounter))

	// httpServer
	httpSrv := &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		return nil, fmt.Errorf("DB config error: %w", err)
	}
	dbPool, err := postgres.New(ctx, logger, dbDsn)
	if err != nil {
		return nil, err
	}
	if err = postgres.Migrate(ctx, logger, dbPool); err != nil {
		dbPool.Close()
		return nil, err
	}

	// blob storage
	blobs, err := storage.NewLocal(cfg.Storage.UploadFolder)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	// token encryption
	enc, err := newEncryptor(ctx, cfg)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	app := &App{
		logger:   logger,
		cfg:      cfg,
		db:       dbPool,
		blobs:    blobs,
		enc:      enc,
		httpSrv:  httpSrv,
		router:   r,
		mCounter: mCounter,
		drive:    google.NewInstrumentedDrive(google.NewDrive(), metrics.NewDriveLatency()),
		events:   mq.Noop{},
	}

	// rabbitMQ
	if !cfg.MQEnabled() {
		logger.Info("rabbitmq not configured, audit events disabled")
		return app, nil
	}
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("RabbitMQ config error: %w", err)
	}
	rbMQ := mq.New(cfg.MQ, logger, mCounter)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to rabbitMQ: %w", err)
	}
	app.mq = rbMQ
	if err = rbMQ.Init(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed init rabbitMQ: %w", err)
	}
	// rmqConsumer
	rmqConsumer := rmqconsumer.New(cfg.MQ, logger, rbMQ.GetConn())
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect rabbitMQ consumer: %w", err)
	}
	if err = rmqConsumer.Init(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to init rabbitMQ consumer: %w", err)
	}
	app.events = rbMQ
	app.mqConsumer = rmqConsumer

	return app, nil
}

func secretTargets(cfg *config.Config) []secret.Target {
	return []secret.Target{
		{Param: secret.SecretKeyParam, Dst: &cfg.App.SecretKey},
		{Param: secret.GoogleClientSecretParam, Dst: &cfg.Google.ClientSecret},
	}
}

// resolveSecrets fills SECRET_KEY and GOOGLE_CLIENT_SECRET from SSM when
// SECRET_SOURCE=ssm. Values already present in the environment win.
func resolveSecrets(ctx context.Context, logger *zap.Logger, cfg *config.Config) error {
	if cfg.AWS.SecretSource != "ssm" {
		return nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	store := secret.NewStore(ssm.NewFromConfig(awsCfg), cfg.AWS.SSMPrefix)
	if err = store.Fill(ctx, secretTargets(cfg)...); err != nil {
		logger.Warn("secrets not resolved from ssm", zap.Error(err))
	}

	return nil
}

func newEncryptor(ctx context.Context, cfg config.Config) (crypto.Encryptor, error) {
	if cfg.AWS.TokenKMSKeyID == "" {
		return crypto.NewSecretBox(cfg.App.SecretKey)
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return crypto.NewKMSService(kms.NewFromConfig(awsCfg), cfg.AWS.TokenKMSKeyID), nil
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.mq != nil {
		_ = a.mq.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(ctx)
			return nil
		})
	}

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
		return err
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// repos
	userRepo := userDB.NewRepository(a.db)
	fileRepo := fileDB.NewRepository(a.db)
	sessionRepo := sessionDB.NewRepository(a.db)

	// google
	oauth := google.NewOAuth(a.cfg.Google.ClientID, a.cfg.Google.ClientSecret, a.cfg.Google.RedirectURI)

	// services
	jwtService := jwt.New(a.cfg.App.SecretKey)
	creds := services.NewCredentials(userRepo, a.enc, oauth, a.logger, a.mCounter)
	authService := services.NewAuthService(
		userRepo, sessionRepo, creds, oauth, a.drive, jwtService,
		a.cfg.Session.TTL, a.logger, a.mCounter,
	)
	accountService := services.NewAccountService(userRepo, a.blobs, a.events, a.logger, a.mCounter)
	driveService := services.NewDriveService(creds, a.drive, a.cfg.Google.ClientID, a.cfg.Google.APIKey)
	fileService := services.NewFileService(
		fileRepo, a.blobs, creds, a.drive, a.events,
		a.cfg.Storage.MaxImportBytes, a.logger, a.mCounter,
	)

	// controllers
	cookies := middleware.Cookies{
		Secure: !a.cfg.IsDev(),
		MaxAge: int(a.cfg.Session.TTL.Seconds()),
	}
	a.router.Use(middleware.SessionMiddleware(a.logger, authService))
	rest.NewAuthController(a.router, a.logger, authService, accountService, cookies, a.cfg.App.FrontendURL)
	rest.NewDriveController(a.router, a.logger, driveService, authService, cookies)
	rest.NewFileController(a.router, a.logger, fileService, authService, cookies)

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "healthy"}) })
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))

	// spa
	rest.RegisterSPA(a.router, a.cfg.App.StaticDir)
}

func (a *App) Logger() *zap.Logger { return a.logger }
