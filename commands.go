package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"skimr/api"
	"skimr/auth"
	"skimr/common"
	"skimr/config"
	"skimr/extractor"
	"skimr/gateway"
	"skimr/logging"
	"skimr/ratelimit"
	"skimr/shared/kafka"
	"skimr/storage"
	"skimr/summarizer"
	"skimr/summaryservice"
	"skimr/types"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

// loadConfig reads the config named by --config and installs the logger.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	logging.InitLogger(cfg.LogLevel)
	if logging.ParseLevel(cfg.LogLevel) > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	return cfg, nil
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.ValidateAPI(); err != nil {
		return err
	}

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	var publisher gateway.Publisher = gateway.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		if err != nil {
			return err
		}
		defer producer.Close()
		publisher = producer
		slog.Info("[Serve] publishing item events", "topic", cfg.Kafka.Topic)
	}

	limiter, err := newLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}
	defer limiter.Close()

	opts := extractor.Options{}
	if cfg.YouTube.APIKey != "" {
		provider, err := extractor.NewYouTubeProvider(c.Context, cfg.YouTube.APIKey)
		if err != nil {
			return err
		}
		opts.Videos = provider
	}

	router := api.NewRouter(api.Config{
		Store:       db,
		Verifier:    auth.NewVerifier(cfg.Auth.JWTSecret),
		Issuer:      auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Gateway:     gateway.New(summarizer.NewClient(cfg.Summarizer.URL, cfg.Summarizer.Timeout), db, publisher),
		Extractor:   extractor.New(opts),
		Limiter:     limiter,
		RateWindow:  cfg.RateLimit.Window,
		FrontendURL: cfg.FrontendURL,
	})

	slog.Info("[Serve] starting API server", "port", cfg.Port, "summarizer", cfg.Summarizer.URL, "database", db.Path())
	return runHTTP(":"+cfg.Port, router)
}

func newLimiter(cfg config.RateLimitConfig) (ratelimit.Limiter, error) {
	if cfg.RedisAddr == "" {
		return ratelimit.NewMemoryLimiter(cfg.Max, cfg.Window), nil
	}
	return ratelimit.NewRedisLimiter(ratelimit.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Max:      cfg.Max,
		Window:   cfg.Window,
	})
}

func summarizerAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.ValidateService(); err != nil {
		return err
	}
	backend, err := summaryservice.NewBackend(cfg.Service)
	if err != nil {
		return err
	}

	router := summaryservice.NewRouter(summaryservice.NewService(backend))
	slog.Info("[Summarizer] starting summary service", "port", cfg.Service.Port, "backend", backend.Name())
	return runHTTP(":"+cfg.Service.Port, router)
}

// runHTTP serves handler until SIGINT or SIGTERM, then shuts down gracefully.
func runHTTP(addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errCh:
		return err
	case <-sigChan:
	}

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

func archiveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if !cfg.ArchiveEnabled() {
		return errors.New("archive requires KAFKA_BROKERS and S3_BUCKET")
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	store, err := common.NewS3(ctx, common.S3Config{
		Region:       cfg.S3.Region,
		Profile:      cfg.S3.Profile,
		Endpoint:     cfg.S3.Endpoint,
		UsePathStyle: cfg.S3.UsePathStyle,
	})
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}
	archiver := common.NewArchiver(store, cfg.S3.Bucket, cfg.S3.Prefix)

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
		Oldest:  true,
		Handler: &kafka.TypedMessageHandler[types.ItemCreated]{
			Validate: func(e *types.ItemCreated) bool { return e.ItemID != "" && e.UserID != "" },
			Process:  archiver.Archive,
			// skip malformed events
			AlwaysMark: true,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	if err := consumer.Start(ctx); err != nil {
		return err
	}
	slog.Info("[Archive] consuming item events", "topic", cfg.Kafka.Topic, "bucket", cfg.S3.Bucket)

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigterm:
		slog.Info("[Archive] received termination signal")
	case <-consumer.Done():
		slog.Warn("[Archive] consumer stopped")
	}

	cancel()
	return consumer.Close()
}

func extractAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	pageURL := strings.TrimSpace(c.String("url"))

	var src extractor.Source = extractor.NewHTTPSource(pageURL, nil)
	if path := c.String("html-file"); path != "" {
		html, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if src, err = extractor.NewStaticSource(pageURL, string(html)); err != nil {
			return err
		}
	}

	opts := extractor.Options{}
	if cfg.YouTube.APIKey != "" {
		provider, err := extractor.NewYouTubeProvider(c.Context, cfg.YouTube.APIKey)
		if err != nil {
			return err
		}
		opts.Videos = provider
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	content, err := extractor.New(opts).Extract(c.Context, src)
	if err != nil {
		var extErr *extractor.ExtractionError
		if errors.As(err, &extErr) {
			_ = enc.Encode(extErr.Failure())
		}
		return err
	}
	return enc.Encode(content)
}

func tokenAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.ValidateAPI(); err != nil {
		return err
	}
	token, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).Issue(c.String("user"))
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
