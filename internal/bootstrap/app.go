// internal/bootstrap/app.go

// Package bootstrap builds the storefront's object graph from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yahiawalid23/HEPTA/internal/assets"
	"github.com/yahiawalid23/HEPTA/internal/cache"
	"github.com/yahiawalid23/HEPTA/internal/config"
	"github.com/yahiawalid23/HEPTA/internal/database"
	"github.com/yahiawalid23/HEPTA/internal/events"
	"github.com/yahiawalid23/HEPTA/internal/i18n"
	"github.com/yahiawalid23/HEPTA/internal/models"
	"github.com/yahiawalid23/HEPTA/internal/objectstore"
	"github.com/yahiawalid23/HEPTA/internal/records"
	"github.com/yahiawalid23/HEPTA/internal/services"
	"github.com/yahiawalid23/HEPTA/internal/utils"
)

// App holds every long-lived component. Build it with New and release it
// with Close.
type App struct {
	Config *config.Config
	Logger *logrus.Logger

	// Blobs stores product images. Disk is set when it is a DiskStore so
	// the router can serve the files itself.
	Blobs objectstore.Store
	Disk  *objectstore.DiskStore

	Products *records.ProductStore
	Orders   *records.OrderStore

	Catalog  *services.CatalogService
	Ordering *services.OrderService
	Images   *services.ImageService
	Auth     *services.AuthService

	// Audit is nil when no database is configured.
	Audit *database.AuditRepository

	closers []func()
}

// NewLogger configures logrus: JSON in production, text elsewhere.
func NewLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// New wires the application. Optional backends (Postgres, Redis, Kafka)
// are used when configured; Redis and Kafka fall back with a warning when
// unreachable, the database does not.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		return nil, fmt.Errorf("failed to initialize i18n: %w", err)
	}
	utils.SetSessionSecret(cfg.Admin.SessionSecret)
	utils.SetExposeErrorDetails(!cfg.IsProduction())

	app := &App{Config: cfg, Logger: logger}

	// A nil remote makes the data directory the system of record.
	var remote objectstore.Store
	if cfg.RemoteStorageEnabled() {
		s3, err := objectstore.NewS3Store(objectstore.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			PublicURL:       cfg.Storage.PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create object store: %w", err)
		}
		remote = s3
		app.Blobs = s3
		logger.WithField("endpoint", cfg.Storage.Endpoint).Info("Using S3 object storage")
	} else {
		disk, err := objectstore.NewDiskStore(cfg.Storage.LocalRoot, cfg.Storage.LocalURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create disk store: %w", err)
		}
		app.Blobs = disk
		app.Disk = disk
		logger.WithField("root", disk.Root()).Warn("No remote storage configured, using local disk")
	}

	app.Products = records.NewProductStore(remote, cfg.Storage.FilesBucket, cfg.Storage.DataDir, logger)
	app.Orders = records.NewOrderStore(remote, cfg.Storage.FilesBucket, cfg.Storage.DataDir, logger)

	imageCache := app.newCache(ctx)
	publisher := app.newPublisher()

	if cfg.Database.Enabled() {
		db, err := app.openDatabase()
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Audit = database.NewAuditRepository(db)
	}

	resolver := assets.NewResolver(app.Blobs, cfg.Storage.ImagesBucket, cfg.Storage.ListLimit)
	app.Catalog = services.NewCatalogService(app.Products, logger)
	app.Ordering = services.NewOrderService(app.Orders, publisher, logger)
	app.Images = services.NewImageService(app.Blobs, cfg.Storage.ImagesBucket, resolver, imageCache,
		time.Duration(cfg.Redis.ImageCacheTTL)*time.Second, logger)
	creds := models.AdminCredentials{
		Username:     cfg.Admin.Username,
		Password:     cfg.Admin.Password,
		PasswordHash: cfg.Admin.PasswordHash,
	}
	app.Auth = services.NewAuthService(creds, time.Duration(cfg.Admin.SessionTTL)*time.Hour, logger)

	if !creds.Configured() {
		logger.Warn("ADMIN_USER / ADMIN_PASS not set, admin login is disabled")
	}
	return app, nil
}

func (a *App) newCache(ctx context.Context) cache.Cache {
	if a.Config.Redis.Addr == "" {
		return cache.NewMemoryCache()
	}
	rc, err := cache.NewRedisCache(ctx, a.Config.Redis.Addr, a.Config.Redis.Password, a.Config.Redis.DB, "storefront:")
	if err != nil {
		a.Logger.WithError(err).Warn("Redis unavailable, using in-memory image cache")
		return cache.NewMemoryCache()
	}
	a.closers = append(a.closers, func() { rc.Close() })
	return rc
}

func (a *App) newPublisher() events.Publisher {
	if len(a.Config.Kafka.Brokers) == 0 {
		return events.NopPublisher{}
	}
	kp, err := events.NewKafkaPublisher(a.Config.Kafka.Brokers, a.Config.Kafka.Topic, a.Logger)
	if err != nil {
		a.Logger.WithError(err).Warn("Kafka unavailable, order events are disabled")
		return events.NopPublisher{}
	}
	a.closers = append(a.closers, func() {
		if err := kp.Close(); err != nil {
			a.Logger.WithError(err).Error("Failed to close Kafka producer")
		}
	})
	return kp
}

func (a *App) openDatabase() (*gorm.DB, error) {
	db, err := database.Initialize(a.Config.Database, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.closers = append(a.closers, func() { database.Close(db, a.Logger) })

	if err := database.RunMigrations(db, a.Logger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// Close releases backends in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
