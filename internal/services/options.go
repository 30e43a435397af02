package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-bind/internal/app/product/contracts"
	"github.com/light-bringer/procat-bind/internal/app/product/repo"
	"github.com/light-bringer/procat-bind/internal/app/product/usecases/archive_product"
	"github.com/light-bringer/procat-bind/internal/app/product/usecases/create_product"
	"github.com/light-bringer/procat-bind/internal/app/product/usecases/update_price"
	"github.com/light-bringer/procat-bind/internal/config"
	"github.com/light-bringer/procat-bind/internal/migrations"
	"github.com/light-bringer/procat-bind/internal/pkg/bind"
	"github.com/light-bringer/procat-bind/internal/pkg/clock"
	"github.com/light-bringer/procat-bind/internal/pkg/committer"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	Config  *config.Config
	Logger  *zap.Logger
	Factory *bind.Factory

	SpannerClient *spanner.Client
	PostgresPool  *pgxpool.Pool

	Products       contracts.ProductRepository
	CreateProduct  *create_product.Interactor
	UpdatePrice    *update_price.Interactor
	ArchiveProduct *archive_product.Interactor
}

// NewLogger builds a zap logger from configuration.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.LogDevelopment {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zcfg.Level = level

	return zcfg.Build()
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ServiceOptions, error) {
	f := bind.NewFactory(
		bind.WithSeparator(bind.ParamSeparator),
		bind.WithLogger(logger.Named("bind")),
	)
	clk := clock.NewRealClock()

	opts := &ServiceOptions{
		Config:  cfg,
		Logger:  logger,
		Factory: f,
	}

	var comm contracts.Committer
	switch cfg.Driver {
	case config.DriverSpanner:
		client, err := spanner.NewClient(ctx, cfg.SpannerDB)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spanner client: %w", err)
		}
		opts.SpannerClient = client
		if opts.Products, err = repo.NewProductRepo(client, f, clk); err != nil {
			client.Close()
			return nil, err
		}
		comm = committer.NewSpannerCommitter(client, f, logger.Named("committer"))

	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Postgres pool: %w", err)
		}
		opts.PostgresPool = pool
		if opts.Products, err = repo.NewPostgresProductRepo(pool, f, clk); err != nil {
			pool.Close()
			return nil, err
		}
		comm = committer.NewPostgresCommitter(pool, f, logger.Named("committer"))

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Driver)
	}

	opts.CreateProduct = create_product.NewInteractor(opts.Products, comm, clk, logger)
	opts.UpdatePrice = update_price.NewInteractor(opts.Products, comm, logger)
	opts.ArchiveProduct = archive_product.NewInteractor(opts.Products, comm, logger)

	return opts, nil
}

// Migrate applies the schema for the configured driver.
func (s *ServiceOptions) Migrate(ctx context.Context) error {
	if s.PostgresPool != nil {
		return migrations.ApplyPostgres(ctx, s.PostgresPool, s.Logger)
	}
	return migrations.ApplySpanner(ctx, s.Config.SpannerDB, s.Logger)
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
	if s.PostgresPool != nil {
		s.PostgresPool.Close()
	}
	_ = s.Logger.Sync()
}
