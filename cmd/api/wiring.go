package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/brownson-api/internal/application/ordering"
	"github.com/jhoicas/brownson-api/internal/application/ports"
	"github.com/jhoicas/brownson-api/internal/application/usecase"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
	"github.com/jhoicas/brownson-api/internal/infrastructure/cache"
	"github.com/jhoicas/brownson-api/internal/infrastructure/mail"
	"github.com/jhoicas/brownson-api/internal/infrastructure/memory"
	"github.com/jhoicas/brownson-api/internal/infrastructure/messaging"
	"github.com/jhoicas/brownson-api/internal/infrastructure/payment"
	"github.com/jhoicas/brownson-api/internal/infrastructure/postgres"
	"github.com/jhoicas/brownson-api/internal/infrastructure/storage"
	"github.com/jhoicas/brownson-api/pkg/config"
	"github.com/jhoicas/brownson-api/pkg/logger"
)

// txRunner transacciones de pedidos y de reseñas.
type txRunner interface {
	ordering.TxRunner
	usecase.ReviewTxRunner
}

// stores repositorios del driver elegido (postgres o memoria).
type stores struct {
	users     repository.UserRepository
	products  repository.ProductRepository
	reviews   repository.ReviewRepository
	carts     repository.CartRepository
	orders    repository.OrderRepository
	analytics repository.AnalyticsRepository
	tx        txRunner
	close     func()
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.DB.Driver == "memory" {
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &stores{
			users:     memory.NewUserRepository(s),
			products:  memory.NewProductRepository(s),
			reviews:   memory.NewReviewRepository(s),
			carts:     memory.NewCartRepository(s),
			orders:    memory.NewOrderRepository(s),
			analytics: memory.NewAnalyticsRepository(s),
			tx:        memory.NewTxRunner(s),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("migraciones: %w", err)
	}
	for _, name := range applied {
		log.Info().Str("migration", name).Msg("migración aplicada")
	}
	return &stores{
		users:     postgres.NewUserRepository(pool),
		products:  postgres.NewProductRepository(pool),
		reviews:   postgres.NewReviewRepository(pool),
		carts:     postgres.NewCartRepository(pool),
		orders:    postgres.NewOrderRepository(pool),
		analytics: postgres.NewAnalyticsRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		close:     pool.Close,
	}, nil
}

// openStorage devuelve el almacenamiento de imágenes y, para disco local, el directorio a publicar en /img.
func openStorage(ctx context.Context, cfg config.StorageConfig) (ports.FileStorage, string, error) {
	if cfg.Driver == "s3" {
		disk, err := storage.NewS3Disk(ctx, cfg)
		if err != nil {
			return nil, "", err
		}
		return disk, "", nil
	}
	disk, err := storage.NewLocalDisk(cfg.UploadDir, "/img")
	if err != nil {
		return nil, "", err
	}
	return disk, disk.Root(), nil
}

// openCache conecta Redis si está configurado; ante fallo la app sigue sin caché.
func openCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (ports.Cache, func()) {
	if cfg.Addr == "" {
		return cache.NoopCache{}, func() {}
	}
	rdb, err := cache.Connect(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis no disponible, catálogo sin caché")
		return cache.NoopCache{}, func() {}
	}
	log.Info().Str("addr", cfg.Addr).Msg("caché Redis conectada")
	return cache.NewRedisCache(rdb, "brownson:"), func() { _ = rdb.Close() }
}

// openPublisher usa RabbitMQ si hay URL; si no, o si falla la conexión, los eventos van al log.
func openPublisher(cfg config.RabbitMQConfig, log *logger.Logger) (ports.EventPublisher, func()) {
	fallback := messaging.NewLogPublisher(log)
	if cfg.URL == "" {
		return fallback, func() {}
	}
	pub, err := messaging.NewRabbitMQPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ no disponible, eventos solo en log")
		return fallback, func() {}
	}
	log.Info().Str("exchange", cfg.Exchange).Msg("publicador RabbitMQ listo")
	return pub, func() { _ = pub.Close() }
}

func openMailer(cfg config.MailConfig, log *logger.Logger) ports.Mailer {
	if cfg.Host == "" {
		log.Warn().Msg("MAIL_HOST vacío: los correos se registran en el log")
		return mail.NewLogMailer(log)
	}
	return mail.NewSMTPMailer(cfg)
}

// openPaymentGateway nil (interfaz) cuando Stripe no está configurado.
func openPaymentGateway(cfg config.StripeConfig, log *logger.Logger) ports.PaymentGateway {
	if cfg.SecretKey == "" {
		log.Warn().Msg("STRIPE_SECRET_KEY vacío: pagos deshabilitados")
		return nil
	}
	return payment.NewStripeGateway(cfg.SecretKey)
}
