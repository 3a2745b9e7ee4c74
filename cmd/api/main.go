package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	appanalytics "github.com/jhoicas/brownson-api/internal/application/analytics"
	"github.com/jhoicas/brownson-api/internal/application/auth"
	"github.com/jhoicas/brownson-api/internal/application/chatbot"
	"github.com/jhoicas/brownson-api/internal/application/ordering"
	"github.com/jhoicas/brownson-api/internal/application/usecase"
	infraai "github.com/jhoicas/brownson-api/internal/infrastructure/ai"
	inframetrics "github.com/jhoicas/brownson-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/brownson-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/brownson-api/internal/interfaces/http"
	"github.com/jhoicas/brownson-api/pkg/config"
	"github.com/jhoicas/brownson-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	// precios y totales como números JSON
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	repos, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer repos.close()

	files, staticRoot, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento de imágenes")
	}
	catalogCache, closeCache := openCache(ctx, cfg.Redis, log)
	defer closeCache()
	publisher, closePublisher := openPublisher(cfg.RabbitMQ, log)
	defer closePublisher()

	metrics := inframetrics.New("brownson")

	authUC := auth.NewAuthUseCase(repos.users, openMailer(cfg.Mail, log), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.App.FrontendURL, log.Component("auth"))
	userUC := usecase.NewUserUseCase(repos.users, files)
	productUC := usecase.NewProductUseCase(
		repos.products, repos.reviews, repos.tx, files,
		catalogCache, time.Duration(cfg.Redis.TTLSeconds)*time.Second, log.Component("catalog"),
	)
	cartUC := usecase.NewCartUseCase(repos.carts, repos.products)
	orderUC := ordering.NewOrderUseCase(
		repos.tx, repos.orders, publisher, metrics,
		infrapdf.NewReceiptGenerator("Brownson"), log,
	).WithCatalogCache(catalogCache)
	paymentUC := usecase.NewPaymentUseCase(openPaymentGateway(cfg.Stripe, log))
	dashboardUC := appanalytics.NewDashboardUseCase(repos.analytics)

	var chatOpts []chatbot.Option
	if cfg.LLM.ChatbotEnabled && cfg.LLM.APIKey != "" {
		chatOpts = append(chatOpts, chatbot.WithLLM(infraai.NewAnthropicService(cfg.LLM.APIKey, cfg.LLM.Model)))
		log.Info().Str("model", cfg.LLM.Model).Msg("chatbot con respaldo LLM")
	}
	chatbotUC, err := chatbot.NewUseCase(repos.products, repos.carts, repos.orders, log, chatOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar chatbot")
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:     cfg.App.Name,
		Log:      log.Component("http"),
		Observer: metrics,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.FrontendURL,
		AllowCredentials: true,
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Brownson API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	if staticRoot != "" {
		app.Static("/img", staticRoot)
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		ProductUC:   productUC,
		CartUC:      cartUC,
		OrderUC:     orderUC,
		ChatbotUC:   chatbotUC,
		PaymentUC:   paymentUC,
		DashboardUC: dashboardUC,
		Cookie: httpRouter.SessionCookie{
			Name:   cfg.JWT.CookieName,
			Secure: cfg.App.IsProduction(),
		},
		Log: log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
