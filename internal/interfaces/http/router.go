package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appanalytics "github.com/jhoicas/brownson-api/internal/application/analytics"
	"github.com/jhoicas/brownson-api/internal/application/auth"
	"github.com/jhoicas/brownson-api/internal/application/chatbot"
	"github.com/jhoicas/brownson-api/internal/application/ordering"
	"github.com/jhoicas/brownson-api/internal/application/usecase"
	"github.com/jhoicas/brownson-api/internal/domain"
	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/pkg/logger"
)

// maxBodyBytes límite del cuerpo (varias imágenes por formulario).
const maxBodyBytes = 20 << 20

// AppConfig opciones de la aplicación Fiber.
type AppConfig struct {
	Name     string
	Log      *logger.Logger
	Observer HTTPObserver
}

// NewApp crea la aplicación Fiber con el manejador de errores, recover y el logger de peticiones.
func NewApp(cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ErrorHandler: ErrorHandler(cfg.Log),
		BodyLimit:    maxBodyBytes,
		UnescapePath: true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(RequestLogger(cfg.Log, cfg.Observer))
	app.Use(recover.New())
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	ProductUC   *usecase.ProductUseCase
	CartUC      *usecase.CartUseCase
	OrderUC     *ordering.OrderUseCase
	ChatbotUC   *chatbot.UseCase
	PaymentUC   *usecase.PaymentUseCase
	DashboardUC *appanalytics.DashboardUseCase
	Cookie      SessionCookie
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authRequired := AuthMiddleware(deps.AuthUC, deps.Cookie.Name)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie)
	userHandler := NewUserHandler(deps.UserUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/signin", authHandler.Signin)
	authGroup.Get("/logout", authHandler.Logout)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password/:token", authHandler.ResetPassword)

	// Perfil (dueño o admin)
	authGroup.Get("/user/:email", authRequired, userHandler.GetProfile)
	authGroup.Put("/user/update/:email", authRequired, userHandler.UpdateProfile)

	// Administración de usuarios
	adminUsers := authGroup.Group("/admin", authRequired, adminOnly)
	adminUsers.Get("/users", userHandler.List)
	adminUsers.Delete("/user/:id", userHandler.Delete)
	adminUsers.Put("/user/role/:email", userHandler.UpdateRole)

	// Catálogo
	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/product")
	products.Get("/products", productHandler.List)
	products.Get("/product/:id", productHandler.GetByID)
	products.Get("/reviews/:id", productHandler.ListReviews)
	products.Post("/review", authRequired, RequireRole(entity.RoleUser), productHandler.UpsertReview)
	products.Delete("/review", authRequired, adminOnly, productHandler.DeleteReview)

	adminProducts := products.Group("/admin", authRequired, adminOnly)
	adminProducts.Post("/product/new", productHandler.Create)
	adminProducts.Get("/products", productHandler.List)
	adminProducts.Put("/product/:id", productHandler.Update)
	adminProducts.Delete("/product/:id", productHandler.Delete)
	adminProducts.Get("/reviews", productHandler.ListAllReviews)

	// Carrito (protegido)
	cartHandler := NewCartHandler(deps.CartUC)
	cart := api.Group("/cart", authRequired)
	cart.Post("/add", cartHandler.Add)
	cart.Get("/", cartHandler.Get)
	cart.Delete("/remove/:productId", cartHandler.Remove)
	cart.Delete("/clear", cartHandler.Clear)

	// Pedidos (protegido; las rutas fijas van antes de /:id)
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders := api.Group("/order", authRequired)
	orders.Post("/create", orderHandler.Create)
	orders.Get("/my-orders", orderHandler.MyOrders)
	orders.Get("/admin/orders", adminOnly, orderHandler.AdminList)
	orders.Get("/admin/order/:id", adminOnly, orderHandler.AdminGet)
	orders.Delete("/admin/order/:id", adminOnly, orderHandler.Delete)
	orders.Put("/:orderId/status", adminOnly, orderHandler.UpdateStatus)
	orders.Get("/:id/receipt", orderHandler.Receipt)
	orders.Get("/:id", orderHandler.GetByID)

	// Chatbot (identidad opcional)
	chatHandler := NewChatbotHandler(deps.ChatbotUC, deps.Log)
	api.Post("/chatbot/message", OptionalAuth(deps.AuthUC, deps.Cookie.Name), chatHandler.Message)

	// Pagos (protegido)
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	api.Post("/payment/create-payment-intent", authRequired, paymentHandler.CreateIntent)

	// Dashboard (admin)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/admin/dashboard/summary", authRequired, adminOnly, dashboardHandler.GetSummary)

	api.All("/*", func(c *fiber.Ctx) error {
		return domain.Errorf(domain.ErrNotFound, MsgRouteNotFound)
	})
}
