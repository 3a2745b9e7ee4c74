package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/brownson-api/internal/application/analytics"
	"github.com/jhoicas/brownson-api/internal/application/auth"
	"github.com/jhoicas/brownson-api/internal/application/chatbot"
	"github.com/jhoicas/brownson-api/internal/application/ordering"
	"github.com/jhoicas/brownson-api/internal/application/ports"
	"github.com/jhoicas/brownson-api/internal/application/usecase"
	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/infrastructure/cache"
	"github.com/jhoicas/brownson-api/internal/infrastructure/memory"
	"github.com/jhoicas/brownson-api/internal/infrastructure/pdf"
	"github.com/jhoicas/brownson-api/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/brownson-api/internal/interfaces/http"
	"github.com/jhoicas/brownson-api/pkg/logger"
)

func TestMain(m *testing.M) {
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba completo sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

type captureMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *captureMailer) Send(_ context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, html)
	return nil
}

func (m *captureMailer) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1]
}

type capturePublisher struct {
	mu     sync.Mutex
	events []ports.OrderEvent
}

func (p *capturePublisher) Publish(_ context.Context, ev ports.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type testServer struct {
	app       *fiber.App
	users     *memory.UserRepo
	products  *memory.ProductRepo
	mailer    *captureMailer
	publisher *capturePublisher
	admin     *entity.User
	adminTok  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.Nop()
	store := memory.NewStore()
	ts := &testServer{
		users:     memory.NewUserRepository(store),
		products:  memory.NewProductRepository(store),
		mailer:    &captureMailer{},
		publisher: &capturePublisher{},
	}
	reviews := memory.NewReviewRepository(store)
	carts := memory.NewCartRepository(store)
	orders := memory.NewOrderRepository(store)
	tx := memory.NewTxRunner(store)

	disk, err := storage.NewLocalDisk(t.TempDir(), "/img")
	require.NoError(t, err)

	authUC := auth.NewAuthUseCase(ts.users, ts.mailer,
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
		"http://localhost:5173", log)
	chatUC, err := chatbot.NewUseCase(ts.products, carts, orders, log, chatbot.WithPicker(func(int) int { return 0 }))
	require.NoError(t, err)

	ts.app = apphttp.NewApp(apphttp.AppConfig{Name: "brownson-test", Log: log})
	apphttp.Router(ts.app, apphttp.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(ts.users, disk),
		ProductUC:   usecase.NewProductUseCase(ts.products, reviews, tx, disk, cache.NoopCache{}, time.Minute, log),
		CartUC:      usecase.NewCartUseCase(carts, ts.products),
		OrderUC:     ordering.NewOrderUseCase(tx, orders, ts.publisher, nil, pdf.NewReceiptGenerator("Brownson"), log),
		ChatbotUC:   chatUC,
		PaymentUC:   usecase.NewPaymentUseCase(nil),
		DashboardUC: appanalytics.NewDashboardUseCase(memory.NewAnalyticsRepository(store)),
		Cookie:      apphttp.SessionCookie{Name: "jwt"},
		Log:         log,
	})

	ts.admin = seedUser(t, ts.users, "admin@brownson.test", entity.RoleAdmin)
	ts.adminTok = tokenFor(t, ts.admin)
	return ts
}

func (ts *testServer) seedProduct(t *testing.T, name string, category entity.Category, price string, stock int) *entity.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Price:       decimal.RequireFromString(price),
		Description: name + " description",
		Category:    category,
		Seller:      "Brownson",
		Stock:       stock,
		Quantity:    entity.Quantity{Value: decimal.NewFromInt(100), Unit: entity.UnitG},
		Images:      []entity.ProductImage{{ID: uuid.New().String(), URL: "/img/product/" + name + ".jpg"}},
		Ratings:     decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, ts.products.Create(context.Background(), p))
	return p
}

// signup registra un cliente por la API y devuelve su token.
func (ts *testServer) signup(t *testing.T, email string) string {
	t.Helper()
	status, body := ts.do(t, http.MethodPost, "/api/auth/signup", map[string]any{
		"name": "Cliente", "email": email, "password": "pw123456",
	}, "")
	require.Equal(t, http.StatusCreated, status, "signup: %v", body)
	return body["token"].(string)
}

func (ts *testServer) do(t *testing.T, method, path string, payload any, token string) (int, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ts.send(t, req)
}

func (ts *testServer) send(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestE2E_SignupSigninYListarProductos(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodPost, "/api/auth/signup", map[string]any{
		"name": "A", "email": "a@x.com", "password": "pw123456",
	}, "")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Signup successful", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "password", "el hash nunca sale en la respuesta")

	status, body = ts.do(t, http.MethodPost, "/api/auth/signin", map[string]any{
		"email": "a@x.com", "password": "pw123456",
	}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Login successful", body["message"])
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	status, body = ts.do(t, http.MethodGet, "/api/product/products", nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.IsType(t, []any{}, body["products"], "products debe ser un arreglo aunque esté vacío")
}

func TestE2E_SignupEmailDuplicado_Retorna400(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "dup@x.com")

	status, body := ts.do(t, http.MethodPost, "/api/auth/signup", map[string]any{
		"name": "Otro", "email": "DUP@x.com", "password": "pw123456",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email already registered", body["message"])
}

func TestE2E_SignupValidaciones(t *testing.T) {
	ts := newTestServer(t)
	cases := []struct {
		name    string
		payload map[string]any
		msg     string
	}{
		{"faltan campos", map[string]any{"email": "x@x.com"}, "Please enter all required fields"},
		{"email inválido", map[string]any{"name": "n", "email": "no-es-email", "password": "pw123456"}, "Invalid email format"},
		{"password corta", map[string]any{"name": "n", "email": "c@x.com", "password": "123"}, "Password must be at least 8 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := ts.do(t, http.MethodPost, "/api/auth/signup", tc.payload, "")
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tc.msg, body["message"])
		})
	}
}

func TestE2E_SigninCredencialesInvalidas_MismoMensaje(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "b@x.com")

	s1, b1 := ts.do(t, http.MethodPost, "/api/auth/signin", map[string]any{"email": "b@x.com", "password": "incorrecta"}, "")
	s2, b2 := ts.do(t, http.MethodPost, "/api/auth/signin", map[string]any{"email": "nadie@x.com", "password": "pw123456"}, "")

	assert.Equal(t, http.StatusUnauthorized, s1)
	assert.Equal(t, http.StatusUnauthorized, s2)
	assert.Equal(t, "Invalid credentials", b1["message"])
	assert.Equal(t, b1["message"], b2["message"], "email desconocido y password incorrecto son indistinguibles")
}

func TestE2E_SigninEscribeCookieYLogoutLaBorra(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "cookie@x.com")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin",
		strings.NewReader(`{"email":"cookie@x.com","password":"pw123456"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()

	var session *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == "jwt" {
			session = ck
		}
	}
	require.NotNil(t, session, "signin debe escribir la cookie jwt")
	assert.True(t, session.HttpOnly)
	assert.NotEmpty(t, session.Value)

	// la cookie sola autentica
	cartReq := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	cartReq.AddCookie(&http.Cookie{Name: "jwt", Value: session.Value})
	status, _ := ts.send(t, cartReq)
	assert.Equal(t, http.StatusOK, status)

	resp, err = ts.app.Test(httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	for _, ck := range resp.Cookies() {
		if ck.Name == "jwt" {
			assert.Empty(t, ck.Value, "logout vacía la cookie")
		}
	}
}

func TestE2E_RecuperacionDeContrasena(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "olvido@x.com")

	status, body := ts.do(t, http.MethodPost, "/api/auth/forgot-password", map[string]any{"email": "nadie@x.com"}, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", body["message"])

	status, body = ts.do(t, http.MethodPost, "/api/auth/forgot-password", map[string]any{"email": "olvido@x.com"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Password reset link sent to your email", body["message"])

	m := regexp.MustCompile(`/reset-password/([A-Za-z0-9_\-\.]+)`).FindStringSubmatch(ts.mailer.last())
	require.Len(t, m, 2, "el correo debe incluir el enlace con el token")
	resetTok := m[1]

	status, body = ts.do(t, http.MethodPost, "/api/auth/reset-password/"+resetTok, map[string]any{"password": "nueva-clave-1"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Password reset successful", body["message"])

	status, _ = ts.do(t, http.MethodPost, "/api/auth/signin", map[string]any{"email": "olvido@x.com", "password": "nueva-clave-1"}, "")
	assert.Equal(t, http.StatusOK, status)

	// un token de sesión no sirve para restablecer
	session := ts.signup(t, "otro@x.com")
	status, body = ts.do(t, http.MethodPost, "/api/auth/reset-password/"+session, map[string]any{"password": "nueva-clave-2"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid password reset token", body["message"])
}

func TestE2E_PerfilSoloDuenoOAdmin(t *testing.T) {
	ts := newTestServer(t)
	tokA := ts.signup(t, "perfil-a@x.com")
	ts.signup(t, "perfil-b@x.com")

	status, body := ts.do(t, http.MethodGet, "/api/auth/user/perfil-a@x.com", nil, tokA)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "perfil-a@x.com", body["user"].(map[string]any)["email"])

	status, _ = ts.do(t, http.MethodGet, "/api/auth/user/perfil-b@x.com", nil, tokA)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = ts.do(t, http.MethodGet, "/api/auth/user/perfil-b@x.com", nil, ts.adminTok)
	assert.Equal(t, http.StatusOK, status)

	status, body = ts.do(t, http.MethodPut, "/api/auth/user/update/perfil-a@x.com", map[string]any{
		"name": "Nombre Nuevo", "address": "Calle 1",
	}, tokA)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User updated", body["message"])
	assert.Equal(t, "Nombre Nuevo", body["user"].(map[string]any)["name"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas y autorización
// ──────────────────────────────────────────────────────────────────────────────

func TestE2E_RutaInexistente_Retorna404(t *testing.T) {
	ts := newTestServer(t)
	status, body := ts.do(t, http.MethodGet, "/api/no-existe", nil, "")

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "API Route Not Found", body["message"])
}

func TestE2E_RutasAdmin_RequierenRolAdmin(t *testing.T) {
	ts := newTestServer(t)
	userTok := ts.signup(t, "cliente@x.com")
	id := uuid.New().String()

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/admin/users"},
		{http.MethodDelete, "/api/auth/admin/user/" + id},
		{http.MethodPut, "/api/auth/admin/user/role/cliente@x.com"},
		{http.MethodGet, "/api/product/admin/products"},
		{http.MethodPost, "/api/product/admin/product/new"},
		{http.MethodPut, "/api/product/admin/product/" + id},
		{http.MethodDelete, "/api/product/admin/product/" + id},
		{http.MethodGet, "/api/product/admin/reviews"},
		{http.MethodDelete, "/api/product/review?productId=" + id + "&id=" + id},
		{http.MethodGet, "/api/order/admin/orders"},
		{http.MethodGet, "/api/order/admin/order/" + id},
		{http.MethodDelete, "/api/order/admin/order/" + id},
		{http.MethodPut, "/api/order/" + id + "/status"},
		{http.MethodGet, "/api/admin/dashboard/summary"},
	}
	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			status, _ := ts.do(t, r.method, r.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, status, "sin identidad → 401")

			status, body := ts.do(t, r.method, r.path, nil, userTok)
			assert.Equal(t, http.StatusForbidden, status, "rol user → 403")
			assert.Equal(t, "Role (user) is not allowed to access this resource", body["message"])
		})
	}
}

func TestE2E_AdminGestionaUsuarios(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "promover@x.com")

	status, body := ts.do(t, http.MethodGet, "/api/auth/admin/users", nil, ts.adminTok)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["users"], 2)

	status, body = ts.do(t, http.MethodPut, "/api/auth/admin/user/role/promover@x.com", map[string]any{"role": "superuser"}, ts.adminTok)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = ts.do(t, http.MethodPut, "/api/auth/admin/user/role/promover@x.com", map[string]any{"role": "admin"}, ts.adminTok)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "admin", body["user"].(map[string]any)["role"])
	promotedID := body["user"].(map[string]any)["_id"].(string)

	status, _ = ts.do(t, http.MethodDelete, "/api/auth/admin/user/no-es-uuid", nil, ts.adminTok)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = ts.do(t, http.MethodDelete, "/api/auth/admin/user/"+uuid.New().String(), nil, ts.adminTok)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = ts.do(t, http.MethodDelete, "/api/auth/admin/user/"+promotedID, nil, ts.adminTok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User deleted", body["message"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func multipartProduct(t *testing.T, method, path string, fields map[string]string, images int) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for i := 0; i < images; i++ {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="images"; filename="foto.png"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG\r\n\x1a\nfake"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestE2E_AdminCreaEditaYBorraProducto(t *testing.T) {
	ts := newTestServer(t)

	req := multipartProduct(t, http.MethodPost, "/api/product/admin/product/new", map[string]string{
		"name": "Strawberry Jelly", "price": "250", "description": "Jelly", "category": "Jellies",
		"seller": "Brownson", "stock": "10", "quantity[value]": "100", "quantity[unit]": "g",
	}, 2)
	req.Header.Set("Authorization", "Bearer "+ts.adminTok)
	status, body := ts.send(t, req)
	require.Equal(t, http.StatusCreated, status, "%v", body)

	product := body["product"].(map[string]any)
	id := product["_id"].(string)
	images := product["images"].([]any)
	require.Len(t, images, 2)
	assert.True(t, strings.HasPrefix(images[0].(map[string]any)["image"].(string), "/img/product/"))
	assert.EqualValues(t, 250, product["price"])

	// edición: reemplaza imágenes
	req = multipartProduct(t, http.MethodPut, "/api/product/admin/product/"+id, map[string]string{
		"price": "300", "imagesCleared": "true",
	}, 1)
	req.Header.Set("Authorization", "Bearer "+ts.adminTok)
	status, body = ts.send(t, req)
	require.Equal(t, http.StatusOK, status, "%v", body)
	product = body["product"].(map[string]any)
	assert.EqualValues(t, 300, product["price"])
	assert.Len(t, product["images"], 1)
	assert.Equal(t, "Strawberry Jelly", product["name"], "los campos no enviados no cambian")

	status, body = ts.do(t, http.MethodDelete, "/api/product/admin/product/"+id, nil, ts.adminTok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Product deleted", body["message"])

	status, _ = ts.do(t, http.MethodGet, "/api/product/product/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestE2E_CrearProductoFormatoNoSoportado(t *testing.T) {
	ts := newTestServer(t)
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"name": "X", "price": "1", "description": "d", "category": "Jellies",
		"seller": "s", "stock": "1", "quantity[value]": "1", "quantity[unit]": "g",
	} {
		require.NoError(t, w.WriteField(k, v))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="images"; filename="doc.gif"`)
	h.Set("Content-Type", "image/gif")
	part, _ := w.CreatePart(h)
	_, _ = part.Write([]byte("GIF89a"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/product/admin/product/new", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ts.adminTok)
	status, body := ts.send(t, req)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Unsupported file format", body["message"])
}

func TestE2E_ProductoPorID_Errores(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/api/product/product/no-es-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid Product ID format", body["message"])

	status, body = ts.do(t, http.MethodGet, "/api/product/product/"+uuid.New().String(), nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Product not found", body["message"])
}

func TestE2E_ResenasActualizanPromedio(t *testing.T) {
	ts := newTestServer(t)
	p := ts.seedProduct(t, "Vanilla Custard", entity.CategoryCustards, "120", 5)
	tokA := ts.signup(t, "resena-a@x.com")
	tokB := ts.signup(t, "resena-b@x.com")

	status, body := ts.do(t, http.MethodPost, "/api/product/review", map[string]any{"productId": p.ID, "rating": 5, "comment": "Excelente"}, tokA)
	require.Equal(t, http.StatusOK, status, "%v", body)
	status, body = ts.do(t, http.MethodPost, "/api/product/review", map[string]any{"productId": p.ID, "rating": 4, "comment": "Bien"}, tokB)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 4.5, body["ratings"])
	assert.EqualValues(t, 2, body["numOfReviews"])

	// el mismo usuario reemplaza su reseña
	status, body = ts.do(t, http.MethodPost, "/api/product/review", map[string]any{"productId": p.ID, "rating": 3, "comment": "Regular"}, tokA)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["numOfReviews"])
	assert.EqualValues(t, 3.5, body["ratings"])

	// un admin no puede reseñar
	status, _ = ts.do(t, http.MethodPost, "/api/product/review", map[string]any{"productId": p.ID, "rating": 3, "comment": "x"}, ts.adminTok)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = ts.do(t, http.MethodGet, "/api/product/reviews/"+p.ID, nil, "")
	require.Equal(t, http.StatusOK, status)
	reviews := body["reviews"].([]any)
	require.Len(t, reviews, 2)
	reviewID := reviews[0].(map[string]any)["_id"].(string)

	status, body = ts.do(t, http.MethodGet, "/api/product/admin/reviews", nil, ts.adminTok)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Vanilla Custard", body["reviews"].([]any)[0].(map[string]any)["productName"])

	status, body = ts.do(t, http.MethodDelete, "/api/product/review?productId="+p.ID+"&id="+reviewID, nil, ts.adminTok)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["numOfReviews"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Carrito y pedidos
// ──────────────────────────────────────────────────────────────────────────────

func TestE2E_Carrito(t *testing.T) {
	ts := newTestServer(t)
	p := ts.seedProduct(t, "Mango Jelly", entity.CategoryJellies, "80", 20)
	tok := ts.signup(t, "carrito@x.com")

	status, body := ts.do(t, http.MethodPost, "/api/cart/add", map[string]any{"productId": p.ID, "quantity": 0}, tok)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Quantity must be a positive number.", body["message"])

	status, body = ts.do(t, http.MethodPost, "/api/cart/add", map[string]any{"productId": p.ID, "quantity": 2}, tok)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Product added to cart", body["message"])

	status, body = ts.do(t, http.MethodPost, "/api/cart/add", map[string]any{"productId": p.ID, "quantity": 5}, tok)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Product quantity updated in cart", body["message"])

	status, body = ts.do(t, http.MethodGet, "/api/cart", nil, tok)
	require.Equal(t, http.StatusOK, status)
	items := body["cart"].(map[string]any)["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.EqualValues(t, 5, item["quantity"], "la cantidad se sobrescribe, no se suma")
	assert.Equal(t, "Mango Jelly", item["product"].(map[string]any)["name"])

	status, _ = ts.do(t, http.MethodDelete, "/api/cart/remove/"+uuid.New().String(), nil, tok)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = ts.do(t, http.MethodDelete, "/api/cart/remove/"+p.ID, nil, tok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Product removed from cart successfully", body["message"])

	status, body = ts.do(t, http.MethodDelete, "/api/cart/clear", nil, tok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Cart cleared", body["message"])
}

func TestE2E_CicloDeVidaDelPedido(t *testing.T) {
	ts := newTestServer(t)
	p1 := ts.seedProduct(t, "Chocolate Essence", entity.CategoryFoodEssences, "150", 3)
	p2 := ts.seedProduct(t, "Baking Powder", entity.CategoryCakeIngredients, "40.50", 10)
	tok := ts.signup(t, "comprador@x.com")
	otherTok := ts.signup(t, "curioso@x.com")

	_, _ = ts.do(t, http.MethodPost, "/api/cart/add", map[string]any{"productId": p1.ID, "quantity": 1}, tok)

	status, body := ts.do(t, http.MethodPost, "/api/order/create", map[string]any{
		"products": []map[string]any{{"productId": p1.ID, "quantity": 5}},
	}, tok)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing shipping details", body["message"])

	status, body = ts.do(t, http.MethodPost, "/api/order/create", map[string]any{
		"products": []map[string]any{
			{"productId": p1.ID, "quantity": 5},
			{"productId": p2.ID, "quantity": 2},
		},
		"totalPrice":      1,
		"paymentStatus":   "cash_on_delivery",
		"username":        "Comprador",
		"deliveryAddress": "Calle 123",
		"contactNumber":   "0300-0000000",
	}, tok)
	require.Equal(t, http.StatusCreated, status, "%v", body)
	order := body["order"].(map[string]any)
	orderID := order["_id"].(string)
	assert.EqualValues(t, 831, order["totalPrice"], "el total se recalcula con el catálogo: 5*150 + 2*40.50")
	assert.Equal(t, "packing", order["orderStatus"])

	// stock con piso en 0 y carrito vaciado
	status, body = ts.do(t, http.MethodGet, "/api/product/product/"+p1.ID, nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["product"].(map[string]any)["stock"])
	_, body = ts.do(t, http.MethodGet, "/api/cart", nil, tok)
	assert.Empty(t, body["cart"].(map[string]any)["items"])

	status, body = ts.do(t, http.MethodGet, "/api/order/my-orders", nil, tok)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["orders"], 1)

	status, _ = ts.do(t, http.MethodGet, "/api/order/"+orderID, nil, tok)
	assert.Equal(t, http.StatusOK, status)

	status, body = ts.do(t, http.MethodGet, "/api/order/"+orderID, nil, otherTok)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Unauthorized access", body["message"])

	status, _ = ts.do(t, http.MethodGet, "/api/order/admin/order/"+orderID, nil, ts.adminTok)
	assert.Equal(t, http.StatusOK, status, "la ruta admin no comprueba el dueño")

	status, body = ts.do(t, http.MethodGet, "/api/order/admin/orders", nil, ts.adminTok)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 831, body["totalAmount"])

	status, _ = ts.do(t, http.MethodPut, "/api/order/"+orderID+"/status", map[string]any{"status": "lost"}, ts.adminTok)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = ts.do(t, http.MethodPut, "/api/order/"+orderID+"/status", map[string]any{"orderStatus": "shipping"}, ts.adminTok)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Order status updated", body["message"])
	assert.Equal(t, "shipping", body["order"].(map[string]any)["orderStatus"])

	// comprobante PDF solo para el dueño
	req := httptest.NewRequest(http.MethodGet, "/api/order/"+orderID+"/receipt", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	pdfBytes, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))

	status, _ = ts.do(t, http.MethodGet, "/api/order/"+orderID+"/receipt", nil, otherTok)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = ts.do(t, http.MethodDelete, "/api/order/admin/order/"+orderID, nil, ts.adminTok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Order deleted", body["message"])

	status, _ = ts.do(t, http.MethodDelete, "/api/order/admin/order/"+orderID, nil, ts.adminTok)
	assert.Equal(t, http.StatusNotFound, status)

	assert.Equal(t, []string{ports.EventOrderCreated, ports.EventOrderStatusChanged, ports.EventOrderDeleted}, ts.publisher.types())
}

func TestE2E_PedidoConProductoInexistente_NoTocaStock(t *testing.T) {
	ts := newTestServer(t)
	p := ts.seedProduct(t, "Red Color", entity.CategoryColorsFlavors, "30", 4)
	tok := ts.signup(t, "fantasma@x.com")

	status, body := ts.do(t, http.MethodPost, "/api/order/create", map[string]any{
		"products": []map[string]any{
			{"productId": p.ID, "quantity": 1},
			{"productId": uuid.New().String(), "quantity": 1},
		},
		"paymentStatus": "paid", "username": "F", "deliveryAddress": "D", "contactNumber": "C",
	}, tok)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Product not found", body["message"])

	_, body = ts.do(t, http.MethodGet, "/api/product/product/"+p.ID, nil, "")
	assert.EqualValues(t, 4, body["product"].(map[string]any)["stock"], "la transacción no deja efectos parciales")
}

// ──────────────────────────────────────────────────────────────────────────────
// Chatbot, pagos y dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestE2E_Chatbot(t *testing.T) {
	ts := newTestServer(t)
	p := ts.seedProduct(t, "Strawberry Jelly", entity.CategoryJellies, "250", 8)
	tok := ts.signup(t, "chat@x.com")

	status, body := ts.do(t, http.MethodPost, "/api/chatbot/message", map[string]any{"message": "What's in my cart?"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, chatbot.ReplyLoginRequired, body["reply"])

	_, _ = ts.do(t, http.MethodPost, "/api/cart/add", map[string]any{"productId": p.ID, "quantity": 2}, tok)
	status, body = ts.do(t, http.MethodPost, "/api/chatbot/message", map[string]any{"message": "What's in my cart?"}, tok)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "You have: Strawberry Jelly (x2) in your cart.", body["reply"])

	status, body = ts.do(t, http.MethodPost, "/api/chatbot/message", map[string]any{"message": "Do you have strawberry jelly?"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, `Yes, we have Strawberry Jelly in the "Jellies" category for Rs. 250.`, body["reply"])

	status, body = ts.do(t, http.MethodPost, "/api/chatbot/message", map[string]any{"message": "   "}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Message is required", body["message"])
}

func TestE2E_PagoSinPasarela_Retorna503(t *testing.T) {
	ts := newTestServer(t)
	tok := ts.signup(t, "pago@x.com")

	status, body := ts.do(t, http.MethodPost, "/api/payment/create-payment-intent", map[string]any{"amount": 0}, tok)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Amount is required", body["message"])

	status, _ = ts.do(t, http.MethodPost, "/api/payment/create-payment-intent", map[string]any{"amount": 1500}, tok)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, _ = ts.do(t, http.MethodPost, "/api/payment/create-payment-intent", map[string]any{"amount": 1500}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestE2E_DashboardResumen(t *testing.T) {
	ts := newTestServer(t)
	ts.seedProduct(t, "Agotado", entity.CategoryJellies, "10", 0)
	ts.seedProduct(t, "Disponible", entity.CategoryJellies, "10", 3)
	ts.signup(t, "dash@x.com")

	status, body := ts.do(t, http.MethodGet, "/api/admin/dashboard/summary", nil, ts.adminTok)
	require.Equal(t, http.StatusOK, status)
	summary := body["summary"].(map[string]any)
	assert.EqualValues(t, 2, summary["users"])
	assert.EqualValues(t, 2, summary["products"])
	assert.EqualValues(t, 1, summary["outOfStock"])
	assert.EqualValues(t, 0, summary["orders"])
	byStatus := summary["ordersByStatus"].(map[string]any)
	assert.Contains(t, byStatus, "packing")
	assert.Contains(t, byStatus, "handed over")
}
