package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"basket/config"
	apimiddleware "basket/internal/delivery/api/middleware"
	"basket/internal/delivery/api/router"
	"basket/internal/delivery/api/router/handler"
	"basket/internal/domain/entity"
	"basket/internal/infra/auth"
	"basket/internal/infra/lock"
	"basket/internal/infra/persistence/memory"
	"basket/internal/infra/pubsub"
	"basket/internal/infra/qrcode"
	"basket/internal/infra/system"
	"basket/internal/usecase"
	"basket/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

type testAPI struct {
	t     *testing.T
	echo  *echo.Echo
	users usecase.UserUsecase
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := &config.Config{
		Auth:     &config.AuthConfig{BcryptCost: 4},
		Checkout: &config.CheckoutConfig{FreeDeliveryThreshold: 500, DeliveryFee: 50, DefaultCountry: "India"},
		Cart:     &config.CartConfig{MaxLineQuantity: 100},
	}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	txManager := memory.NewTransactionManager(store)
	userRepo := memory.NewUserRepository(store)
	addressRepo := memory.NewAddressRepository(store)
	categoryRepo := memory.NewCategoryRepository(store)
	productRepo := memory.NewProductRepository(store)
	cartRepo := memory.NewCartRepository(store)
	promoRepo := memory.NewPromotionRepository(store)
	orderRepo := memory.NewOrderRepository(store)
	clock := system.NewClock()
	ids := system.NewIDGenerator()
	locker := lock.NewMemoryLocker(2 * time.Second)

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	users := impl.NewUserService(impl.UserServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		Hasher:       auth.NewBcryptHasher(cfg),
		TokenService: tokens,
		Clock:        clock,
		IDs:          ids,
		Logger:       logger,
	})
	addresses := impl.NewAddressService(impl.AddressServiceParams{
		TxManager:   txManager,
		AddressRepo: addressRepo,
		Clock:       clock,
		IDs:         ids,
		Config:      cfg,
		Logger:      logger,
	})
	categories := impl.NewCategoryService(impl.CategoryServiceParams{
		CategoryRepo: categoryRepo,
		Clock:        clock,
		IDs:          ids,
		Logger:       logger,
	})
	products := impl.NewProductService(impl.ProductServiceParams{
		ProductRepo:  productRepo,
		CategoryRepo: categoryRepo,
		Clock:        clock,
		IDs:          ids,
		Logger:       logger,
	})
	carts := impl.NewCartService(impl.CartServiceParams{
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
		Locker:      locker,
		Clock:       clock,
		IDs:         ids,
		Config:      cfg,
		Logger:      logger,
	})
	promotions := impl.NewPromotionService(impl.PromotionServiceParams{
		PromotionRepo: promoRepo,
		CartRepo:      cartRepo,
		ProductRepo:   productRepo,
		Clock:         clock,
		IDs:           ids,
		Logger:        logger,
	})
	orders := impl.NewOrderService(impl.OrderServiceParams{
		TxManager:     txManager,
		CartRepo:      cartRepo,
		ProductRepo:   productRepo,
		PromotionRepo: promoRepo,
		OrderRepo:     orderRepo,
		AddressRepo:   addressRepo,
		Locker:        locker,
		Publisher:     pubsub.NewNoopPublisher(logger),
		QRService:     qrcode.NewQRCodeService(128, "M"),
		Clock:         clock,
		IDs:           ids,
		Config:        cfg,
		Logger:        logger,
	})

	e := NewEcho(cfg, logger, router.RouterParams{
		AuthHandler:      handler.NewAuthHandler(users),
		AddressHandler:   handler.NewAddressHandler(addresses),
		CategoryHandler:  handler.NewCategoryHandler(categories),
		ProductHandler:   handler.NewProductHandler(products, clock),
		CartHandler:      handler.NewCartHandler(carts),
		PromotionHandler: handler.NewPromotionHandler(promotions),
		OrderHandler:     handler.NewOrderHandler(orders),
		UserHandler:      handler.NewUserHandler(users),
		AuthMiddleware:   apimiddleware.NewAuthMiddleware(tokens),
	})

	return &testAPI{t: t, echo: e, users: users}
}

func (a *testAPI) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get(echo.HeaderContentType) == echo.MIMEApplicationJSON || bytes.HasPrefix(rec.Body.Bytes(), []byte("{")) {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}

	return rec, env
}

func (a *testAPI) login(email, password string) string {
	a.t.Helper()

	rec, env := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &out))

	return out.AccessToken
}

func (a *testAPI) adminToken() string {
	a.t.Helper()

	_, err := a.users.CreateStaff(context.Background(), usecase.CreateStaffInput{
		Name: "Admin", Email: "admin@example.com", Password: "Password123!", Role: entity.RoleAdmin,
	})
	require.NoError(a.t, err)

	return a.login("admin@example.com", "Password123!")
}

func (a *testAPI) customerToken() string {
	a.t.Helper()

	rec, _ := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "Asha", "email": "asha@example.com", "password": "Password123!",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	return a.login("asha@example.com", "Password123!")
}

func uuidString() string {
	return uuid.NewString()
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))

	return out
}

func TestAPI_CheckoutFlow(t *testing.T) {
	api := newTestAPI(t)
	admin := api.adminToken()
	customer := api.customerToken()

	rec, env := api.do(http.MethodPost, "/api/v1/admin/products", admin, map[string]any{
		"name":                  "Basmati Rice",
		"base_price":            "100.00",
		"stock":                 10,
		"is_available":          true,
		"is_promotion_eligible": true,
		"discount":              map[string]any{"kind": "percentage", "value": 20},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[map[string]any](t, env)
	productID := product["id"].(string)
	assert.Equal(t, "80.00", product["discounted_price"])

	rec, env = api.do(http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[[]map[string]any](t, env)
	require.Len(t, listed, 1)
	assert.Equal(t, true, listed[0]["has_discount"])

	rec, env = api.do(http.MethodPost, "/api/v1/cart/lines", customer, map[string]any{"product_id": productID, "quantity": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cart := decode[map[string]any](t, env)
	assert.Equal(t, "160.00", cart["total"])

	rec, env = api.do(http.MethodPost, "/api/v1/orders", customer, map[string]any{
		"payment_method": "cod",
		"delivery_address": map[string]string{
			"street": "12 MG Road", "city": "Pune", "state": "MH", "postal_code": "411001",
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[map[string]any](t, env)
	assert.Equal(t, "160.00", order["subtotal"])
	assert.Equal(t, "50.00", order["delivery_fee"])
	assert.Equal(t, "210.00", order["total"])
	assert.Equal(t, "placed", order["status"])
	orderID := order["id"].(string)

	rec, env = api.do(http.MethodGet, "/api/v1/cart", customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[map[string]any](t, env)["lines"])

	rec, env = api.do(http.MethodGet, "/api/v1/orders", customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, env), 1)

	rec, _ = api.do(http.MethodGet, "/api/v1/orders/"+orderID+"/qr", customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))

	rec, env = api.do(http.MethodPut, "/api/v1/admin/orders/"+orderID+"/status", admin, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "confirmed", decode[map[string]any](t, env)["status"])

	rec, env = api.do(http.MethodPut, "/api/v1/admin/orders/"+orderID+"/status", admin, map[string]string{"status": "placed"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", env.Error.Code)
}

func TestAPI_CategoryVisibility(t *testing.T) {
	api := newTestAPI(t)
	admin := api.adminToken()

	rec, env := api.do(http.MethodPost, "/api/v1/admin/categories", admin, map[string]string{
		"name": "Dairy", "image": "https://cdn.example.com/dairy.png",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	categoryID := decode[map[string]any](t, env)["id"].(string)

	rec, env = api.do(http.MethodPost, "/api/v1/admin/categories", admin, map[string]string{
		"name": "Dairy", "image": "https://cdn.example.com/other.png",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CATEGORY_EXISTS", env.Error.Code)

	rec, env = api.do(http.MethodPost, "/api/v1/admin/products", admin, map[string]any{
		"name": "Paneer", "category_id": uuidString(), "base_price": "90.00", "stock": 5, "is_available": true,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "CATEGORY_NOT_FOUND", env.Error.Code)

	rec, _ = api.do(http.MethodPost, "/api/v1/admin/products", admin, map[string]any{
		"name": "Paneer", "category_id": categoryID, "base_price": "90.00", "stock": 5, "is_available": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env = api.do(http.MethodGet, "/api/v1/products?category_id="+categoryID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[[]map[string]any](t, env)
	require.Len(t, listed, 1)
	assert.Equal(t, categoryID, listed[0]["category_id"])

	rec, _ = api.do(http.MethodPut, "/api/v1/admin/categories/"+categoryID+"/active", admin, map[string]bool{"enabled": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = api.do(http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, env))

	rec, env = api.do(http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, env))

	rec, env = api.do(http.MethodGet, "/api/v1/admin/categories", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[[]map[string]any](t, env)
	require.Len(t, all, 1)
	assert.Equal(t, false, all[0]["is_active"])

	rec, env = api.do(http.MethodGet, "/api/v1/admin/products", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, env), 1)

	rec, env = api.do(http.MethodGet, "/api/v1/products?category_id=dairy", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestAPI_AddressUpdate(t *testing.T) {
	api := newTestAPI(t)
	customer := api.customerToken()

	rec, env := api.do(http.MethodPost, "/api/v1/me/addresses", customer, map[string]any{
		"label": "home", "street": "12 MG Road", "city": "Pune", "state": "MH", "postal_code": "411001",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	addressID := decode[map[string]any](t, env)["id"].(string)

	rec, env = api.do(http.MethodPut, "/api/v1/me/addresses/"+addressID, customer, map[string]any{"city": "Mumbai", "postal_code": "400001"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[map[string]any](t, env)
	assert.Equal(t, "Mumbai", updated["city"])
	assert.Equal(t, "12 MG Road", updated["street"])

	rec, env = api.do(http.MethodPut, "/api/v1/me/addresses/"+uuidString(), customer, map[string]any{"city": "Mumbai"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ADDRESS_NOT_FOUND", env.Error.Code)
}

func TestAPI_ErrorResponses(t *testing.T) {
	api := newTestAPI(t)
	customer := api.customerToken()

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing token",
			method:     http.MethodGet,
			path:       "/api/v1/cart",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "MISSING_TOKEN",
		},
		{
			name:       "garbage token",
			method:     http.MethodGet,
			path:       "/api/v1/cart",
			token:      "not-a-jwt",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_TOKEN",
		},
		{
			name:       "customer on admin route",
			method:     http.MethodGet,
			path:       "/api/v1/admin/orders",
			token:      customer,
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "unknown product",
			method:     http.MethodPost,
			path:       "/api/v1/cart/lines",
			token:      customer,
			body:       map[string]any{"product_id": "0190f2a4-0000-7000-8000-000000000001", "quantity": 1},
			wantStatus: http.StatusNotFound,
			wantCode:   "PRODUCT_NOT_FOUND",
		},
		{
			name:       "zero quantity",
			method:     http.MethodPost,
			path:       "/api/v1/cart/lines",
			token:      customer,
			body:       map[string]any{"product_id": "0190f2a4-0000-7000-8000-000000000001", "quantity": 0},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_QUANTITY",
		},
		{
			name:       "update quantity above line limit",
			method:     http.MethodPut,
			path:       "/api/v1/cart/lines/0190f2a4-0000-7000-8000-000000000002",
			token:      customer,
			body:       map[string]any{"quantity": 101},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_QUANTITY",
		},
		{
			name:       "empty cart checkout",
			method:     http.MethodPost,
			path:       "/api/v1/orders",
			token:      customer,
			body:       map[string]any{"payment_method": "upi", "delivery_address": map[string]string{"street": "1", "city": "Pune", "state": "MH", "postal_code": "411001"}},
			wantStatus: http.StatusConflict,
			wantCode:   "EMPTY_CART",
		},
		{
			name:       "bad line id",
			method:     http.MethodDelete,
			path:       "/api/v1/cart/lines/not-a-uuid",
			token:      customer,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "invalid registration",
			method:     http.MethodPost,
			path:       "/api/v1/auth/register",
			body:       map[string]string{"name": "X", "email": "not-an-email", "password": "Password123!"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "duplicate registration",
			method:     http.MethodPost,
			path:       "/api/v1/auth/register",
			body:       map[string]string{"name": "Asha", "email": "asha@example.com", "password": "Password123!"},
			wantStatus: http.StatusConflict,
			wantCode:   "USER_ALREADY_EXISTS",
		},
		{
			name:       "wrong password",
			method:     http.MethodPost,
			path:       "/api/v1/auth/login",
			body:       map[string]string{"email": "asha@example.com", "password": "Wrong123!"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_CREDENTIALS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := api.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			require.NotNil(t, env.Error)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.NotEmpty(t, env.Meta.RequestID)
		})
	}
}

func TestAPI_HealthAndRequestID(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	api.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-Id"))
	assert.Contains(t, rec.Body.String(), `"request_id":"req-123"`)
}
