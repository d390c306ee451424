package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/laka02/quickcart/internal/cart"
	"github.com/laka02/quickcart/internal/catalog"
	"github.com/laka02/quickcart/internal/domain"
	"github.com/laka02/quickcart/internal/events"
	"github.com/laka02/quickcart/internal/report"
	"github.com/laka02/quickcart/internal/repository"
	"github.com/laka02/quickcart/internal/service"
	"github.com/laka02/quickcart/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router      *mux.Router
	products    repository.ProductRepository
	authService service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := hclog.NewNullLogger()
	bus := events.NewEventBus[any]()
	validator := domain.NewValidation()

	blobs, err := storage.NewLocal(t.TempDir(), "/images", 1<<20)
	require.NoError(t, err)

	productRepo := repository.NewMemoryProductRepository()
	supplierRepo := repository.NewMemorySupplierRepository()
	userRepo := repository.NewMemoryUserRepository()

	ps := service.NewProductService(productRepo, blobs, bus, logger)
	ss := service.NewSupplierService(supplierRepo, productRepo, bus, logger)
	as := service.NewAuthService(userRepo, []byte("test-secret"), logger)

	renderer := report.NewPDFRenderer(logger)

	mw := NewMiddleware(logger, validator, as, nil)
	router := NewRouter(mw,
		NewProductHandler(ps, renderer, validator, logger),
		NewSupplierHandler(ss, renderer, logger),
		NewAuthHandler(as, validator, logger),
		NewCartHandler(cart.NewStore(), ps, logger),
		NewImageHandler(blobs, logger),
		http.NotFoundHandler(),
	)

	return &testServer{router: router, products: productRepo, authService: as}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) token(t *testing.T) string {
	t.Helper()
	_, token, err := s.authService.Register(context.Background(), domain.Credentials{
		Email: "owner@quickcart.example", Password: "hunter22",
	})
	require.NoError(t, err)
	return token
}

func (s *testServer) seed(t *testing.T, products ...*domain.Product) {
	t.Helper()
	for _, p := range products {
		require.NoError(t, s.products.Add(context.Background(), p))
	}
}

func productForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, form.WriteField(k, v))
	}
	require.NoError(t, form.Close())
	return &body, form.FormDataContentType()
}

func TestCatalogEndpoint(t *testing.T) {
	srv := newTestServer(t)
	srv.seed(t,
		&domain.Product{Name: "Basmati Rice", Price: 120, Stock: 40, Category: "Grains"},
		&domain.Product{Name: "Green Tea", Price: 250, Stock: 12, Category: "Beverages"},
		&domain.Product{Name: "Rice Flour", Price: 60, Stock: 30, Category: "Grains"},
	)

	t.Run("Filters and sorts via query parameters", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/catalog?name=rice&sort=price-asc", nil)
		rec := srv.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		var result catalog.Result
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
		require.Len(t, result.Page, 2)
		assert.Equal(t, "Rice Flour", result.Page[0].Name)
		assert.Equal(t, "Basmati Rice", result.Page[1].Name)
		assert.Equal(t, 2, result.TotalItems)
		assert.Equal(t, []string{"Beverages", "Grains"}, result.Categories)
	})

	t.Run("Invalid sort key is a validation failure", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/catalog?sort=rating-desc", nil)
		rec := srv.do(req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Unparseable number is a validation failure", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/catalog?price_min=abc", nil)
		rec := srv.do(req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestProductEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t)

	t.Run("Create requires a token", func(t *testing.T) {
		body, contentType := productForm(t, map[string]string{"name": "X", "price": "1", "stock": "1"})
		req := httptest.NewRequest("POST", "/api/products", body)
		req.Header.Set("Content-Type", contentType)
		rec := srv.do(req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	var created domain.Product
	t.Run("Create", func(t *testing.T) {
		body, contentType := productForm(t, map[string]string{
			"name":     "Basmati Rice",
			"price":    "120.5",
			"stock":    "40",
			"category": "Grains",
			"supplier": "Agro Ltd",
		})
		req := httptest.NewRequest("POST", "/api/products", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := srv.do(req)
		require.Equal(t, http.StatusCreated, rec.Code)

		require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, 120.5, created.Price)
	})

	t.Run("Create with an image file", func(t *testing.T) {
		var body bytes.Buffer
		form := multipart.NewWriter(&body)
		require.NoError(t, form.WriteField("name", "Green Tea"))
		require.NoError(t, form.WriteField("price", "250"))
		require.NoError(t, form.WriteField("stock", "12"))
		part, err := form.CreateFormFile("images", "tea.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
		require.NoError(t, form.Close())

		req := httptest.NewRequest("POST", "/api/products", &body)
		req.Header.Set("Content-Type", form.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		rec := srv.do(req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var got domain.Product
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		require.Len(t, got.Images, 1)
		assert.NotEmpty(t, got.Images[0].URL)
	})

	t.Run("Create without a name fails validation", func(t *testing.T) {
		body, contentType := productForm(t, map[string]string{"price": "1", "stock": "1"})
		req := httptest.NewRequest("POST", "/api/products", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := srv.do(req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Get by ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/products/"+created.ID, nil)
		rec := srv.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		var got domain.Product
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "Basmati Rice", got.Name)
	})

	t.Run("Total stock and stats routes are not shadowed by the ID route", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/products/total-stock", nil)
		rec := srv.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"totalStock":40`)

		req = httptest.NewRequest("GET", "/api/products/stats/inventory", nil)
		rec = srv.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		var summary domain.InventorySummary
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
		assert.Equal(t, 1, summary.TotalProducts)
		assert.Equal(t, 4820.0, summary.TotalValue)
	})

	t.Run("Update", func(t *testing.T) {
		body, contentType := productForm(t, map[string]string{
			"name": "Basmati Rice 5kg", "price": "560", "stock": "12",
		})
		req := httptest.NewRequest("PUT", "/api/products/"+created.ID, body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := srv.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		var got domain.Product
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, 12, got.Stock)
	})

	t.Run("Delete", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/products/"+created.ID, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := srv.do(req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		req = httptest.NewRequest("GET", "/api/products/"+created.ID, nil)
		rec = srv.do(req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestInventoryPDFEndpoint(t *testing.T) {
	srv := newTestServer(t)
	srv.seed(t, &domain.Product{Name: "Basmati Rice", Price: 120, Stock: 40, Category: "Grains"})

	req := httptest.NewRequest("GET", "/api/pdf/generate", nil)
	rec := srv.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestCartEndpoints(t *testing.T) {
	srv := newTestServer(t)
	tea := &domain.Product{Name: "Green Tea", Price: 250, Stock: 1, Category: "Beverages"}
	rice := &domain.Product{Name: "Basmati Rice", Price: 120, Stock: 5, Category: "Grains"}
	srv.seed(t, tea, rice)

	addItem := func(sessionID, productID string) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(map[string]string{"productId": productID})
		req := httptest.NewRequest("POST", "/api/cart/items", bytes.NewReader(payload))
		req.Header.Set(sessionHeader, sessionID)
		return srv.do(req)
	}

	t.Run("Missing session header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/cart", nil)
		rec := srv.do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Add and read back", func(t *testing.T) {
		rec := addItem("s1", rice.ID)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = addItem("s1", rice.ID)
		require.Equal(t, http.StatusOK, rec.Code)

		var view struct {
			ItemCount int    `json:"itemCount"`
			Total     string `json:"total"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
		assert.Equal(t, 2, view.ItemCount)
		assert.Equal(t, "240.00", view.Total)
	})

	t.Run("Stock limit yields conflict", func(t *testing.T) {
		rec := addItem("s1", tea.ID)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = addItem("s1", tea.ID)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Sessions are isolated", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/cart", nil)
		req.Header.Set(sessionHeader, "s2")
		rec := srv.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"itemCount":0`)
	})

	t.Run("Update quantity clamps to stock", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]int{"quantity": 99})
		req := httptest.NewRequest("PUT", "/api/cart/items/"+rice.ID, bytes.NewReader(payload))
		req.Header.Set(sessionHeader, "s1")
		rec := srv.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		var view struct {
			Items []cart.Line `json:"items"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
		require.NotEmpty(t, view.Items)
		assert.Equal(t, 5, view.Items[0].Quantity)
	})

	t.Run("Zero quantity yields conflict", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]int{"quantity": 0})
		req := httptest.NewRequest("PUT", "/api/cart/items/"+rice.ID, bytes.NewReader(payload))
		req.Header.Set(sessionHeader, "s1")
		rec := srv.do(req)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Clear", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/cart", nil)
		req.Header.Set(sessionHeader, "s1")
		rec := srv.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"itemCount":0`)
	})
}

func TestAuthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	register := func(email, password string) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
		req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader(payload))
		return srv.do(req)
	}

	t.Run("Register", func(t *testing.T) {
		rec := register("owner@quickcart.example", "hunter22")
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"token"`)
	})

	t.Run("Duplicate email conflicts", func(t *testing.T) {
		rec := register("owner@quickcart.example", "hunter22")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Short password fails validation", func(t *testing.T) {
		rec := register("second@quickcart.example", "abc")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Login and fetch the current user", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{
			"email": "owner@quickcart.example", "password": "hunter22",
		})
		req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(payload))
		rec := srv.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.NotEmpty(t, resp.Token)

		req = httptest.NewRequest("GET", "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+resp.Token)
		rec = srv.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "owner@quickcart.example")
	})

	t.Run("Wrong password is unauthorized", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{
			"email": "owner@quickcart.example", "password": "wrong-pass",
		})
		req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(payload))
		rec := srv.do(req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestPasswordRecoveryEndpoints(t *testing.T) {
	srv := newTestServer(t)

	payload, _ := json.Marshal(map[string]string{
		"email": "owner@quickcart.example", "password": "hunter22",
	})
	rec := srv.do(httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader(payload)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resetToken string
	t.Run("Forgot password issues a token", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{"email": "owner@quickcart.example"})
		req := httptest.NewRequest("POST", "/api/auth/forgot-password", bytes.NewReader(payload))
		rec := srv.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.NotEmpty(t, resp.Token)
		resetToken = resp.Token
	})

	t.Run("Unknown email gets the same answer without a token", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{"email": "nobody@quickcart.example"})
		req := httptest.NewRequest("POST", "/api/auth/forgot-password", bytes.NewReader(payload))
		rec := srv.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), `"token"`)
	})

	t.Run("Short new password fails validation", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{
			"token": resetToken, "newPassword": "abc",
		})
		req := httptest.NewRequest("POST", "/api/auth/reset-password", bytes.NewReader(payload))
		rec := srv.do(req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Reset token rotates the password", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{
			"token": resetToken, "newPassword": "swordfish",
		})
		req := httptest.NewRequest("POST", "/api/auth/reset-password", bytes.NewReader(payload))
		rec := srv.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		login, _ := json.Marshal(map[string]string{
			"email": "owner@quickcart.example", "password": "swordfish",
		})
		rec = srv.do(httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(login)))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Garbage reset token is a bad request", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{
			"token": "not-a-token", "newPassword": "swordfish2",
		})
		req := httptest.NewRequest("POST", "/api/auth/reset-password", bytes.NewReader(payload))
		rec := srv.do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Change password requires a token", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]string{
			"currentPassword": "swordfish", "newPassword": "hunter23",
		})
		req := httptest.NewRequest("POST", "/api/auth/change-password", bytes.NewReader(payload))
		rec := srv.do(req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Change password", func(t *testing.T) {
		login, _ := json.Marshal(map[string]string{
			"email": "owner@quickcart.example", "password": "swordfish",
		})
		rec := srv.do(httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(login)))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

		payload, _ := json.Marshal(map[string]string{
			"currentPassword": "wrong", "newPassword": "hunter23",
		})
		req := httptest.NewRequest("POST", "/api/auth/change-password", bytes.NewReader(payload))
		req.Header.Set("Authorization", "Bearer "+resp.Token)
		assert.Equal(t, http.StatusUnauthorized, srv.do(req).Code)

		payload, _ = json.Marshal(map[string]string{
			"currentPassword": "swordfish", "newPassword": "hunter23",
		})
		req = httptest.NewRequest("POST", "/api/auth/change-password", bytes.NewReader(payload))
		req.Header.Set("Authorization", "Bearer "+resp.Token)
		require.Equal(t, http.StatusOK, srv.do(req).Code)

		login, _ = json.Marshal(map[string]string{
			"email": "owner@quickcart.example", "password": "hunter23",
		})
		rec = srv.do(httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(login)))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSupplierEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t)

	rice := &domain.Product{Name: "Basmati Rice", Price: 120, Stock: 40}
	srv.seed(t, rice)

	var created domain.Supplier
	t.Run("Create", func(t *testing.T) {
		payload, _ := json.Marshal(domain.Supplier{
			Name:             "Agro Ltd",
			Email:            "sales@agro.example",
			ProductsSupplied: []string{rice.ID},
			IsActive:         true,
		})
		req := httptest.NewRequest("POST", "/api/suppliers", bytes.NewReader(payload))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := srv.do(req)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
		require.NotEmpty(t, created.ID)
	})

	t.Run("Create with a bad email fails validation", func(t *testing.T) {
		payload, _ := json.Marshal(domain.Supplier{Name: "X", Email: "nope"})
		req := httptest.NewRequest("POST", "/api/suppliers", bytes.NewReader(payload))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := srv.do(req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Purchase order for a carried product", func(t *testing.T) {
		payload, _ := json.Marshal(map[string]interface{}{
			"productId": rice.ID, "quantity": 10,
		})
		req := httptest.NewRequest("POST", "/api/suppliers/"+created.ID+"/purchase-orders", bytes.NewReader(payload))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := srv.do(req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var order domain.PurchaseOrder
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&order))
		assert.Equal(t, "pending", order.Status)
		assert.Equal(t, 10, order.Quantity)
	})

	t.Run("Purchase order for a foreign product is rejected", func(t *testing.T) {
		other := &domain.Product{Name: "Olive Oil", Price: 950, Stock: 8}
		srv.seed(t, other)

		payload, _ := json.Marshal(map[string]interface{}{
			"productId": other.ID, "quantity": 5,
		})
		req := httptest.NewRequest("POST", "/api/suppliers/"+created.ID+"/purchase-orders", bytes.NewReader(payload))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := srv.do(req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Suppliers PDF", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/suppliers/pdf/generate", nil)
		rec := srv.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	})
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestCloseUploadsReleasesFileHandles(t *testing.T) {
	tracked := &closeTracker{Reader: bytes.NewReader([]byte("img"))}
	closeUploads([]service.ImageUpload{
		{Contents: tracked, MimeType: "image/png"},
		{Contents: bytes.NewReader([]byte("img")), MimeType: "image/png"},
	})
	assert.True(t, tracked.closed)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(httptest.NewRequest("GET", "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(httptest.NewRequest("GET", "/api/health", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
