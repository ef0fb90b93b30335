package kernel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shashiranjanraj/bookstore/app/models"
	"github.com/shashiranjanraj/bookstore/config"
	"github.com/shashiranjanraj/bookstore/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type app struct {
	t       *testing.T
	db      *gorm.DB
	kernel  *HTTPKernel
	handler http.Handler
	now     time.Time
}

func newApp(t *testing.T) *app {
	t.Helper()
	a := &app{t: t, db: testdb.Open(t), now: time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)}

	k, err := NewHTTPKernel(Options{
		DB:            a.db,
		Clock:         func() time.Time { return a.now },
		Auth:          config.AuthConfig{Secret: "kernel-test", TTL: time.Hour},
		Catalog:       config.CatalogConfig{BaseURL: "http://127.0.0.1:1/volumes"},
		LoanDurations: []int{2, 5, 14},
		RateLimit:     1000,
	})
	require.NoError(t, err)
	a.kernel, a.handler = k, k.Handler()
	return a
}

func (a *app) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func (a *app) register(email string) (string, uint) {
	a.t.Helper()
	rec, env := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Reader", "email": email, "password": "password123",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var out struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &out))
	return out.Token, out.User.ID
}

func (a *app) book(title string, stock int) uint {
	a.t.Helper()
	b := models.Book{Title: title, Price: 12.5, StockQuantity: stock}
	require.NoError(a.t, a.db.Create(&b).Error)
	return b.ID
}

func TestBorrowingJourney(t *testing.T) {
	a := newApp(t)
	token, _ := a.register("journey@example.com")
	dune := a.book("Dune", 2)

	rec, env := a.do(http.MethodPost, "/api/cart", token, map[string]interface{}{"book_id": dune, "quantity": 2, "is_borrowing": true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, body := range []interface{}{map[string]int{"duration": 3}, map[string]int{"duration": 0}, map[string]int{}} {
		rec, env = a.do(http.MethodPost, "/api/loans/checkout", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, env.Message, "invalid loan duration")
	}

	rec, env = a.do(http.MethodPost, "/api/loans/checkout", token, map[string]int{"duration": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var checkout map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &checkout))
	assert.Equal(t, float64(2), checkout["loan_count"])
	assert.Equal(t, "2025-05-12", checkout["due_date"])
	assert.Equal(t, "2025-05-10", checkout["borrow_date"])

	rec, _ = a.do(http.MethodPost, "/api/loans/checkout", token, map[string]int{"duration": 2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	a.now = a.now.AddDate(0, 0, 2)
	rec, env = a.do(http.MethodGet, "/api/loans/reminders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed struct {
		Reminders []struct {
			AlertType     string   `json:"alert_type"`
			DaysRemaining int      `json:"days_remaining"`
			Books         []string `json:"books"`
		} `json:"reminders"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	require.Len(t, feed.Reminders, 1)
	assert.Equal(t, "WARNING", feed.Reminders[0].AlertType)
	assert.Equal(t, []string{"Dune", "Dune"}, feed.Reminders[0].Books)

	rec, env = a.do(http.MethodGet, "/api/loans", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Loans []struct {
			LoanID uint `json:"loan_id"`
		} `json:"loans"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Loans, 2)

	path := fmt.Sprintf("/api/loans/return/%d", list.Loans[0].LoanID)
	rec, env = a.do(http.MethodPut, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var ret map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &ret))
	assert.Equal(t, "2025-05-12", ret["return_date"])
	assert.Equal(t, float64(0), ret["days_overdue"])

	rec, env = a.do(http.MethodPut, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "this book has already been returned", env.Message)

	rec, _ = a.do(http.MethodPut, "/api/loans/return/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var stock models.Book
	require.NoError(t, a.db.First(&stock, "book_id = ?", dune).Error)
	assert.Equal(t, 1, stock.StockQuantity)
}

func TestCheckoutInsufficientStockIsBadRequest(t *testing.T) {
	a := newApp(t)
	token, _ := a.register("short@example.com")
	emma := a.book("Emma", 1)

	rec, _ := a.do(http.MethodPost, "/api/cart", token, map[string]interface{}{"book_id": emma, "quantity": 3, "is_borrowing": true})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := a.do(http.MethodPost, "/api/loans/checkout", token, map[string]int{"duration": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, fmt.Sprintf("insufficient stock for book ID %d", emma), env.Message)
}

func TestAuthErrors(t *testing.T) {
	a := newApp(t)
	a.register("dup@example.com")

	rec, _ := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Again", "email": "dup@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "name")

	rec, _ = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "dup@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = a.do(http.MethodGet, "/api/loans", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = a.do(http.MethodGet, "/api/loans", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookCreationRequiresAdmin(t *testing.T) {
	a := newApp(t)
	customer, _ := a.register("customer@example.com")
	body := map[string]interface{}{"title": "Dune", "price": 9.5, "stock_quantity": 4}

	rec, _ := a.do(http.MethodPost, "/api/books", customer, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin, err := a.kernel.Issuer().Issue(1, models.RoleAdmin)
	require.NoError(t, err)
	rec, env := a.do(http.MethodPost, "/api/books", admin, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Book
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec, _ = a.do(http.MethodGet, fmt.Sprintf("/api/books/%d", created.ID), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = a.do(http.MethodGet, "/api/books/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = a.do(http.MethodGet, "/api/books/424242", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogWithoutKeyIsUnavailable(t *testing.T) {
	a := newApp(t)
	rec, _ := a.do(http.MethodGet, "/api/catalog/search?q=dune", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec, _ = a.do(http.MethodGet, "/api/catalog/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGraphQLActiveLoans(t *testing.T) {
	a := newApp(t)
	token, _ := a.register("graph@example.com")
	dune := a.book("Dune", 1)

	rec, _ := a.do(http.MethodPost, "/api/cart", token, map[string]interface{}{"book_id": dune, "is_borrowing": true})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = a.do(http.MethodPost, "/api/loans/checkout", token, map[string]int{"duration": 14})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = a.do(http.MethodPost, "/api/graphql", token, map[string]string{
		"query": "{ activeLoans { title due_date alert_type } reminders { books days_remaining } }",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Data struct {
			ActiveLoans []struct {
				Title     string `json:"title"`
				DueDate   string `json:"due_date"`
				AlertType string `json:"alert_type"`
			} `json:"activeLoans"`
			Reminders []struct {
				Books         []string `json:"books"`
				DaysRemaining int      `json:"days_remaining"`
			} `json:"reminders"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Empty(t, out.Errors)
	require.Len(t, out.Data.ActiveLoans, 1)
	assert.Equal(t, "Dune", out.Data.ActiveLoans[0].Title)
	assert.Equal(t, "2025-05-24", out.Data.ActiveLoans[0].DueDate)
	assert.Equal(t, "NORMAL", out.Data.ActiveLoans[0].AlertType)
	require.Len(t, out.Data.Reminders, 1)
	assert.Equal(t, 14, out.Data.Reminders[0].DaysRemaining)

	rec, _ = a.do(http.MethodPost, "/api/graphql", "", map[string]string{"query": "{ reminders { books } }"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthMetricsAndRoutes(t *testing.T) {
	a := newApp(t)

	rec, _ := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = a.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bookstore_http_requests_total")

	rec, _ = a.do(http.MethodGet, "/health", "", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	names := map[string]bool{}
	for _, r := range a.kernel.Routes() {
		names[r.Name] = true
	}
	for _, want := range []string{"loans.checkout", "loans.return", "loans.reminders", "cart.store", "catalog.advanced", "reviews.show", "graphql"} {
		assert.True(t, names[want], want)
	}
}
