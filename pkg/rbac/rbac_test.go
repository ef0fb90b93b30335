package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/bookstore/pkg/middleware"
	"github.com/stretchr/testify/assert"
)

func TestHasRole(t *testing.T) {
	h := HasRole(RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	call := func(role string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/books", nil)
		if role != "" {
			req = req.WithContext(middleware.WithIdentity(req.Context(), 1, role))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, call(RoleAdmin))
	assert.Equal(t, http.StatusForbidden, call(RoleCustomer))
	assert.Equal(t, http.StatusForbidden, call(""))
}
