// Package controllers adapts the services to HTTP: decode, call, respond.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/bookstore/app/services"
	"github.com/shashiranjanraj/bookstore/pkg/bind"
	"github.com/shashiranjanraj/bookstore/pkg/logger"
	"github.com/shashiranjanraj/bookstore/pkg/middleware"
	"github.com/shashiranjanraj/bookstore/pkg/response"
)

var badRequest = []error{
	services.ErrInvalidDuration,
	services.ErrInvalidQuantity,
	services.ErrInvalidRating,
	services.ErrEmptyQuery,
	services.ErrEmptyBorrowCart,
	services.ErrAlreadyReturned,
	services.ErrLoanNotReturnable,
	services.ErrUnknownAuthor,
	services.ErrUnknownCategory,
}

var notFound = []error{
	services.ErrLoanNotFound,
	services.ErrBookNotFound,
	services.ErrCartItemNotFound,
	services.ErrCatalogNotFound,
}

// fail writes the HTTP form of a service error. Anything not recognised is
// logged and reported as a bare 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var stock *services.InsufficientStockError
	switch {
	case errors.As(err, &stock):
		response.BadRequest(w, stock.Error())
		return
	case errors.Is(err, services.ErrEmailTaken):
		response.Conflict(w, err.Error())
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, services.ErrCatalogUnconfigured), errors.Is(err, services.ErrCatalogUnavailable):
		logger.WithCtx(r.Context()).Warn("catalog unavailable", "error", err)
		response.Unavailable(w, "Book catalog is currently unavailable")
		return
	}

	for _, target := range badRequest {
		if errors.Is(err, target) {
			response.BadRequest(w, err.Error())
			return
		}
	}
	for _, target := range notFound {
		if errors.Is(err, target) {
			response.NotFound(w, target.Error())
			return
		}
	}

	logger.WithCtx(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
	response.Error(w, http.StatusInternalServerError, "Internal server error")
}

// decode binds the JSON body into dest. It returns false after writing a
// 400 or 422 response.
func decode(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	errs, err := bind.JSON(w, r, dest)
	if err != nil {
		response.BadRequest(w, err.Error())
		return false
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return false
	}
	return true
}

func currentUser(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
	}
	return id, ok
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	n, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || n == 0 {
		response.BadRequest(w, "Invalid "+name)
		return 0, false
	}
	return uint(n), true
}
