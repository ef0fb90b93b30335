package routes

import (
	"net/http"

	"github.com/shashiranjanraj/bookstore/app/controllers"
	"github.com/shashiranjanraj/bookstore/pkg/middleware"
	"github.com/shashiranjanraj/bookstore/pkg/rbac"
	"github.com/shashiranjanraj/bookstore/pkg/router"
)

// API holds everything the /api routes dispatch to.
type API struct {
	Auth     *controllers.AuthController
	Books    *controllers.BookController
	Cart     *controllers.CartController
	Loans    *controllers.LoanController
	Catalog  *controllers.CatalogController
	Reviews  *controllers.ReviewController
	GraphQL  http.HandlerFunc
	Verifier middleware.TokenVerifier
}

func RegisterAPI(r *router.Router, a API) {
	api := r.Group("/api")

	api.Post("/auth/register", "auth.register", a.Auth.Register)
	api.Post("/auth/login", "auth.login", a.Auth.Login)

	api.Get("/books", "books.index", a.Books.Index)
	api.Get("/books/{id}", "books.show", a.Books.Show)

	catalog := api.Group("/catalog")
	catalog.Get("/search", "catalog.search", a.Catalog.Search)
	catalog.Get("/advanced", "catalog.advanced", a.Catalog.Advanced)
	catalog.Get("/author/{author}", "catalog.author", a.Catalog.ByAuthor)
	catalog.Get("/isbn/{isbn}", "catalog.isbn", a.Catalog.ByISBN)
	catalog.Get("/id/{googleId}", "catalog.show", a.Catalog.ByGoogleID)

	api.Get("/reviews/{googleId}", "reviews.show", a.Reviews.Show)

	auth := api.Group("", middleware.Authenticate(a.Verifier))

	auth.Post("/books", "books.store", a.Books.Store, rbac.HasRole(rbac.RoleAdmin))

	cart := auth.Group("/cart")
	cart.Get("/", "cart.index", a.Cart.Index)
	cart.Post("/", "cart.store", a.Cart.Store)
	cart.Delete("/", "cart.clear", a.Cart.Clear)
	cart.Put("/{itemId}", "cart.update", a.Cart.Update)
	cart.Delete("/{itemId}", "cart.destroy", a.Cart.Destroy)

	loans := auth.Group("/loans")
	loans.Post("/checkout", "loans.checkout", a.Loans.Checkout)
	loans.Get("/", "loans.index", a.Loans.Index)
	loans.Get("/reminders", "loans.reminders", a.Loans.Reminders)
	loans.Put("/return/{loanId}", "loans.return", a.Loans.Return)

	auth.Post("/reviews", "reviews.store", a.Reviews.Store)
	auth.Post("/graphql", "graphql", a.GraphQL)
}
