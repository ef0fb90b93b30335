package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/bookstore/app/services"
	"github.com/shashiranjanraj/bookstore/pkg/response"
)

type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

func (c *CatalogController) Search(w http.ResponseWriter, r *http.Request) {
	books, err := c.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	c.respond(w, r, books, err)
}

func (c *CatalogController) Advanced(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	books, err := c.catalog.AdvancedSearch(r.Context(), services.AdvancedQuery{
		Title:     q.Get("title"),
		Author:    q.Get("author"),
		ISBN:      q.Get("isbn"),
		Publisher: q.Get("publisher"),
		Subject:   q.Get("subject"),
		Keyword:   q.Get("q"),
		OrderBy:   q.Get("orderBy"),
		PrintType: q.Get("printType"),
		Lang:      q.Get("lang"),
	})
	c.respond(w, r, books, err)
}

func (c *CatalogController) ByAuthor(w http.ResponseWriter, r *http.Request) {
	books, err := c.catalog.ByAuthor(r.Context(), chi.URLParam(r, "author"))
	c.respond(w, r, books, err)
}

func (c *CatalogController) ByISBN(w http.ResponseWriter, r *http.Request) {
	books, err := c.catalog.ByISBN(r.Context(), chi.URLParam(r, "isbn"))
	c.respond(w, r, books, err)
}

func (c *CatalogController) ByGoogleID(w http.ResponseWriter, r *http.Request) {
	book, err := c.catalog.ByGoogleID(r.Context(), chi.URLParam(r, "googleId"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, book)
}

func (c *CatalogController) respond(w http.ResponseWriter, r *http.Request, books []services.CatalogBook, err error) {
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{"total": len(books), "books": books})
}
