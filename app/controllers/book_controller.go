package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/bookstore/app/services"
	"github.com/shashiranjanraj/bookstore/pkg/response"
)

type BookController struct {
	books *services.BookService
}

func NewBookController(books *services.BookService) *BookController {
	return &BookController{books: books}
}

func (c *BookController) Index(w http.ResponseWriter, r *http.Request) {
	books, err := c.books.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, books)
}

func (c *BookController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	book, err := c.books.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, book)
}

// Store creates a book with its author links. Admin only.
func (c *BookController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.CreateBookInput
	if !decode(w, r, &in) {
		return
	}

	book, err := c.books.Create(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, "Book created", book)
}
