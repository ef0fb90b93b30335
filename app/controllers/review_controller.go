package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/bookstore/app/services"
	"github.com/shashiranjanraj/bookstore/pkg/response"
)

type ReviewController struct {
	reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{reviews: reviews}
}

func (c *ReviewController) Store(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.CreateReviewInput
	if !decode(w, r, &in) {
		return
	}

	review, err := c.reviews.Create(r.Context(), userID, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, "Review saved", review)
}

// Show returns the catalog rating next to the local reviews of a volume.
func (c *ReviewController) Show(w http.ResponseWriter, r *http.Request) {
	combined, err := c.reviews.Combined(r.Context(), chi.URLParam(r, "googleId"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, combined)
}
