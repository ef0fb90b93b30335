package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/bookstore/app/services"
	"github.com/shashiranjanraj/bookstore/pkg/response"
)

type updateCartInput struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

func (c *CartController) Index(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	view, err := c.carts.List(r.Context(), userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, view)
}

func (c *CartController) Store(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.AddToCartInput
	if !decode(w, r, &in) {
		return
	}

	item, err := c.carts.Add(r.Context(), userID, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, "Added to cart", item)
}

func (c *CartController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	itemID, ok := idParam(w, r, "itemId")
	if !ok {
		return
	}
	var in updateCartInput
	if !decode(w, r, &in) {
		return
	}

	item, err := c.carts.UpdateQuantity(r.Context(), userID, itemID, in.Quantity)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Message(w, "Cart updated", item)
}

func (c *CartController) Destroy(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	itemID, ok := idParam(w, r, "itemId")
	if !ok {
		return
	}

	if err := c.carts.Remove(r.Context(), userID, itemID); err != nil {
		fail(w, r, err)
		return
	}
	response.Message(w, "Item removed from cart", nil)
}

func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	n, err := c.carts.Clear(r.Context(), userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Message(w, "Cart cleared", map[string]int64{"removed": n})
}
