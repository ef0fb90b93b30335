package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/bookstore/app/services"
	"github.com/shashiranjanraj/bookstore/pkg/response"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if !decode(w, r, &in) {
		return
	}

	res, err := c.auth.Register(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, "Registered", res)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if !decode(w, r, &in) {
		return
	}

	res, err := c.auth.Login(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, res)
}
