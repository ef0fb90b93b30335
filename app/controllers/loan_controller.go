package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/bookstore/app/services"
	"github.com/shashiranjanraj/bookstore/pkg/response"
)

// Duration carries no validate tag: LoanPolicy owns the allowed values.
type checkoutInput struct {
	Duration int `json:"duration"`
}

type LoanController struct {
	loans *services.LoanService
}

func NewLoanController(loans *services.LoanService) *LoanController {
	return &LoanController{loans: loans}
}

// Checkout turns the borrow cart into loans.
func (c *LoanController) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in checkoutInput
	if !decode(w, r, &in) {
		return
	}

	res, err := c.loans.Checkout(r.Context(), userID, in.Duration)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, "Books borrowed successfully", res)
}

func (c *LoanController) Index(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	loans, err := c.loans.ActiveLoans(r.Context(), userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{"loans": loans})
}

func (c *LoanController) Reminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	reminders, err := c.loans.Reminders(r.Context(), userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{"reminders": reminders})
}

func (c *LoanController) Return(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	loanID, ok := idParam(w, r, "loanId")
	if !ok {
		return
	}

	res, err := c.loans.Return(r.Context(), userID, loanID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Message(w, "Book returned successfully", res)
}
