// Package graphql exposes the loan read models as a GraphQL query root.
package graphql

import (
	"errors"

	"github.com/graphql-go/graphql"
	"github.com/shashiranjanraj/bookstore/app/services"
	"github.com/shashiranjanraj/bookstore/pkg/middleware"
)

var errUnauthenticated = errors.New("unauthenticated")

// Field names follow the REST JSON keys so the default resolver can read
// the service structs directly.
var loanType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Loan",
	Fields: graphql.Fields{
		"loan_id":         &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"book_id":         &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"title":           &graphql.Field{Type: graphql.String},
		"borrow_date":     &graphql.Field{Type: graphql.String},
		"due_date":        &graphql.Field{Type: graphql.String},
		"loan_duration":   &graphql.Field{Type: graphql.Int},
		"status":          &graphql.Field{Type: graphql.String},
		"days_remaining":  &graphql.Field{Type: graphql.Int},
		"alert_type":      &graphql.Field{Type: graphql.String},
		"display_message": &graphql.Field{Type: graphql.String},
	},
})

var reminderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Reminder",
	Fields: graphql.Fields{
		"borrow_date":     &graphql.Field{Type: graphql.String},
		"due_date":        &graphql.Field{Type: graphql.String},
		"loan_duration":   &graphql.Field{Type: graphql.Int},
		"days_remaining":  &graphql.Field{Type: graphql.Int},
		"books":           &graphql.Field{Type: graphql.NewList(graphql.String)},
		"loan_ids":        &graphql.Field{Type: graphql.NewList(graphql.Int)},
		"alert_type":      &graphql.Field{Type: graphql.String},
		"display_message": &graphql.Field{Type: graphql.String},
	},
})

// LoanQuery builds the root query over the caller's open loans.
func LoanQuery(loans *services.LoanService) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"activeLoans": &graphql.Field{
				Type: graphql.NewList(loanType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID, ok := middleware.UserID(p.Context)
					if !ok {
						return nil, errUnauthenticated
					}
					return loans.ActiveLoans(p.Context, userID)
				},
			},
			"reminders": &graphql.Field{
				Type: graphql.NewList(reminderType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID, ok := middleware.UserID(p.Context)
					if !ok {
						return nil, errUnauthenticated
					}
					return loans.Reminders(p.Context, userID)
				},
			},
		},
	})
}
